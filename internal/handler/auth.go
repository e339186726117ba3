package handler

import (
	"errors"
	"net/http"

	"github.com/Contabilizar/estoque/internal/apierror"
	"github.com/Contabilizar/estoque/internal/dto"
	"github.com/Contabilizar/estoque/internal/middleware"
	"github.com/Contabilizar/estoque/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login exchanges login + senha for a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, service.ErrUsuarioNaoEncontrado):
		c.JSON(http.StatusUnauthorized, apierror.New("Usuário não encontrado"))
	case errors.Is(err, service.ErrSenhaIncorreta):
		c.JSON(http.StatusUnauthorized, apierror.New("Senha incorreta"))
	default:
		_ = c.Error(err)
	}
}

// Logout revokes the presented token until it would have expired anyway.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.GetIdentidade(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, apierror.Message{Message: "Logout realizado com sucesso"})
}
