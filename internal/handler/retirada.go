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

type RetiradaHandler struct{ svc service.RetiradaService }

func NewRetiradaHandler(svc service.RetiradaService) *RetiradaHandler {
	return &RetiradaHandler{svc: svc}
}

// Registrar withdraws stock after confirming the caller's PIN.
// The audit row and the decrement commit together or not at all.
func (h *RetiradaHandler) Registrar(c *gin.Context) {
	var req dto.RetiradaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	origem := dto.Origem{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	resp, err := h.svc.Registrar(c.Request.Context(), middleware.GetIdentidade(c), req, origem)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, service.ErrPINIncorreto):
		c.JSON(http.StatusUnauthorized, apierror.New("PIN incorreto"))
	case errors.Is(err, service.ErrTokenInvalido):
		c.JSON(http.StatusForbidden, apierror.New("Token inválido"))
	case errors.Is(err, service.ErrItemNaoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New("Item não encontrado"))
	case errors.Is(err, service.ErrEstoqueInsuficiente):
		c.JSON(http.StatusConflict, apierror.New("Estoque insuficiente"))
	default:
		_ = c.Error(err)
	}
}
