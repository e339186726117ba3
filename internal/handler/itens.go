package handler

import (
	"net/http"

	"github.com/Contabilizar/estoque/internal/dto"
	"github.com/Contabilizar/estoque/internal/service"

	"github.com/gin-gonic/gin"
)

type ItensHandler struct{ svc service.ItemService }

func NewItensHandler(svc service.ItemService) *ItensHandler { return &ItensHandler{svc: svc} }

// Cadastrar answers 200 like the legacy API; id is an extra field for new clients.
func (h *ItensHandler) Cadastrar(c *gin.Context) {
	var req dto.CadastrarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cadastrar(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns every item, newest first.
func (h *ItensHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
