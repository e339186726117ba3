package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CadastrarItemRequest accepts stock values as given; only nome is required.
type CadastrarItemRequest struct {
	Nome          string  `json:"nome"           validate:"required,max=100"`
	Categoria     *string `json:"categoria"      validate:"omitempty,max=50"`
	EstoqueAtual  int     `json:"estoque_atual"`
	EstoqueMinimo int     `json:"estoque_minimo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CadastrarItemResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

type ItemResponse struct {
	ID            uint    `json:"id"`
	Nome          string  `json:"nome"`
	Categoria     *string `json:"categoria"`
	EstoqueAtual  int     `json:"estoque_atual"`
	EstoqueMinimo int     `json:"estoque_minimo"`
	Ativo         bool    `json:"ativo"`
}
