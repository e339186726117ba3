package dto

type RetiradaRequest struct {
	ItemID     uint   `json:"item_id"    validate:"required"`
	Quantidade int    `json:"quantidade" validate:"required"`
	Pin        string `json:"pin"        validate:"required,max=10"`
}

// Origem identifies where a withdrawal request came from, for the audit row.
type Origem struct {
	IP        string
	UserAgent string
}

type RetiradaResponse struct {
	Message      string `json:"message"`
	ItemID       uint   `json:"item_id"`
	EstoqueAtual int    `json:"estoque_atual"`
}
