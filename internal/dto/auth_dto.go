package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Login string `json:"login" validate:"required,max=50"`
	Senha string `json:"senha" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	Token string `json:"token"`
}
