package service

import "errors"

// Domain errors. Handlers match them with errors.Is; anything else is an internal error.
var (
	ErrUsuarioNaoEncontrado = errors.New("usuário não encontrado")
	ErrSenhaIncorreta       = errors.New("senha incorreta")
	ErrPINIncorreto         = errors.New("PIN incorreto")
	ErrTokenAusente         = errors.New("token não enviado")
	ErrTokenInvalido        = errors.New("token inválido")
	ErrItemNaoEncontrado    = errors.New("item não encontrado")
	ErrEstoqueInsuficiente  = errors.New("estoque insuficiente")
)
