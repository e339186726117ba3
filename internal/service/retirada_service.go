package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Contabilizar/estoque/internal/dto"
	"github.com/Contabilizar/estoque/internal/model"
	"github.com/Contabilizar/estoque/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RetiradaService records PIN-confirmed stock withdrawals.
type RetiradaService interface {
	Registrar(ctx context.Context, id *Identidade, req dto.RetiradaRequest, origem dto.Origem) (*dto.RetiradaResponse, error)
}

type retiradaService struct {
	funcionarios     repository.FuncionarioRepository
	itens            repository.ItemRepository
	movimentacoes    repository.MovimentacaoRepository
	tx               repository.Transactor
	permitirNegativo bool
}

func NewRetiradaService(
	funcionarios repository.FuncionarioRepository,
	itens repository.ItemRepository,
	movimentacoes repository.MovimentacaoRepository,
	tx repository.Transactor,
	permitirNegativo bool,
) RetiradaService {
	return &retiradaService{
		funcionarios:     funcionarios,
		itens:            itens,
		movimentacoes:    movimentacoes,
		tx:               tx,
		permitirNegativo: permitirNegativo,
	}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
//   1. Re-read the caller's PIN hash (the token never carries it) and compare
//   2. BEGIN TX: lock item row, check stock policy, insert movimentacao, decrement
//   3. COMMIT: both writes or neither

func (s *retiradaService) Registrar(ctx context.Context, id *Identidade, req dto.RetiradaRequest, origem dto.Origem) (*dto.RetiradaResponse, error) {
	if id == nil {
		return nil, ErrTokenInvalido
	}

	f, err := s.funcionarios.FindByID(ctx, id.FuncionarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalido
		}
		return nil, fmt.Errorf("buscar funcionario: %w", err)
	}
	if !f.Ativo {
		return nil, ErrTokenInvalido
	}
	if err := bcrypt.CompareHashAndPassword([]byte(f.PinHash), []byte(req.Pin)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrPINIncorreto
		}
		return nil, fmt.Errorf("comparar PIN: %w", err)
	}

	var estoqueNovo int
	txErr := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		it, err := s.itens.FindByIDForUpdateTx(tx, req.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNaoEncontrado
			}
			return err
		}

		estoqueNovo = it.EstoqueAtual - req.Quantidade
		if estoqueNovo < 0 && !s.permitirNegativo {
			return ErrEstoqueInsuficiente
		}

		mov := &model.Movimentacao{
			FuncionarioID:   f.ID,
			ItemID:          it.ID,
			Quantidade:      req.Quantidade,
			Tipo:            model.TipoRetirada,
			EstoqueAnterior: it.EstoqueAtual,
			EstoqueNovo:     estoqueNovo,
			DataHora:        time.Now(),
			IP:              origem.IP,
			UserAgent:       origem.UserAgent,
		}
		if err := s.movimentacoes.CreateTx(tx, mov); err != nil {
			return fmt.Errorf("registrar movimentacao: %w", err)
		}
		if err := s.itens.UpdateStockTx(tx, it.ID, -req.Quantidade); err != nil {
			return fmt.Errorf("descontar estoque: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if estoqueNovo < 0 {
		log.Warn().
			Uint("item_id", req.ItemID).
			Int("estoque_atual", estoqueNovo).
			Uint("funcionario_id", f.ID).
			Msg("withdrawal left negative stock")
	}

	return &dto.RetiradaResponse{
		Message:      "Retirada registrada com sucesso",
		ItemID:       req.ItemID,
		EstoqueAtual: estoqueNovo,
	}, nil
}
