package repository

import (
	"context"

	"github.com/Contabilizar/estoque/internal/model"

	"gorm.io/gorm"
)

// MovimentacaoRepository is the append-only audit log: rows are created, never updated or deleted.
type MovimentacaoRepository interface {
	CreateTx(tx *gorm.DB, m *model.Movimentacao) error
	ListByItem(ctx context.Context, itemID uint) ([]model.Movimentacao, error)
}

type movimentacaoRepo struct{ db *gorm.DB }

func NewMovimentacaoRepository(db *gorm.DB) MovimentacaoRepository {
	return &movimentacaoRepo{db: db}
}

func (r *movimentacaoRepo) CreateTx(tx *gorm.DB, m *model.Movimentacao) error {
	return tx.Omit("Funcionario", "Item").Create(m).Error
}

func (r *movimentacaoRepo) ListByItem(ctx context.Context, itemID uint) ([]model.Movimentacao, error) {
	var movs []model.Movimentacao
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("id DESC").
		Find(&movs).Error
	return movs, err
}
