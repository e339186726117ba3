package repository

import (
	"context"

	"github.com/Contabilizar/estoque/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository defines the data access contract for the catalog.
// Services depend on this interface, not on the concrete GORM implementation.
type ItemRepository interface {
	Create(ctx context.Context, it *model.Item) error
	// List returns every item, most recently created first.
	List(ctx context.Context) ([]model.Item, error)
	FindByID(ctx context.Context, id uint) (*model.Item, error)

	// Used inside transactions; callers must pass the tx instance.
	// FindByIDForUpdateTx locks the row until the transaction ends.
	FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.Item, error)
	UpdateStockTx(tx *gorm.DB, id uint, delta int) error
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) Create(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *itemRepo) List(ctx context.Context) ([]model.Item, error) {
	var itens []model.Item
	err := r.db.WithContext(ctx).Order("id DESC").Find(&itens).Error
	return itens, err
}

func (r *itemRepo) FindByID(ctx context.Context, id uint) (*model.Item, error) {
	var it model.Item
	if err := r.db.WithContext(ctx).First(&it, id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.Item, error) {
	var it model.Item
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&it, id).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) UpdateStockTx(tx *gorm.DB, id uint, delta int) error {
	res := tx.Model(&model.Item{}).Where("id = ?", id).
		Update("estoque_atual", gorm.Expr("estoque_atual + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
