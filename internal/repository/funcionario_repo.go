package repository

import (
	"context"

	"github.com/Contabilizar/estoque/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FuncionarioRepository is the credential store. Employees are never deleted.
type FuncionarioRepository interface {
	FindByLogin(ctx context.Context, login string) (*model.Funcionario, error)
	FindByID(ctx context.Context, id uint) (*model.Funcionario, error)
	// CreateIfAbsent inserts f unless its login already exists; reports whether a row was written.
	CreateIfAbsent(ctx context.Context, f *model.Funcionario) (bool, error)
	// Upsert creates f or overwrites name, hashes, sector and reactivates the existing login.
	Upsert(ctx context.Context, f *model.Funcionario) error
}

type funcionarioRepo struct{ db *gorm.DB }

func NewFuncionarioRepository(db *gorm.DB) FuncionarioRepository { return &funcionarioRepo{db: db} }

func (r *funcionarioRepo) FindByLogin(ctx context.Context, login string) (*model.Funcionario, error) {
	var f model.Funcionario
	err := r.db.WithContext(ctx).Where("login = ?", login).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *funcionarioRepo) FindByID(ctx context.Context, id uint) (*model.Funcionario, error) {
	var f model.Funcionario
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *funcionarioRepo) CreateIfAbsent(ctx context.Context, f *model.Funcionario) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "login"}}, DoNothing: true}).
		Create(f)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *funcionarioRepo) Upsert(ctx context.Context, f *model.Funcionario) error {
	f.Ativo = true
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "login"}},
			DoUpdates: clause.AssignmentColumns([]string{"nome", "senha_hash", "pin_hash", "setor", "ativo"}),
		}).
		Create(f).Error
}
