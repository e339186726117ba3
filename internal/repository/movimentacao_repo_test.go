package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Contabilizar/estoque/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMovimentacaoRepo_AuditAndDecrementCommitTogether(t *testing.T) {
	db, mock := newMockDB(t)
	itens := NewItemRepository(db)
	movs := NewMovimentacaoRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "movimentacoes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "itens"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mov := &model.Movimentacao{
		FuncionarioID: 1, ItemID: 3, Quantidade: 5, Tipo: model.TipoRetirada,
		EstoqueAnterior: 50, EstoqueNovo: 45, DataHora: time.Now(), IP: "10.0.0.1", UserAgent: "curl/8",
	}
	err := NewTransactor(db).Transaction(context.Background(), func(tx *gorm.DB) error {
		if err := movs.CreateTx(tx, mov); err != nil {
			return err
		}
		return itens.UpdateStockTx(tx, 3, -5)
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), mov.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovimentacaoRepo_RollbackWhenDecrementFails(t *testing.T) {
	db, mock := newMockDB(t)
	itens := NewItemRepository(db)
	movs := NewMovimentacaoRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "movimentacoes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "itens"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := NewTransactor(db).Transaction(context.Background(), func(tx *gorm.DB) error {
		if err := movs.CreateTx(tx, &model.Movimentacao{FuncionarioID: 1, ItemID: 3, Quantidade: 5, Tipo: model.TipoRetirada}); err != nil {
			return err
		}
		return itens.UpdateStockTx(tx, 3, -5)
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovimentacaoRepo_ListByItem(t *testing.T) {
	db, mock := newMockDB(t)
	movs := NewMovimentacaoRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "movimentacoes" WHERE item_id = \$1 ORDER BY id DESC`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "item_id", "quantidade", "tipo"}).AddRow(1, 3, 5, "retirada"))

	list, err := movs.ListByItem(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.TipoRetirada, list[0].Tipo)
	assert.Equal(t, 5, list[0].Quantidade)
	assert.NoError(t, mock.ExpectationsWereMet())
}
