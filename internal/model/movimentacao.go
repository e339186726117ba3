package model

import "time"

const TipoRetirada = "retirada"

// Movimentacao is one immutable audit row per stock change.
// EstoqueAnterior/EstoqueNovo are read under the item row lock.
type Movimentacao struct {
	ID              uint      `gorm:"primaryKey"`
	FuncionarioID   uint      `gorm:"not null;index"`
	ItemID          uint      `gorm:"not null;index"`
	Quantidade      int       `gorm:"not null"`
	Tipo            string    `gorm:"type:varchar(20);not null"`
	EstoqueAnterior int       `gorm:"not null"`
	EstoqueNovo     int       `gorm:"not null"`
	DataHora        time.Time `gorm:"not null"`
	IP              string    `gorm:"type:varchar(50)"`
	UserAgent       string

	Funcionario *Funcionario `gorm:"foreignKey:FuncionarioID"`
	Item        *Item        `gorm:"foreignKey:ItemID"`
}

func (Movimentacao) TableName() string { return "movimentacoes" }
