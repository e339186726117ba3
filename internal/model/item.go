package model

import "time"

// Item is a catalog entry. EstoqueAtual has no floor; EstoqueMinimo is advisory only.
type Item struct {
	ID            uint      `gorm:"primaryKey"`
	Nome          string    `gorm:"type:varchar(100);not null"`
	Categoria     *string   `gorm:"type:varchar(50)"`
	EstoqueAtual  int       `gorm:"not null;default:0"`
	EstoqueMinimo int       `gorm:"not null;default:0"`
	Ativo         bool      `gorm:"not null;default:true"`
	CriadoEm      time.Time `gorm:"autoCreateTime"`
}

func (Item) TableName() string { return "itens" }
