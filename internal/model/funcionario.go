package model

import "time"

// Funcionario is an employee allowed to log in and withdraw stock.
// PinHash is a bcrypt hash; the PIN itself is never persisted.
type Funcionario struct {
	ID        uint      `gorm:"primaryKey"`
	Nome      string    `gorm:"type:varchar(100);not null"`
	Login     string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	SenhaHash string    `gorm:"not null"`
	PinHash   string    `gorm:"not null"`
	Setor     *string   `gorm:"type:varchar(100)"`
	Ativo     bool      `gorm:"not null;default:true"`
	CriadoEm  time.Time `gorm:"autoCreateTime"`
}

func (Funcionario) TableName() string { return "funcionarios" }
