package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the materialized fold of an owner's transaction log: balance,
// running earnings and running invested principal. Mutated only through
// AccountRepository.Credit/Debit inside a store transaction.
type Account struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0.00" json:"balance"`
	TotalEarnings decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0.00" json:"total_earnings"`
	TotalInvested decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0.00" json:"total_invested"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }
