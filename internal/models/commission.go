package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Commission is a referrer bonus triggered by a referred user's registration
// or investment. The unique index on (investment_id, type) guarantees an
// investment pays out at most once; registration commissions are guarded by
// an exists check inside the crediting transaction (a composite unique index
// over the nullable investment_id would not hold in MySQL).
type Commission struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ReferrerID     uint            `gorm:"not null;index" json:"referrer_id"`
	ReferredUserID uint            `gorm:"not null;index" json:"referred_user_id"`
	InvestmentID   *uint           `gorm:"uniqueIndex:idx_commissions_investment_type" json:"investment_id,omitempty"` // nil for registration commissions
	Rate           decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"rate"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Tier           int             `gorm:"not null;default:1" json:"tier"`
	Type           string          `gorm:"size:20;not null;uniqueIndex:idx_commissions_investment_type" json:"type"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (Commission) TableName() string { return "commissions" }
