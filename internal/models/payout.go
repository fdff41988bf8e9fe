package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout records one applied day of accrual. The unique index on
// (investment_id, day_number) is the idempotency key for the whole engine:
// re-running a catch-up can never credit the same day twice.
type Payout struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	InvestmentID uint            `gorm:"not null;uniqueIndex:idx_payouts_investment_day" json:"investment_id"`
	DayNumber    int             `gorm:"not null;uniqueIndex:idx_payouts_investment_day" json:"day_number"` // 1-based
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	AppliedAt    time.Time       `gorm:"not null" json:"applied_at"`
}

func (Payout) TableName() string { return "payouts" }
