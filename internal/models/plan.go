package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is an investment product with a fixed daily payout over a fixed
// duration. Contracts snapshot DailyAmount and DurationDays at creation,
// so editing a plan never alters running contracts.
type Plan struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Minimum      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"minimum"`
	Maximum      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"maximum"`
	DailyAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"daily_amount"`
	DurationDays int             `gorm:"not null" json:"duration_days"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time       `json:"-"`
	UpdatedAt    time.Time       `json:"-"`
}

func (Plan) TableName() string { return "plans" }

// TotalReturn is the payout a full-term contract on this plan accrues.
func (p *Plan) TotalReturn() decimal.Decimal {
	return p.DailyAmount.Mul(decimal.NewFromInt(int64(p.DurationDays)))
}
