package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment is a single principal commitment to a plan. DailyAmount and
// DurationDays are snapshots taken at creation; the payout processor never
// re-reads the plan.
type Investment struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	PlanID       uint            `gorm:"not null;index" json:"plan_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	DailyAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"daily_amount"`
	DurationDays int             `gorm:"not null" json:"duration_days"`
	Status       string          `gorm:"size:20;not null;index;default:'active'" json:"status"`
	StartAt      time.Time       `gorm:"not null" json:"start_at"`
	EndAt        time.Time       `gorm:"not null" json:"end_at"`
	ElapsedDays  int             `gorm:"not null;default:0" json:"elapsed_days"`
	TotalAccrued decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0.00" json:"total_accrued"`
	LastPayoutAt *time.Time      `json:"last_payout_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"-"`
}

func (Investment) TableName() string { return "investments" }
