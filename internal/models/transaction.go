package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is the append-only audit trail behind every balance change.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Kind      string          `gorm:"size:30;not null;index" json:"kind"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status    string          `gorm:"size:20;not null;default:'completed'" json:"status"`
	Reference string          `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }

// BeforeCreate assigns a unique reference number when the caller did not.
func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.Reference != "" {
		return nil
	}
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	t.Reference = fmt.Sprintf("TXN%s%d%s", time.Now().UTC().Format("20060102150405"), t.UserID, hex.EncodeToString(b))
	return nil
}
