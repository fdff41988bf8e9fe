package repository

import (
	"growfi/internal/domain"
	"growfi/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	ListByUserID(userID uint, limit, offset int) ([]models.Transaction, error)
	// SumByKinds folds completed transactions of the given kinds for an owner.
	SumByKinds(userID uint, kinds []string) (decimal.Decimal, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func (r *transactionRepository) ListByUserID(userID uint, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&txs).Error
	return txs, err
}

func (r *transactionRepository) SumByKinds(userID uint, kinds []string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND kind IN ? AND status = ?", userID, kinds, domain.TxStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
