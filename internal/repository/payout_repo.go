package repository

import (
	"growfi/internal/models"

	"gorm.io/gorm"
)

type PayoutRepository interface {
	Create(p *models.Payout) error
	ExistsForDay(investmentID uint, dayNumber int) (bool, error)
	ListByInvestmentID(investmentID uint) ([]models.Payout, error)
}

type payoutRepository struct {
	db *gorm.DB
}

func (r *payoutRepository) Create(p *models.Payout) error {
	return r.db.Create(p).Error
}

func (r *payoutRepository) ExistsForDay(investmentID uint, dayNumber int) (bool, error) {
	var count int64
	err := r.db.Model(&models.Payout{}).
		Where("investment_id = ? AND day_number = ?", investmentID, dayNumber).
		Count(&count).Error
	return count > 0, err
}

func (r *payoutRepository) ListByInvestmentID(investmentID uint) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.Where("investment_id = ?", investmentID).Order("day_number ASC").Find(&payouts).Error
	return payouts, err
}
