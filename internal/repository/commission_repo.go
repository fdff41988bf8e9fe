package repository

import (
	"growfi/internal/domain"
	"growfi/internal/models"

	"gorm.io/gorm"
)

type CommissionRepository interface {
	Create(cm *models.Commission) error
	ExistsRegistration(referrerID, referredUserID uint) (bool, error)
	ExistsForInvestment(investmentID uint) (bool, error)
	ListByReferrerID(referrerID uint, limit, offset int) ([]models.Commission, error)
}

type commissionRepository struct {
	db *gorm.DB
}

func (r *commissionRepository) Create(cm *models.Commission) error {
	return r.db.Create(cm).Error
}

func (r *commissionRepository) ExistsRegistration(referrerID, referredUserID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Commission{}).
		Where("referrer_id = ? AND referred_user_id = ? AND type = ?",
			referrerID, referredUserID, domain.CommissionTypeRegistration).
		Count(&count).Error
	return count > 0, err
}

func (r *commissionRepository) ExistsForInvestment(investmentID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Commission{}).
		Where("investment_id = ? AND type = ?", investmentID, domain.CommissionTypeInvestment).
		Count(&count).Error
	return count > 0, err
}

func (r *commissionRepository) ListByReferrerID(referrerID uint, limit, offset int) ([]models.Commission, error) {
	var cms []models.Commission
	err := r.db.Where("referrer_id = ?", referrerID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&cms).Error
	return cms, err
}
