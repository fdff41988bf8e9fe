package repository

import (
	"errors"

	"growfi/internal/domain"
	"growfi/internal/models"

	"gorm.io/gorm"
)

type PlanRepository interface {
	GetByID(id uint) (*models.Plan, error)
	ListActive() ([]models.Plan, error)
}

type planRepository struct {
	db *gorm.DB
}

func (r *planRepository) GetByID(id uint) (*models.Plan, error) {
	var p models.Plan
	if err := r.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *planRepository) ListActive() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Where("is_active = ?", true).Order("id ASC").Find(&plans).Error
	return plans, err
}
