package repository

import (
	"growfi/internal/domain"
	"growfi/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvestmentRepository interface {
	Create(inv *models.Investment) error
	GetByID(id uint) (*models.Investment, error)
	// GetByIDForUpdate takes a row lock; call only inside Store.InTx.
	GetByIDForUpdate(id uint) (*models.Investment, error)
	ListActive() ([]models.Investment, error)
	ListByUserID(userID uint, limit, offset int) ([]models.Investment, error)
	Update(inv *models.Investment) error
}

type investmentRepository struct {
	db *gorm.DB
}

func (r *investmentRepository) Create(inv *models.Investment) error {
	return r.db.Create(inv).Error
}

func (r *investmentRepository) GetByID(id uint) (*models.Investment, error) {
	var inv models.Investment
	if err := r.db.First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *investmentRepository) GetByIDForUpdate(id uint) (*models.Investment, error) {
	var inv models.Investment
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&inv, id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *investmentRepository) ListActive() ([]models.Investment, error) {
	var invs []models.Investment
	err := r.db.Where("status = ?", domain.InvestmentStatusActive).Order("id ASC").Find(&invs).Error
	return invs, err
}

func (r *investmentRepository) ListByUserID(userID uint, limit, offset int) ([]models.Investment, error) {
	var invs []models.Investment
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&invs).Error
	return invs, err
}

func (r *investmentRepository) Update(inv *models.Investment) error {
	return r.db.Save(inv).Error
}
