package repository

import (
	"errors"

	"growfi/internal/domain"
	"growfi/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountRepository owns the three running totals on an account. Credit and
// Debit are single read-modify-write operations under a row lock that append
// exactly one transaction; call them only inside Store.InTx.
type AccountRepository interface {
	Create(a *models.Account) error
	GetByUserID(userID uint) (*models.Account, error)
	List() ([]models.Account, error)
	Update(a *models.Account) error
	Credit(userID uint, amount decimal.Decimal, kind string) (*models.Transaction, error)
	Debit(userID uint, amount decimal.Decimal, kind string) (*models.Transaction, error)
}

type accountRepository struct {
	db *gorm.DB
}

func (r *accountRepository) Create(a *models.Account) error {
	return r.db.Create(a).Error
}

func (r *accountRepository) GetByUserID(userID uint) (*models.Account, error) {
	var a models.Account
	if err := r.db.Where("user_id = ?", userID).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) List() ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.Order("id ASC").Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) Update(a *models.Account) error {
	return r.db.Save(a).Error
}

func (r *accountRepository) lockByUserID(userID uint) (*models.Account, error) {
	var a models.Account
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Credit adds amount to balance and total_earnings and appends the
// transaction. Payouts and commissions both land here.
func (r *accountRepository) Credit(userID uint, amount decimal.Decimal, kind string) (*models.Transaction, error) {
	a, err := r.lockByUserID(userID)
	if err != nil {
		return nil, err
	}
	a.Balance = a.Balance.Add(amount)
	a.TotalEarnings = a.TotalEarnings.Add(amount)
	err = r.db.Model(a).Updates(map[string]interface{}{
		"balance":        a.Balance,
		"total_earnings": a.TotalEarnings,
	}).Error
	if err != nil {
		return nil, err
	}
	trx := &models.Transaction{UserID: userID, Kind: kind, Amount: amount, Status: domain.TxStatusCompleted}
	if err := r.db.Create(trx).Error; err != nil {
		return nil, err
	}
	return trx, nil
}

// Debit subtracts amount from balance, adds it to total_invested and appends
// the transaction. Fails with ErrInsufficientBalance leaving no writes.
func (r *accountRepository) Debit(userID uint, amount decimal.Decimal, kind string) (*models.Transaction, error) {
	a, err := r.lockByUserID(userID)
	if err != nil {
		return nil, err
	}
	if a.Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	a.TotalInvested = a.TotalInvested.Add(amount)
	err = r.db.Model(a).Updates(map[string]interface{}{
		"balance":        a.Balance,
		"total_invested": a.TotalInvested,
	}).Error
	if err != nil {
		return nil, err
	}
	trx := &models.Transaction{UserID: userID, Kind: kind, Amount: amount, Status: domain.TxStatusCompleted}
	if err := r.db.Create(trx).Error; err != nil {
		return nil, err
	}
	return trx, nil
}
