package repository

import "gorm.io/gorm"

// Store aggregates the entity repositories behind one unit-of-work boundary.
// Services depend on this interface, never on a storage engine directly.
type Store interface {
	Users() UserRepository
	Plans() PlanRepository
	Investments() InvestmentRepository
	Payouts() PayoutRepository
	Accounts() AccountRepository
	Transactions() TransactionRepository
	Commissions() CommissionRepository
	Notifications() NotificationRepository

	// InTx runs fn against a store bound to a single database transaction.
	// Returning an error rolls back every write made through that store.
	InTx(fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository                 { return &userRepository{db: s.db} }
func (s *gormStore) Plans() PlanRepository                 { return &planRepository{db: s.db} }
func (s *gormStore) Investments() InvestmentRepository     { return &investmentRepository{db: s.db} }
func (s *gormStore) Payouts() PayoutRepository             { return &payoutRepository{db: s.db} }
func (s *gormStore) Accounts() AccountRepository           { return &accountRepository{db: s.db} }
func (s *gormStore) Transactions() TransactionRepository   { return &transactionRepository{db: s.db} }
func (s *gormStore) Commissions() CommissionRepository     { return &commissionRepository{db: s.db} }
func (s *gormStore) Notifications() NotificationRepository { return &notificationRepository{db: s.db} }

func (s *gormStore) InTx(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
