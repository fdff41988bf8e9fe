package service

import (
	"io"
	"sort"

	"growfi/internal/domain"
	"growfi/internal/models"
	"growfi/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// memStore is an in-memory repository.Store for service tests. InTx runs the
// callback against the same store without rollback; tests exercise the
// validate-before-write paths, not transactional unwinding.
type memStore struct {
	users         map[uint]*models.User
	plans         map[uint]*models.Plan
	investments   map[uint]*models.Investment
	payouts       []*models.Payout
	accounts      map[uint]*models.Account // by user id
	transactions  []*models.Transaction
	commissions   []*models.Commission
	notifications []*models.Notification
	nextID        uint

	failAccountForUser uint // simulate a missing account mid-batch
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[uint]*models.User),
		plans:       make(map[uint]*models.Plan),
		investments: make(map[uint]*models.Investment),
		accounts:    make(map[uint]*models.Account),
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) Users() repository.UserRepository                 { return memUsers{m} }
func (m *memStore) Plans() repository.PlanRepository                 { return memPlans{m} }
func (m *memStore) Investments() repository.InvestmentRepository     { return memInvestments{m} }
func (m *memStore) Payouts() repository.PayoutRepository             { return memPayouts{m} }
func (m *memStore) Accounts() repository.AccountRepository           { return memAccounts{m} }
func (m *memStore) Transactions() repository.TransactionRepository   { return memTransactions{m} }
func (m *memStore) Commissions() repository.CommissionRepository     { return memCommissions{m} }
func (m *memStore) Notifications() repository.NotificationRepository { return memNotifications{m} }

func (m *memStore) InTx(fn func(repository.Store) error) error { return fn(m) }

type memUsers struct{ s *memStore }

func (r memUsers) Create(u *models.User) error {
	u.ID = r.s.id()
	r.s.users[u.ID] = u
	return nil
}

func (r memUsers) GetByID(id uint) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByPhone(phone string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memUsers) GetByReferralCode(code string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type memPlans struct{ s *memStore }

func (r memPlans) GetByID(id uint) (*models.Plan, error) {
	p, ok := r.s.plans[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPlans) ListActive() ([]models.Plan, error) {
	var out []models.Plan
	for _, p := range r.s.plans {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memInvestments struct{ s *memStore }

func (r memInvestments) Create(inv *models.Investment) error {
	inv.ID = r.s.id()
	cp := *inv
	r.s.investments[inv.ID] = &cp
	return nil
}

func (r memInvestments) GetByID(id uint) (*models.Investment, error) {
	inv, ok := r.s.investments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r memInvestments) GetByIDForUpdate(id uint) (*models.Investment, error) {
	return r.GetByID(id)
}

func (r memInvestments) ListActive() ([]models.Investment, error) {
	var out []models.Investment
	for _, inv := range r.s.investments {
		if inv.Status == domain.InvestmentStatusActive {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memInvestments) ListByUserID(userID uint, limit, offset int) ([]models.Investment, error) {
	var out []models.Investment
	for _, inv := range r.s.investments {
		if inv.UserID == userID {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memInvestments) Update(inv *models.Investment) error {
	cp := *inv
	r.s.investments[inv.ID] = &cp
	return nil
}

type memPayouts struct{ s *memStore }

func (r memPayouts) Create(p *models.Payout) error {
	for _, existing := range r.s.payouts {
		if existing.InvestmentID == p.InvestmentID && existing.DayNumber == p.DayNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	p.ID = r.s.id()
	cp := *p
	r.s.payouts = append(r.s.payouts, &cp)
	return nil
}

func (r memPayouts) ExistsForDay(investmentID uint, dayNumber int) (bool, error) {
	for _, p := range r.s.payouts {
		if p.InvestmentID == investmentID && p.DayNumber == dayNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r memPayouts) ListByInvestmentID(investmentID uint) ([]models.Payout, error) {
	var out []models.Payout
	for _, p := range r.s.payouts {
		if p.InvestmentID == investmentID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out, nil
}

type memAccounts struct{ s *memStore }

func (r memAccounts) Create(a *models.Account) error {
	a.ID = r.s.id()
	cp := *a
	r.s.accounts[a.UserID] = &cp
	return nil
}

func (r memAccounts) GetByUserID(userID uint) (*models.Account, error) {
	if r.s.failAccountForUser != 0 && userID == r.s.failAccountForUser {
		return nil, domain.ErrAccountNotFound
	}
	a, ok := r.s.accounts[userID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (r memAccounts) List() ([]models.Account, error) {
	var out []models.Account
	for _, a := range r.s.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r memAccounts) Update(a *models.Account) error {
	cp := *a
	r.s.accounts[a.UserID] = &cp
	return nil
}

func (r memAccounts) Credit(userID uint, amount decimal.Decimal, kind string) (*models.Transaction, error) {
	if r.s.failAccountForUser != 0 && userID == r.s.failAccountForUser {
		return nil, domain.ErrAccountNotFound
	}
	a, ok := r.s.accounts[userID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.Balance = a.Balance.Add(amount)
	a.TotalEarnings = a.TotalEarnings.Add(amount)
	trx := &models.Transaction{ID: r.s.id(), UserID: userID, Kind: kind, Amount: amount, Status: domain.TxStatusCompleted}
	r.s.transactions = append(r.s.transactions, trx)
	return trx, nil
}

func (r memAccounts) Debit(userID uint, amount decimal.Decimal, kind string) (*models.Transaction, error) {
	a, ok := r.s.accounts[userID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if a.Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	a.TotalInvested = a.TotalInvested.Add(amount)
	trx := &models.Transaction{ID: r.s.id(), UserID: userID, Kind: kind, Amount: amount, Status: domain.TxStatusCompleted}
	r.s.transactions = append(r.s.transactions, trx)
	return trx, nil
}

type memTransactions struct{ s *memStore }

func (r memTransactions) ListByUserID(userID uint, limit, offset int) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range r.s.transactions {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r memTransactions) SumByKinds(userID uint, kinds []string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range r.s.transactions {
		if t.UserID != userID || t.Status != domain.TxStatusCompleted {
			continue
		}
		for _, k := range kinds {
			if t.Kind == k {
				total = total.Add(t.Amount)
				break
			}
		}
	}
	return total, nil
}

type memCommissions struct{ s *memStore }

func (r memCommissions) Create(cm *models.Commission) error {
	if cm.InvestmentID != nil {
		for _, existing := range r.s.commissions {
			if existing.InvestmentID != nil && *existing.InvestmentID == *cm.InvestmentID && existing.Type == cm.Type {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	cm.ID = r.s.id()
	cp := *cm
	r.s.commissions = append(r.s.commissions, &cp)
	return nil
}

func (r memCommissions) ExistsRegistration(referrerID, referredUserID uint) (bool, error) {
	for _, cm := range r.s.commissions {
		if cm.ReferrerID == referrerID && cm.ReferredUserID == referredUserID && cm.Type == domain.CommissionTypeRegistration {
			return true, nil
		}
	}
	return false, nil
}

func (r memCommissions) ExistsForInvestment(investmentID uint) (bool, error) {
	for _, cm := range r.s.commissions {
		if cm.InvestmentID != nil && *cm.InvestmentID == investmentID && cm.Type == domain.CommissionTypeInvestment {
			return true, nil
		}
	}
	return false, nil
}

func (r memCommissions) ListByReferrerID(referrerID uint, limit, offset int) ([]models.Commission, error) {
	var out []models.Commission
	for _, cm := range r.s.commissions {
		if cm.ReferrerID == referrerID {
			out = append(out, *cm)
		}
	}
	return out, nil
}

type memNotifications struct{ s *memStore }

func (r memNotifications) Create(n *models.Notification) error {
	n.ID = r.s.id()
	cp := *n
	r.s.notifications = append(r.s.notifications, &cp)
	return nil
}

func (r memNotifications) ListByUserID(userID uint, limit, offset int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r memNotifications) MarkRead(id, userID uint) error { return nil }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedAccount creates a user with an account holding the given balance.
func seedAccount(s *memStore, balance string) uint {
	u := &models.User{Phone: "0900000000", ReferralCode: "SEED0000"}
	_ = memUsers{s}.Create(u)
	_ = memAccounts{s}.Create(&models.Account{
		UserID:        u.ID,
		Balance:       dec(balance),
		TotalEarnings: decimal.Zero,
		TotalInvested: decimal.Zero,
	})
	return u.ID
}

// seedPlan installs a plan and returns its id.
func seedPlan(s *memStore, min, max, daily string, duration int) uint {
	p := &models.Plan{
		Name:         "TEST PLAN",
		Minimum:      dec(min),
		Maximum:      dec(max),
		DailyAmount:  dec(daily),
		DurationDays: duration,
		IsActive:     true,
	}
	p.ID = s.id()
	s.plans[p.ID] = p
	return p.ID
}
