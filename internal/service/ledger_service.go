package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"growfi/internal/domain"
	"growfi/internal/models"
	"growfi/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EntityMirror is the narrow fire-and-forget interface to the secondary
// store. A nil mirror disables mirroring entirely.
type EntityMirror interface {
	Mirror(ctx context.Context, key string, entity interface{})
}

// LedgerService owns contract records, their status machine and the per-day
// payout sub-ledger.
type LedgerService struct {
	store  repository.Store
	log    *logrus.Logger
	mirror EntityMirror
}

func NewLedgerService(store repository.Store, log *logrus.Logger, mirror EntityMirror) *LedgerService {
	return &LedgerService{store: store, log: log, mirror: mirror}
}

// Open commits a principal to a plan: debits the owner's account and creates
// an active contract with the plan's daily amount and duration snapshotted.
// Validation failures leave all state unchanged.
func (s *LedgerService) Open(ctx context.Context, userID, planID uint, amount decimal.Decimal) (*models.Investment, error) {
	plan, err := s.store.Plans().GetByID(planID)
	if err != nil {
		return nil, err
	}
	if amount.LessThan(plan.Minimum) || amount.GreaterThan(plan.Maximum) {
		return nil, domain.ErrInvalidAmount
	}

	var inv *models.Investment
	err = s.store.InTx(func(tx repository.Store) error {
		if _, err := tx.Accounts().Debit(userID, amount, domain.TxKindInvestmentDebit); err != nil {
			return err
		}
		now := time.Now()
		inv = &models.Investment{
			UserID:       userID,
			PlanID:       plan.ID,
			Amount:       amount,
			DailyAmount:  plan.DailyAmount,
			DurationDays: plan.DurationDays,
			Status:       domain.InvestmentStatusActive,
			StartAt:      now,
			EndAt:        now.AddDate(0, 0, plan.DurationDays),
			TotalAccrued: decimal.Zero,
		}
		if err := tx.Investments().Create(inv); err != nil {
			return err
		}
		s.notify(tx, userID, "Investment Created",
			fmt.Sprintf("Your investment of %s in %s has been created.", amount.StringFixed(2), plan.Name),
			domain.NotificationKindInvestment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"investment_id": inv.ID,
		"user_id":       userID,
		"plan_id":       plan.ID,
		"amount":        amount.StringFixed(2),
	}).Info("investment opened")
	s.mirrorInvestment(ctx, inv)
	s.mirrorAccount(ctx, userID)
	return inv, nil
}

// DueDays reports how many payout days a contract has earned by asOf. The
// start day counts as day 1; the result is date-based and independent of how
// often or how late the caller runs, which is what makes catch-up possible.
func DueDays(startAt, asOf time.Time, durationDays int) int {
	due := daysBetween(startAt, asOf) + 1
	if due < 0 {
		due = 0
	}
	if due > durationDays {
		due = durationDays
	}
	return due
}

func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// CatchupResult reports what one catch-up pass applied.
type CatchupResult struct {
	DaysApplied int
	Completed   bool
}

// ApplyCatchup applies every payout the contract is owed up to asOf, one
// short transaction per day. Each day is keyed by the (investment, day)
// uniqueness invariant, so a rerun after a partial failure resumes from the
// last recorded day instead of re-crediting.
func (s *LedgerService) ApplyCatchup(ctx context.Context, investmentID uint, asOf time.Time) (CatchupResult, error) {
	var res CatchupResult
	inv, err := s.store.Investments().GetByID(investmentID)
	if err != nil {
		return res, err
	}
	if inv.Status != domain.InvestmentStatusActive {
		return res, domain.ErrInvestmentNotActive
	}

	due := DueDays(inv.StartAt, asOf, inv.DurationDays)
	for day := inv.ElapsedDays + 1; day <= due; day++ {
		applied, completed, err := s.applyDay(ctx, investmentID, day)
		if err != nil {
			return res, fmt.Errorf("apply day %d: %w", day, err)
		}
		if applied {
			res.DaysApplied++
		}
		if completed {
			res.Completed = true
		}
	}
	if res.DaysApplied > 0 {
		s.mirrorAccount(ctx, inv.UserID)
		if cur, err := s.store.Investments().GetByID(investmentID); err == nil {
			s.mirrorInvestment(ctx, cur)
		}
	}
	return res, nil
}

// applyDay credits exactly one day's payout inside its own transaction.
// Returns applied=false when another run already covered the day.
func (s *LedgerService) applyDay(ctx context.Context, investmentID uint, day int) (applied, completed bool, err error) {
	err = s.store.InTx(func(tx repository.Store) error {
		inv, err := tx.Investments().GetByIDForUpdate(investmentID)
		if err != nil {
			return err
		}
		if inv.Status != domain.InvestmentStatusActive || inv.ElapsedDays >= day {
			return nil
		}

		exists, err := tx.Payouts().ExistsForDay(investmentID, day)
		if err != nil {
			return err
		}
		if exists {
			// The payout row made it in but the contract counters did not.
			// Resync without touching the account; the credit already landed.
			inv.ElapsedDays = day
			inv.TotalAccrued = inv.DailyAmount.Mul(decimal.NewFromInt(int64(day)))
			if day >= inv.DurationDays {
				inv.Status = domain.InvestmentStatusCompleted
				completed = true
			}
			return tx.Investments().Update(inv)
		}

		now := time.Now()
		payout := &models.Payout{
			InvestmentID: investmentID,
			DayNumber:    day,
			Amount:       inv.DailyAmount,
			AppliedAt:    now,
		}
		if err := tx.Payouts().Create(payout); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}
		if _, err := tx.Accounts().Credit(inv.UserID, inv.DailyAmount, domain.TxKindDailyPayout); err != nil {
			return err
		}

		inv.ElapsedDays = day
		inv.TotalAccrued = inv.TotalAccrued.Add(inv.DailyAmount)
		inv.LastPayoutAt = &now
		if day >= inv.DurationDays {
			inv.Status = domain.InvestmentStatusCompleted
			completed = true
		}
		if err := tx.Investments().Update(inv); err != nil {
			return err
		}

		account, err := tx.Accounts().GetByUserID(inv.UserID)
		if err != nil {
			return err
		}
		s.log.WithFields(logrus.Fields{
			"investment_id": investmentID,
			"day_number":    day,
			"amount":        inv.DailyAmount.StringFixed(2),
			"new_balance":   account.Balance.StringFixed(2),
		}).Info("daily payout applied")

		s.notify(tx, inv.UserID, "Daily Payout Received",
			fmt.Sprintf("You received %s from your investment (day %d).", inv.DailyAmount.StringFixed(2), day),
			domain.NotificationKindPayout)
		if completed {
			s.notify(tx, inv.UserID, "Investment Completed",
				fmt.Sprintf("Your investment of %s has completed. Total return: %s.",
					inv.Amount.StringFixed(2), inv.TotalAccrued.StringFixed(2)),
				domain.NotificationKindInvestment)
		}
		applied = true
		return nil
	})
	return applied, completed, err
}

// Cancel moves an active contract to the terminal cancelled state. The
// principal is not refunded.
func (s *LedgerService) Cancel(ctx context.Context, investmentID uint) (*models.Investment, error) {
	var inv *models.Investment
	err := s.store.InTx(func(tx repository.Store) error {
		cur, err := tx.Investments().GetByIDForUpdate(investmentID)
		if err != nil {
			return err
		}
		if cur.Status != domain.InvestmentStatusActive {
			return domain.ErrInvestmentNotActive
		}
		cur.Status = domain.InvestmentStatusCancelled
		if err := tx.Investments().Update(cur); err != nil {
			return err
		}
		inv = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"investment_id": investmentID, "user_id": inv.UserID}).Info("investment cancelled")
	s.mirrorInvestment(ctx, inv)
	return inv, nil
}

// notify writes a notification row, best-effort.
func (s *LedgerService) notify(tx repository.Store, userID uint, title, message, kind string) {
	n := &models.Notification{UserID: userID, Title: title, Message: message, Kind: kind}
	if err := tx.Notifications().Create(n); err != nil {
		s.log.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Warn("notification write failed")
	}
}

func (s *LedgerService) mirrorInvestment(ctx context.Context, inv *models.Investment) {
	if s.mirror == nil || inv == nil {
		return
	}
	s.mirror.Mirror(ctx, fmt.Sprintf("investment:%d", inv.ID), inv)
}

func (s *LedgerService) mirrorAccount(ctx context.Context, userID uint) {
	if s.mirror == nil {
		return
	}
	account, err := s.store.Accounts().GetByUserID(userID)
	if err != nil {
		return
	}
	s.mirror.Mirror(ctx, fmt.Sprintf("account:%d", userID), account)
}
