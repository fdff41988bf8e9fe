package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"growfi/internal/domain"
	"growfi/internal/repository"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
)

const runLockKey = "growfi:payouts:run"

// PayoutProcessor is the scheduler-driven batch entry point. One invocation
// applies every payout owed since the last run; running it twice for the same
// date, or late after missed days, converges on the same final state.
type PayoutProcessor struct {
	store   repository.Store
	ledger  *LedgerService
	log     *logrus.Logger
	locker  *redislock.Client // optional: serializes runs across instances
	lockTTL time.Duration
}

func NewPayoutProcessor(store repository.Store, ledger *LedgerService, log *logrus.Logger, locker *redislock.Client) *PayoutProcessor {
	return &PayoutProcessor{
		store:   store,
		ledger:  ledger,
		log:     log,
		locker:  locker,
		lockTTL: 10 * time.Minute,
	}
}

// RunSummary counts what a single run did.
type RunSummary struct {
	Processed   int `json:"processed"`
	DaysApplied int `json:"days_applied"`
	Completed   int `json:"completed"`
	Skipped     int `json:"skipped"`
}

// Run scans active contracts and applies catch-up payouts for each, isolating
// per-contract failures. Only a failure to list active contracts at all
// aborts the run.
func (p *PayoutProcessor) Run(ctx context.Context, asOf time.Time) (*RunSummary, error) {
	if p.locker != nil {
		lock, err := p.locker.Obtain(ctx, runLockKey, p.lockTTL, nil)
		switch {
		case errors.Is(err, redislock.ErrNotObtained):
			p.log.Warn("payout run already in progress elsewhere; skipping")
			return &RunSummary{}, nil
		case err != nil:
			// Lock service down: proceed anyway, per-day idempotency keeps a
			// concurrent run harmless.
			p.log.WithError(err).Warn("run lock unavailable; continuing without it")
		default:
			defer func() { _ = lock.Release(ctx) }()
		}
	}

	investments, err := p.store.Investments().ListActive()
	if err != nil {
		return nil, fmt.Errorf("list active investments: %w", err)
	}
	p.log.WithFields(logrus.Fields{
		"as_of":  asOf.Format("2006-01-02"),
		"active": len(investments),
	}).Info("payout run started")

	summary := &RunSummary{}
	for _, inv := range investments {
		res, err := p.ledger.ApplyCatchup(ctx, inv.ID, asOf)
		summary.DaysApplied += res.DaysApplied
		if err != nil {
			summary.Skipped++
			p.log.WithFields(logrus.Fields{
				"investment_id": inv.ID,
				"user_id":       inv.UserID,
				"elapsed_days":  inv.ElapsedDays,
			}).WithError(err).Error("catch-up failed; investment skipped")
			continue
		}
		summary.Processed++
		if res.Completed {
			summary.Completed++
		}
	}

	p.log.WithFields(logrus.Fields{
		"processed":    summary.Processed,
		"days_applied": summary.DaysApplied,
		"completed":    summary.Completed,
		"skipped":      summary.Skipped,
	}).Info("payout run finished")
	return summary, nil
}

// ReconcileAccounts recomputes every account's running totals from its
// transaction log and repairs any divergence. The account fields are a
// materialized cache of that fold and must never drift from it.
func (p *PayoutProcessor) ReconcileAccounts(ctx context.Context) (int, error) {
	accounts, err := p.store.Accounts().List()
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}

	earningKinds := []string{domain.TxKindDailyPayout, domain.TxKindRegistrationBonus, domain.TxKindReferralCommission}
	fixed := 0
	for _, account := range accounts {
		earnings, err := p.store.Transactions().SumByKinds(account.UserID, earningKinds)
		if err != nil {
			p.log.WithFields(logrus.Fields{"user_id": account.UserID}).WithError(err).Error("reconcile: sum earnings failed")
			continue
		}
		invested, err := p.store.Transactions().SumByKinds(account.UserID, []string{domain.TxKindInvestmentDebit})
		if err != nil {
			p.log.WithFields(logrus.Fields{"user_id": account.UserID}).WithError(err).Error("reconcile: sum invested failed")
			continue
		}
		if account.TotalEarnings.Equal(earnings) && account.TotalInvested.Equal(invested) {
			continue
		}

		p.log.WithFields(logrus.Fields{
			"user_id":       account.UserID,
			"earnings_was": account.TotalEarnings.StringFixed(2),
			"earnings_now": earnings.StringFixed(2),
			"invested_was": account.TotalInvested.StringFixed(2),
			"invested_now": invested.StringFixed(2),
		}).Warn("account totals diverged from transaction log; repairing")
		account.TotalEarnings = earnings
		account.TotalInvested = invested
		if err := p.store.Accounts().Update(&account); err != nil {
			p.log.WithFields(logrus.Fields{"user_id": account.UserID}).WithError(err).Error("reconcile: update failed")
			continue
		}
		fixed++
	}
	return fixed, nil
}
