package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"growfi/internal/domain"
	"growfi/internal/models"
)

func TestDueDays(t *testing.T) {
	start := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	cases := []struct {
		name     string
		asOf     time.Time
		duration int
		want     int
	}{
		{"same day counts as day one", start, 20, 1},
		{"same calendar day later hour", time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC), 20, 1},
		{"three days later", start.AddDate(0, 0, 3), 20, 4},
		{"day before start", start.AddDate(0, 0, -1), 20, 0},
		{"capped at duration", start.AddDate(0, 0, 365), 20, 20},
		{"final day exactly", start.AddDate(0, 0, 19), 20, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DueDays(start, tc.asOf, tc.duration); got != tc.want {
				t.Fatalf("DueDays(%v) = %d, want %d", tc.asOf, got, tc.want)
			}
		})
	}
}

func TestOpenDebitsPrincipalAndSnapshotsPlan(t *testing.T) {
	s := newMemStore()
	ledger := NewLedgerService(s, testLogger(), nil)
	userID := seedAccount(s, "5000")
	planID := seedPlan(s, "300", "300", "150", 20)

	inv, err := ledger.Open(context.Background(), userID, planID, dec("300"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if inv.Status != domain.InvestmentStatusActive {
		t.Fatalf("status = %s, want active", inv.Status)
	}
	if !inv.DailyAmount.Equal(dec("150")) || inv.DurationDays != 20 {
		t.Fatalf("snapshot = %s/%d, want 150/20", inv.DailyAmount, inv.DurationDays)
	}

	account, _ := s.Accounts().GetByUserID(userID)
	if !account.Balance.Equal(dec("4700")) {
		t.Fatalf("balance = %s, want 4700", account.Balance)
	}
	if !account.TotalInvested.Equal(dec("300")) {
		t.Fatalf("total_invested = %s, want 300", account.TotalInvested)
	}
	if len(s.transactions) != 1 || s.transactions[0].Kind != domain.TxKindInvestmentDebit {
		t.Fatalf("expected one investment_debit transaction, got %d", len(s.transactions))
	}
}

func TestOpenRejectsAmountOutsidePlanRange(t *testing.T) {
	s := newMemStore()
	ledger := NewLedgerService(s, testLogger(), nil)
	userID := seedAccount(s, "5000")
	planID := seedPlan(s, "300", "700", "150", 20)

	for _, amount := range []string{"299.99", "700.01"} {
		if _, err := ledger.Open(context.Background(), userID, planID, dec(amount)); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("Open(%s) err = %v, want ErrInvalidAmount", amount, err)
		}
	}
	account, _ := s.Accounts().GetByUserID(userID)
	if !account.Balance.Equal(dec("5000")) {
		t.Fatalf("balance changed on rejected open: %s", account.Balance)
	}
	if len(s.investments) != 0 || len(s.transactions) != 0 {
		t.Fatal("rejected open must leave no rows behind")
	}
}

func TestOpenInsufficientBalanceLeavesStateUntouched(t *testing.T) {
	s := newMemStore()
	ledger := NewLedgerService(s, testLogger(), nil)
	userID := seedAccount(s, "100")
	planID := seedPlan(s, "300", "300", "150", 20)

	_, err := ledger.Open(context.Background(), userID, planID, dec("300"))
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	account, _ := s.Accounts().GetByUserID(userID)
	if !account.Balance.Equal(dec("100")) {
		t.Fatalf("balance = %s, want 100", account.Balance)
	}
	if len(s.investments) != 0 {
		t.Fatal("no investment row may exist after a rejected open")
	}
}

func TestCatchupAppliesAllMissedDays(t *testing.T) {
	s := newMemStore()
	ledger := NewLedgerService(s, testLogger(), nil)
	userID := seedAccount(s, "5000")
	planID := seedPlan(s, "300", "300", "150", 20)

	inv, err := ledger.Open(context.Background(), userID, planID, dec("300"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	// Backdate the start by three days and process once.
	stored := s.investments[inv.ID]
	stored.StartAt = stored.StartAt.AddDate(0, 0, -3)

	res, err := ledger.ApplyCatchup(context.Background(), inv.ID, time.Now())
	if err != nil {
		t.Fatalf("ApplyCatchup: %v", err)
	}
	if res.DaysApplied != 4 {
		t.Fatalf("days applied = %d, want 4", res.DaysApplied)
	}

	payouts, _ := s.Payouts().ListByInvestmentID(inv.ID)
	if len(payouts) != 4 {
		t.Fatalf("payout rows = %d, want 4", len(payouts))
	}
	for i, p := range payouts {
		if p.DayNumber != i+1 {
			t.Fatalf("payout %d numbered %d", i, p.DayNumber)
		}
		if !p.Amount.Equal(dec("150")) {
			t.Fatalf("payout amount = %s, want 150", p.Amount)
		}
	}
	got, _ := s.Investments().GetByID(inv.ID)
	if got.ElapsedDays != 4 {
		t.Fatalf("elapsed_days = %d, want 4", got.ElapsedDays)
	}
	if !got.TotalAccrued.Equal(dec("600")) {
		t.Fatalf("total_accrued = %s, want 600", got.TotalAccrued)
	}
}

func TestCatchupIdempotentForSameDate(t *testing.T) {
	s := newMemStore()
	ledger := NewLedgerService(s, testLogger(), nil)
	userID := seedAccount(s, "5000")
	planID := seedPlan(s, "300", "300", "150", 20)

	inv, _ := ledger.Open(context.Background(), userID, planID, dec("300"))
	asOf := time.Now()

	if _, err := ledger.ApplyCatchup(context.Background(), inv.ID, asOf); err != nil {
		t.Fatalf("first catch-up: %v", err)
	}
	balanceAfterFirst, _ := s.Accounts().GetByUserID(userID)
	res, err := ledger.ApplyCatchup(context.Background(), inv.ID, asOf)
	if err != nil {
		t.Fatalf("second catch-up: %v", err)
	}
	if res.DaysApplied != 0 {
		t.Fatalf("second run applied %d days, want 0", res.DaysApplied)
	}
	balanceAfterSecond, _ := s.Accounts().GetByUserID(userID)
	if !balanceAfterFirst.Balance.Equal(balanceAfterSecond.Balance) {
		t.Fatalf("balance drifted: %s -> %s", balanceAfterFirst.Balance, balanceAfterSecond.Balance)
	}
	payouts, _ := s.Payouts().ListByInvestmentID(inv.ID)
	if len(payouts) != 1 {
		t.Fatalf("payout rows = %d, want 1", len(payouts))
	}
}

func TestCatchupNeverExceedsDuration(t *testing.T) {
	s := newMemStore()
	ledger := NewLedgerService(s, testLogger(), nil)
	userID := seedAccount(s, "5000")
	planID := seedPlan(s, "300", "300", "150", 20)

	inv, _ := ledger.Open(context.Background(), userID, planID, dec("300"))
	farFuture := time.Now().AddDate(1, 0, 0)

	if _, err := ledger.ApplyCatchup(context.Background(), inv.ID, farFuture); err != nil {
		t.Fatalf("ApplyCatchup: %v", err)
	}
	got, _ := s.Investments().GetByID(inv.ID)
	if got.ElapsedDays != 20 {
		t.Fatalf("elapsed_days = %d, want 20", got.ElapsedDays)
	}
	if got.Status != domain.InvestmentStatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}

	// A later run must not move anything.
	res, err := ledger.ApplyCatchup(context.Background(), inv.ID, farFuture.AddDate(0, 0, 30))
	if !errors.Is(err, domain.ErrInvestmentNotActive) {
		t.Fatalf("err = %v, want ErrInvestmentNotActive", err)
	}
	if res.DaysApplied != 0 {
		t.Fatalf("completed contract accrued %d more days", res.DaysApplied)
	}
}

func TestGrowfiScenario(t *testing.T) {
	// Plan pays 150/day for 20 days. Open with principal 300 at T0, run the
	// same day, then run again 19 days later: the second run applies the 19
	// remaining days in one call and completes the contract at 3000 accrued.
	s := newMemStore()
	ledger := NewLedgerService(s, testLogger(), nil)
	userID := seedAccount(s, "300")
	planID := seedPlan(s, "300", "300", "150", 20)

	t0 := time.Now()
	inv, err := ledger.Open(context.Background(), userID, planID, dec("300"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	res, err := ledger.ApplyCatchup(context.Background(), inv.ID, t0)
	if err != nil {
		t.Fatalf("run at T0: %v", err)
	}
	if res.DaysApplied != 1 {
		t.Fatalf("T0 run applied %d days, want 1", res.DaysApplied)
	}
	account, _ := s.Accounts().GetByUserID(userID)
	if !account.Balance.Equal(dec("150")) { // 300 - 300 principal + 150 payout
		t.Fatalf("balance after T0 run = %s, want 150", account.Balance)
	}

	res, err = ledger.ApplyCatchup(context.Background(), inv.ID, t0.AddDate(0, 0, 19))
	if err != nil {
		t.Fatalf("run at T0+19d: %v", err)
	}
	if res.DaysApplied != 19 {
		t.Fatalf("catch-up run applied %d days, want 19", res.DaysApplied)
	}
	if !res.Completed {
		t.Fatal("contract should complete on the run that reaches day 20")
	}

	got, _ := s.Investments().GetByID(inv.ID)
	if got.ElapsedDays != 20 || got.Status != domain.InvestmentStatusCompleted {
		t.Fatalf("elapsed=%d status=%s, want 20/completed", got.ElapsedDays, got.Status)
	}
	if !got.TotalAccrued.Equal(dec("3000")) {
		t.Fatalf("total_accrued = %s, want 3000", got.TotalAccrued)
	}
	payouts, _ := s.Payouts().ListByInvestmentID(inv.ID)
	if len(payouts) != 20 {
		t.Fatalf("payout rows = %d, want 20", len(payouts))
	}
}

func TestConservationOnCompletion(t *testing.T) {
	s := newMemStore()
	ledger := NewLedgerService(s, testLogger(), nil)
	userID := seedAccount(s, "700")
	planID := seedPlan(s, "700", "700", "200", 20)

	inv, _ := ledger.Open(context.Background(), userID, planID, dec("700"))
	if _, err := ledger.ApplyCatchup(context.Background(), inv.ID, time.Now().AddDate(0, 0, 25)); err != nil {
		t.Fatalf("ApplyCatchup: %v", err)
	}

	got, _ := s.Investments().GetByID(inv.ID)
	want := got.DailyAmount.Mul(dec("20"))
	if !got.TotalAccrued.Equal(want) {
		t.Fatalf("total_accrued = %s, want daily*duration = %s", got.TotalAccrued, want)
	}

	earnings, _ := s.Transactions().SumByKinds(userID, []string{
		domain.TxKindDailyPayout, domain.TxKindRegistrationBonus, domain.TxKindReferralCommission,
	})
	account, _ := s.Accounts().GetByUserID(userID)
	if !account.TotalEarnings.Equal(earnings) {
		t.Fatalf("total_earnings %s diverges from transaction fold %s", account.TotalEarnings, earnings)
	}
}

func TestCatchupResyncsWhenPayoutRowAlreadyExists(t *testing.T) {
	s := newMemStore()
	ledger := NewLedgerService(s, testLogger(), nil)
	userID := seedAccount(s, "300")
	planID := seedPlan(s, "300", "300", "150", 20)

	inv, _ := ledger.Open(context.Background(), userID, planID, dec("300"))
	// Simulate a payout row recorded out-of-band with stale contract counters.
	_ = s.Payouts().Create(&models.Payout{InvestmentID: inv.ID, DayNumber: 1, Amount: dec("150"), AppliedAt: time.Now()})

	res, err := ledger.ApplyCatchup(context.Background(), inv.ID, time.Now())
	if err != nil {
		t.Fatalf("ApplyCatchup: %v", err)
	}
	if res.DaysApplied != 0 {
		t.Fatalf("resync counted as applied: %d", res.DaysApplied)
	}
	got, _ := s.Investments().GetByID(inv.ID)
	if got.ElapsedDays != 1 {
		t.Fatalf("elapsed_days = %d, want 1 after resync", got.ElapsedDays)
	}
	account, _ := s.Accounts().GetByUserID(userID)
	if !account.Balance.Equal(dec("0")) {
		t.Fatalf("resync re-credited the account: balance = %s", account.Balance)
	}
}

func TestCancelIsTerminal(t *testing.T) {
	s := newMemStore()
	ledger := NewLedgerService(s, testLogger(), nil)
	userID := seedAccount(s, "300")
	planID := seedPlan(s, "300", "300", "150", 20)

	inv, _ := ledger.Open(context.Background(), userID, planID, dec("300"))
	cancelled, err := ledger.Cancel(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != domain.InvestmentStatusCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}

	if _, err := ledger.Cancel(context.Background(), inv.ID); !errors.Is(err, domain.ErrInvestmentNotActive) {
		t.Fatalf("second cancel err = %v, want ErrInvestmentNotActive", err)
	}
	if _, err := ledger.ApplyCatchup(context.Background(), inv.ID, time.Now().AddDate(0, 0, 5)); !errors.Is(err, domain.ErrInvestmentNotActive) {
		t.Fatalf("catch-up on cancelled err = %v, want ErrInvestmentNotActive", err)
	}
	payouts, _ := s.Payouts().ListByInvestmentID(inv.ID)
	if len(payouts) != 0 {
		t.Fatal("cancelled contract must not accrue payouts")
	}
}
