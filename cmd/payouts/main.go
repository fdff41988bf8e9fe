// The payouts binary is the scheduler entry point: run it at least once per
// calendar day (cron or equivalent). It applies every payout owed since the
// last run, so late or repeated invocations converge on the same state.
// Exit code 0 means the batch completed, even when individual investments
// were skipped with logged errors; non-zero means the store was unreachable.
package main

import (
	"context"
	"os"
	"time"

	"growfi/config"
	"growfi/internal/database"
	"growfi/internal/mirror"
	"growfi/internal/repository"
	"growfi/internal/service"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Error("database unreachable")
		os.Exit(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Error("migrate failed")
		os.Exit(1)
	}

	mir := mirror.New(&cfg.Redis, log)
	defer mir.Close()

	store := repository.NewStore(db)
	ledger := service.NewLedgerService(store, log, mir)
	processor := service.NewPayoutProcessor(store, ledger, log, mir.Locker())

	ctx := context.Background()
	summary, err := processor.Run(ctx, time.Now())
	if err != nil {
		log.WithError(err).Error("payout run aborted")
		os.Exit(1)
	}

	fixed, err := processor.ReconcileAccounts(ctx)
	if err != nil {
		log.WithError(err).Error("account reconciliation failed")
		os.Exit(1)
	}
	if fixed > 0 {
		log.WithField("accounts_repaired", fixed).Warn("reconciliation repaired diverged accounts")
	}

	log.WithFields(logrus.Fields{
		"processed":    summary.Processed,
		"days_applied": summary.DaysApplied,
		"completed":    summary.Completed,
		"skipped":      summary.Skipped,
	}).Info("payouts done")
}
