package database

import (
	"growfi/config"
	"growfi/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
		TranslateError: true,                                 // surface duplicate-key as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.Investment{},
		&models.Payout{},
		&models.Account{},
		&models.Transaction{},
		&models.Commission{},
		&models.Notification{},
	)
}

// SeedPlans installs the default plan catalog on an empty database.
// Each plan takes a fixed principal (min == max) and pays a fixed daily
// amount over 20 days.
func SeedPlans(db *gorm.DB, log *logrus.Logger) error {
	var count int64
	if err := db.Model(&models.Plan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	defaults := []models.Plan{
		{Name: "GROWFI 1", Minimum: dec("300"), Maximum: dec("300"), DailyAmount: dec("150"), DurationDays: 20, IsActive: true},
		{Name: "GROWFI 2", Minimum: dec("700"), Maximum: dec("700"), DailyAmount: dec("200"), DurationDays: 20, IsActive: true},
		{Name: "GROWFI 3", Minimum: dec("2200"), Maximum: dec("2200"), DailyAmount: dec("225"), DurationDays: 20, IsActive: true},
		{Name: "GROWFI 4", Minimum: dec("3500"), Maximum: dec("3500"), DailyAmount: dec("570"), DurationDays: 20, IsActive: true},
		{Name: "GROWFI 5", Minimum: dec("5000"), Maximum: dec("5000"), DailyAmount: dec("1125"), DurationDays: 20, IsActive: true},
		{Name: "GROWFI 6", Minimum: dec("7000"), Maximum: dec("7000"), DailyAmount: dec("2100"), DurationDays: 20, IsActive: true},
		{Name: "GROWFI 7", Minimum: dec("9000"), Maximum: dec("9000"), DailyAmount: dec("3150"), DurationDays: 20, IsActive: true},
		{Name: "GROWFI 8", Minimum: dec("11000"), Maximum: dec("11000"), DailyAmount: dec("3850"), DurationDays: 20, IsActive: true},
	}
	if err := db.Create(&defaults).Error; err != nil {
		return err
	}
	log.WithField("plans", len(defaults)).Info("seeded default plan catalog")
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
