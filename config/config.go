package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeCommissionRate    = errors.New("commission rate must not be negative")
	ErrNegativeRegistrationBonus = errors.New("registration bonus must not be negative")
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Ledger   LedgerConfig
}

type ServerConfig struct {
	Port         string `validate:"required"`
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string `validate:"required"`
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig covers the best-effort mirror and the processor run lock.
// An empty Addr disables both.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	MirrorTTL time.Duration
}

type JWTConfig struct {
	AccessSecret  string `validate:"required"`
	RefreshSecret string `validate:"required"`
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// LedgerConfig holds the commission parameters of the referral engine.
// CommissionRatePercent is applied to the principal of a referred user's
// investment; RegistrationBonus is the flat amount credited to a referrer
// when someone signs up with their code.
type LedgerConfig struct {
	CommissionRatePercent decimal.Decimal
	RegistrationBonus     decimal.Decimal
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "8080"),
			Env:          getenv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "growfi:growfi@tcp(localhost:3306)/growfi?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		Redis: RedisConfig{
			Addr:      os.Getenv("REDIS_ADDR"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        getenvInt("REDIS_DB", 0),
			MirrorTTL: 24 * time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getenv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getenv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "growfi",
		},
		Ledger: LedgerConfig{
			CommissionRatePercent: getenvDecimal("COMMISSION_RATE_PERCENT", "5.00"),
			RegistrationBonus:     getenvDecimal("REGISTRATION_BONUS", "15.00"),
		},
	}
}

// Validate rejects configurations the ledger cannot run with.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Ledger.CommissionRatePercent.IsNegative() {
		return ErrNegativeCommissionRate
	}
	if c.Ledger.RegistrationBonus.IsNegative() {
		return ErrNegativeRegistrationBonus
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDecimal(key, fallback string) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(fallback)
}
