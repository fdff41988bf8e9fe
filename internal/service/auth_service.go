package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"growfi/config"
	"growfi/internal/auth"
	"growfi/internal/models"
	"growfi/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrPhoneExists  = errors.New("phone already registered")
	ErrInvalidCreds = errors.New("invalid phone or password")
)

// AuthService handles registration and login. Registration is the trigger
// for registration-type referral commissions; the commission engine itself
// is invoked by the handler after the user exists.
type AuthService struct {
	cfg   *config.Config
	store repository.Store
	log   *logrus.Logger
}

func NewAuthService(cfg *config.Config, store repository.Store, log *logrus.Logger) *AuthService {
	return &AuthService{cfg: cfg, store: store, log: log}
}

// Register creates the user plus an empty account in one transaction. An
// unknown referral code is ignored rather than rejected, matching how the
// registration flow treats codes as a best-effort attribution.
func (s *AuthService) Register(phone, password, referralCode string) (*models.User, string, string, error) {
	phone = strings.TrimSpace(phone)
	_, err := s.store.Users().GetByPhone(phone)
	if err == nil {
		return nil, "", "", ErrPhoneExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}

	var referredBy *uint
	if code := strings.TrimSpace(referralCode); code != "" {
		referrer, err := s.store.Users().GetByReferralCode(code)
		if err == nil {
			referredBy = &referrer.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", err
		} else {
			s.log.WithFields(logrus.Fields{"referral_code": code}).Warn("unknown referral code ignored")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	var u *models.User
	err = s.store.InTx(func(tx repository.Store) error {
		code, err := s.uniqueReferralCode(tx)
		if err != nil {
			return err
		}
		u = &models.User{
			Phone:        phone,
			PasswordHash: string(hash),
			ReferralCode: code,
			ReferredBy:   referredBy,
		}
		if err := tx.Users().Create(u); err != nil {
			return err
		}
		return tx.Accounts().Create(&models.Account{
			UserID:        u.ID,
			Balance:       decimal.Zero,
			TotalEarnings: decimal.Zero,
			TotalInvested: decimal.Zero,
		})
	})
	if err != nil {
		return nil, "", "", err
	}

	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Phone)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}

func (s *AuthService) Login(phone, password string) (*models.User, string, string, error) {
	u, err := s.store.Users().GetByPhone(strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Phone)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return u, access, refresh, nil
}

// uniqueReferralCode returns an 8-character uppercase hex code not yet in use.
func (s *AuthService) uniqueReferralCode(tx repository.Store) (string, error) {
	for i := 0; i < 10; i++ {
		b := make([]byte, 4)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		code := strings.ToUpper(hex.EncodeToString(b))
		_, err := tx.Users().GetByReferralCode(code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		// Collision: retry with a new code
	}
	return "", errors.New("failed to generate a unique referral code after retries")
}
