package service

import (
	"context"
	"errors"
	"fmt"

	"growfi/internal/domain"
	"growfi/internal/models"
	"growfi/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CommissionService credits referrer bonuses triggered by a referred user's
// registration or investment. Every credit is exactly-once under retries:
// registration commissions are guarded by an exists check inside the
// crediting transaction, investment commissions additionally by the unique
// (investment_id, type) index.
type CommissionService struct {
	store             repository.Store
	log               *logrus.Logger
	ratePercent       decimal.Decimal
	registrationBonus decimal.Decimal
}

func NewCommissionService(store repository.Store, log *logrus.Logger, ratePercent, registrationBonus decimal.Decimal) *CommissionService {
	return &CommissionService{
		store:             store,
		log:               log,
		ratePercent:       ratePercent,
		registrationBonus: registrationBonus,
	}
}

// OnRegistration pays the flat registration bonus to the new user's direct
// referrer. A repeat call for the same pair is a silent no-op.
func (s *CommissionService) OnRegistration(ctx context.Context, newUser *models.User) error {
	if newUser.ReferredBy == nil {
		return nil
	}
	referrerID := *newUser.ReferredBy

	credited := false
	err := s.store.InTx(func(tx repository.Store) error {
		exists, err := tx.Commissions().ExistsRegistration(referrerID, newUser.ID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if _, err := tx.Accounts().Credit(referrerID, s.registrationBonus, domain.TxKindRegistrationBonus); err != nil {
			return err
		}
		cm := &models.Commission{
			ReferrerID:     referrerID,
			ReferredUserID: newUser.ID,
			Rate:           s.ratePercent,
			Amount:         s.registrationBonus,
			Tier:           domain.CommissionTier,
			Type:           domain.CommissionTypeRegistration,
		}
		if err := tx.Commissions().Create(cm); err != nil {
			return err
		}
		s.notify(tx, referrerID, "Referral Bonus",
			fmt.Sprintf("You earned %s for referring %s.", s.registrationBonus.StringFixed(2), newUser.Phone))
		credited = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("registration commission for referrer %d: %w", referrerID, err)
	}

	if credited {
		s.log.WithFields(logrus.Fields{
			"referrer_id":      referrerID,
			"referred_user_id": newUser.ID,
			"amount":           s.registrationBonus.StringFixed(2),
		}).Info("registration commission credited")
	}
	return nil
}

// OnInvestment pays the investor's direct referrer a percentage of the
// principal. At most one commission per investment; a request redelivery
// that re-triggers this is a silent no-op.
func (s *CommissionService) OnInvestment(ctx context.Context, inv *models.Investment) error {
	investor, err := s.store.Users().GetByID(inv.UserID)
	if err != nil {
		return fmt.Errorf("load investor %d: %w", inv.UserID, err)
	}
	if investor.ReferredBy == nil {
		return nil
	}
	referrerID := *investor.ReferredBy
	amount := inv.Amount.Mul(s.ratePercent).Div(decimal.NewFromInt(100))

	credited := false
	err = s.store.InTx(func(tx repository.Store) error {
		exists, err := tx.Commissions().ExistsForInvestment(inv.ID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if _, err := tx.Accounts().Credit(referrerID, amount, domain.TxKindReferralCommission); err != nil {
			return err
		}
		investmentID := inv.ID
		cm := &models.Commission{
			ReferrerID:     referrerID,
			ReferredUserID: investor.ID,
			InvestmentID:   &investmentID,
			Rate:           s.ratePercent,
			Amount:         amount,
			Tier:           domain.CommissionTier,
			Type:           domain.CommissionTypeInvestment,
		}
		if err := tx.Commissions().Create(cm); err != nil {
			return err
		}
		s.notify(tx, referrerID, "Referral Commission",
			fmt.Sprintf("You earned %s from %s's investment.", amount.StringFixed(2), investor.Phone))
		credited = true
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent retry; the other write won.
			return nil
		}
		return fmt.Errorf("investment commission for referrer %d: %w", referrerID, err)
	}

	if credited {
		s.log.WithFields(logrus.Fields{
			"referrer_id":   referrerID,
			"investment_id": inv.ID,
			"rate":          s.ratePercent.StringFixed(2),
			"amount":        amount.StringFixed(2),
		}).Info("investment commission credited")
	}
	return nil
}

func (s *CommissionService) notify(tx repository.Store, userID uint, title, message string) {
	n := &models.Notification{UserID: userID, Title: title, Message: message, Kind: domain.NotificationKindReferral}
	if err := tx.Notifications().Create(n); err != nil {
		s.log.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Warn("notification write failed")
	}
}
