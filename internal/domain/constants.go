package domain

// Investment lifecycle. Completed and cancelled are terminal.
const (
	InvestmentStatusActive    = "active"
	InvestmentStatusCompleted = "completed"
	InvestmentStatusCancelled = "cancelled"
)

// Transaction kinds appended by the ledger.
const (
	TxKindInvestmentDebit    = "investment_debit"
	TxKindDailyPayout        = "daily_payout"
	TxKindRegistrationBonus  = "registration_bonus"
	TxKindReferralCommission = "referral_commission"
)

// All ledger-internal writes settle immediately.
const TxStatusCompleted = "completed"

const (
	CommissionTypeRegistration = "registration"
	CommissionTypeInvestment   = "investment"
)

// Only the direct referrer is paid. No multi-level cascade.
const CommissionTier = 1

const (
	NotificationKindInvestment = "investment"
	NotificationKindPayout     = "payout"
	NotificationKindReferral   = "referral"
)
