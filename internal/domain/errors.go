package domain

import "errors"

var (
	// ErrInvalidAmount rejects a principal outside the plan's range.
	ErrInvalidAmount = errors.New("amount outside plan range")
	// ErrInsufficientBalance rejects a debit that would overdraw the account.
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPlanNotFound        = errors.New("plan not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvestmentNotActive = errors.New("investment is not active")
)
