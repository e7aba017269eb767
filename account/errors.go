package account

import "errors"

// Domain errors. Single-operation failures are surfaced with these
// sentinels (usually wrapped with context) and never leave partial
// state behind.
var (
	// ErrInvalidAmount flags a negative, NaN or infinite amount.
	ErrInvalidAmount = errors.New("amount must be a non-negative finite number")

	// ErrAccountClosed flags any mutation attempted on a closed account.
	ErrAccountClosed = errors.New("account is closed")

	// ErrAccountNotFound flags an unknown account id.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUnknownCategory flags an unrecognized account or transaction category.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrInsufficientFunds flags a debit past zero on an account whose
	// category does not allow overdraft.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrExplicitLegs flags an attempt to auto-apply a category that must
	// be posted as two explicit legs (transfer, loan disbursement,
	// investment return).
	ErrExplicitLegs = errors.New("category must be posted as explicit legs")

	// ErrBalanceOutstanding flags an explicit closure request on an
	// account that still carries a balance.
	ErrBalanceOutstanding = errors.New("balance outstanding")
)
