package store

import (
	"errors"
	"time"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email is already registered")
	ErrNoValidCode     = errors.New("no valid reset code")
	ErrCodeAlreadyUsed = errors.New("reset code has already been used")
)

// AccountStore persists Account records. The unique index on email is
// the final arbiter for concurrent registrations; Create surfaces a
// violation as ErrDuplicateEmail.
type AccountStore interface {
	FindByEmail(email string) (*Account, error)
	FindByID(id uint) (*Account, error)
	Create(account *Account) error
	MarkEmailValidated(email string) (*Account, error)
	UpdatePassword(accountID uint, newHash string) error
}

// ResetCodeStore persists hashed one-time reset codes.
type ResetCodeStore interface {
	Save(accountID uint, codeHash string, expiresAt time.Time) error
	// LatestValid returns the unexpired, unused code with the latest
	// expiry for the account, or ErrNoValidCode.
	LatestValid(accountID uint) (*ResetCode, error)
	// MarkUsed flips used exactly once; a second call for the same code
	// returns ErrCodeAlreadyUsed.
	MarkUsed(codeID uint) error
}
