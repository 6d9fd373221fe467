package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the direction of a transaction.
type Type string

const (
	TypeDebit  Type = "debit"
	TypeCredit Type = "credit"
)

func (t Type) Valid() bool {
	return t == TypeDebit || t == TypeCredit
}

// Status represents the lifecycle state of a transaction.
// New transactions always start as pending; any status may move to any
// other status, including back out of completed or failed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted || s == StatusFailed
}

// Currency is the ISO code of the money involved. Amounts are always
// handled in their stated currency, no conversion happens anywhere.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyMXN Currency = "MXN"
)

func (c Currency) Valid() bool {
	return c == CurrencyUSD || c == CurrencyEUR || c == CurrencyMXN
}

var (
	// ErrNotFound is returned when no transaction exists for the given id.
	ErrNotFound = errors.New("transaction not found")
	// ErrUserNotFound is returned when the referenced owner does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotAuthorized is returned when the authorization policy rejects the
	// transaction. This is a terminal rejection, not a retryable condition.
	ErrNotAuthorized = errors.New("transaction not authorized")
	// ErrInvalidStatus is returned when a status value is outside the
	// enumerated set.
	ErrInvalidStatus = errors.New("invalid transaction status")
)

// Transaction represents a monetary record owned by a user.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Currency    Currency
	Type        Type
	Status      Status
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
