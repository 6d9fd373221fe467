package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params ListParams) ([]*Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Transaction, error)
}

// UserDirectory resolves owner references against the user store.
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Policy decides whether a proposed transaction may proceed. Implementations
// must be side-effect free.
type Policy interface {
	Authorize(params CreateParams) bool
}

// Service orchestrates the transaction lifecycle: it enforces that the owner
// exists and that the policy approves before anything is persisted, and it
// validates status values before transitions. All state lives in the store.
type Service struct {
	repo   Repository
	users  UserDirectory
	policy Policy
}

func NewService(repo Repository, users UserDirectory, policy Policy) *Service {
	return &Service{repo: repo, users: users, policy: policy}
}

type CreateParams struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Currency    Currency
	Type        Type
	Description string
}

// ListParams is a page window over a user's transactions, newest first.
// Page is 1-based; the store computes the offset as (page-1)*limit.
type ListParams struct {
	Page  int
	Limit int
}

// Create persists a new transaction for an existing user, provided the
// authorization policy approves it. The stored record always starts as
// pending regardless of input. On failure nothing is persisted.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	exists, err := s.users.Exists(ctx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !exists {
		return nil, ErrUserNotFound
	}

	if !s.policy.Authorize(params) {
		return nil, ErrNotAuthorized
	}

	tx := &Transaction{
		UserID:      params.UserID,
		Amount:      params.Amount,
		Currency:    params.Currency,
		Type:        params.Type,
		Status:      StatusPending,
		Description: params.Description,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Get returns the transaction with the given id. Ownership checks are the
// caller's concern.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// ListForUser returns the given user's transactions, newest first. The user
// must exist; the transaction store is not queried otherwise.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, params ListParams) ([]*Transaction, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !exists {
		return nil, ErrUserNotFound
	}

	return s.repo.ListByUser(ctx, userID, params)
}

// UpdateStatus moves the transaction to the given status and returns the
// updated record. Any status may move to any other status, including a no-op
// to the same value; only membership in the enumerated set is enforced.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Transaction, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if _, err := s.repo.GetTransaction(ctx, id); err != nil {
		return nil, err
	}

	return s.repo.UpdateStatus(ctx, id, status)
}
