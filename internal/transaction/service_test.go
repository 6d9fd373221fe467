package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"payledger/internal/transaction"
)

type serviceMocks struct {
	repo  *transaction.MockRepository
	users *transaction.MockUserDirectory
}

func newTestService(t *testing.T) (*transaction.Service, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mocks := serviceMocks{
		repo:  transaction.NewMockRepository(ctrl),
		users: transaction.NewMockUserDirectory(ctrl),
	}
	policy := transaction.NewThresholdPolicy(transaction.DefaultAuthorizationLimit)

	return transaction.NewService(mocks.repo, mocks.users, policy), mocks
}

func TestService_Create(t *testing.T) {
	userID := uuid.New()

	params := func(amount string) transaction.CreateParams {
		return transaction.CreateParams{
			UserID:      userID,
			Amount:      decimal.RequireFromString(amount),
			Currency:    transaction.CurrencyUSD,
			Type:        transaction.TypeDebit,
			Description: "x",
		}
	}

	type testCase struct {
		name      string
		params    transaction.CreateParams
		setupMock func(m serviceMocks)
		wantErr   bool
		wantErrIs error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: params("100"),
			setupMock: func(m serviceMocks) {
				m.users.EXPECT().Exists(gomock.Any(), userID).Return(true, nil)
				m.repo.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						tx.UpdatedAt = tx.CreatedAt
						return nil
					})
			},
		},
		{
			// The store is never touched when the owner does not exist.
			name:   "UserNotFound",
			params: params("50"),
			setupMock: func(m serviceMocks) {
				m.users.EXPECT().Exists(gomock.Any(), userID).Return(false, nil)
			},
			wantErr:   true,
			wantErrIs: transaction.ErrUserNotFound,
		},
		{
			// Amounts over the threshold are rejected before anything is persisted.
			name:   "OverThreshold",
			params: params("1500"),
			setupMock: func(m serviceMocks) {
				m.users.EXPECT().Exists(gomock.Any(), userID).Return(true, nil)
			},
			wantErr:   true,
			wantErrIs: transaction.ErrNotAuthorized,
		},
		{
			name:   "UserLookupError",
			params: params("100"),
			setupMock: func(m serviceMocks) {
				m.users.EXPECT().Exists(gomock.Any(), userID).Return(false, errors.New("db error"))
			},
			wantErr: true,
		},
		{
			name:   "RepoError",
			params: params("100"),
			setupMock: func(m serviceMocks) {
				m.users.EXPECT().Exists(gomock.Any(), userID).Return(true, nil)
				m.repo.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newTestService(t)
			tt.setupMock(mocks)

			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, transaction.StatusPending, got.Status)
			assert.True(t, got.Amount.Equal(tt.params.Amount))
			assert.Equal(t, userID, got.UserID)
		})
	}
}

func TestService_Create_AlwaysStartsPending(t *testing.T) {
	svc, mocks := newTestService(t)

	userID := uuid.New()
	mocks.users.EXPECT().Exists(gomock.Any(), userID).Return(true, nil)
	mocks.repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			assert.Equal(t, transaction.StatusPending, tx.Status)
			tx.ID = uuid.New()
			return nil
		})

	got, err := svc.Create(context.Background(), transaction.CreateParams{
		UserID:      userID,
		Amount:      decimal.NewFromInt(100),
		Currency:    transaction.CurrencyEUR,
		Type:        transaction.TypeCredit,
		Description: "salary",
	})
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusPending, got.Status)
}

func TestService_Get(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, mocks := newTestService(t)

		id := uuid.New()
		mocks.repo.EXPECT().
			GetTransaction(gomock.Any(), id).
			Return(&transaction.Transaction{ID: id}, nil)

		got, err := svc.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, mocks := newTestService(t)

		id := uuid.New()
		mocks.repo.EXPECT().
			GetTransaction(gomock.Any(), id).
			Return(nil, transaction.ErrNotFound)

		got, err := svc.Get(context.Background(), id)
		assert.ErrorIs(t, err, transaction.ErrNotFound)
		assert.Nil(t, got)
	})
}

func TestService_ListForUser(t *testing.T) {
	userID := uuid.New()
	params := transaction.ListParams{Page: 1, Limit: 10}

	t.Run("Success", func(t *testing.T) {
		svc, mocks := newTestService(t)

		mocks.users.EXPECT().Exists(gomock.Any(), userID).Return(true, nil)
		mocks.repo.EXPECT().
			ListByUser(gomock.Any(), userID, params).
			Return([]*transaction.Transaction{
				{ID: uuid.New()},
				{ID: uuid.New()},
			}, nil)

		got, err := svc.ListForUser(context.Background(), userID, params)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("UserNotFound", func(t *testing.T) {
		// The transaction store is never queried for an unknown user.
		svc, mocks := newTestService(t)

		mocks.users.EXPECT().Exists(gomock.Any(), userID).Return(false, nil)

		got, err := svc.ListForUser(context.Background(), userID, params)
		assert.ErrorIs(t, err, transaction.ErrUserNotFound)
		assert.Nil(t, got)
	})

	t.Run("RepoError", func(t *testing.T) {
		svc, mocks := newTestService(t)

		mocks.users.EXPECT().Exists(gomock.Any(), userID).Return(true, nil)
		mocks.repo.EXPECT().
			ListByUser(gomock.Any(), userID, params).
			Return(nil, errors.New("list error"))

		got, err := svc.ListForUser(context.Background(), userID, params)
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	id := uuid.New()

	existing := func(status transaction.Status) *transaction.Transaction {
		return &transaction.Transaction{ID: id, Status: status}
	}

	type testCase struct {
		name      string
		status    transaction.Status
		setupMock func(m serviceMocks)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "PendingToCompleted",
			status: transaction.StatusCompleted,
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().GetTransaction(gomock.Any(), id).Return(existing(transaction.StatusPending), nil)
				m.repo.EXPECT().
					UpdateStatus(gomock.Any(), id, transaction.StatusCompleted).
					Return(existing(transaction.StatusCompleted), nil)
			},
		},
		{
			// No transition graph: completed may go back to pending.
			name:   "CompletedBackToPending",
			status: transaction.StatusPending,
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().GetTransaction(gomock.Any(), id).Return(existing(transaction.StatusCompleted), nil)
				m.repo.EXPECT().
					UpdateStatus(gomock.Any(), id, transaction.StatusPending).
					Return(existing(transaction.StatusPending), nil)
			},
		},
		{
			// Re-applying the current status is a valid no-op.
			name:   "SameStatus",
			status: transaction.StatusFailed,
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().GetTransaction(gomock.Any(), id).Return(existing(transaction.StatusFailed), nil)
				m.repo.EXPECT().
					UpdateStatus(gomock.Any(), id, transaction.StatusFailed).
					Return(existing(transaction.StatusFailed), nil)
			},
		},
		{
			// An unknown status fails before the store is touched.
			name:      "InvalidStatus",
			status:    transaction.Status("bogus"),
			setupMock: func(m serviceMocks) {},
			wantErr:   transaction.ErrInvalidStatus,
		},
		{
			name:   "NotFound",
			status: transaction.StatusCompleted,
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, transaction.ErrNotFound)
			},
			wantErr: transaction.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newTestService(t)
			tt.setupMock(mocks)

			got, err := svc.UpdateStatus(context.Background(), id, tt.status)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestService_UpdateStatus_Idempotent(t *testing.T) {
	svc, mocks := newTestService(t)

	id := uuid.New()
	completed := &transaction.Transaction{ID: id, Status: transaction.StatusCompleted}

	mocks.repo.EXPECT().GetTransaction(gomock.Any(), id).Return(completed, nil).Times(2)
	mocks.repo.EXPECT().
		UpdateStatus(gomock.Any(), id, transaction.StatusCompleted).
		Return(completed, nil).
		Times(2)

	for i := 0; i < 2; i++ {
		got, err := svc.UpdateStatus(context.Background(), id, transaction.StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, transaction.StatusCompleted, got.Status)
	}
}
