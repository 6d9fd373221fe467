package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"payledger/internal/user"
)

func newTestService(t *testing.T) (*user.Service, *user.MockRepository, *user.MockTokenIssuer) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := user.NewMockRepository(ctrl)
	tokens := user.NewMockTokenIssuer(ctrl)

	return user.NewService(repo, tokens), repo, tokens
}

func TestService_Register(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		repo.EXPECT().
			GetUserByEmail(gomock.Any(), "ana@example.com").
			Return(nil, user.ErrNotFound)
		repo.EXPECT().
			CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				u.ID = uuid.New()
				return nil
			})

		got, err := svc.Register(context.Background(), user.RegisterParams{
			Name:     "Ana",
			Email:    "Ana@Example.com",
			Password: "supersecret",
		})
		require.NoError(t, err)

		// Email is normalized and the password is stored only as a bcrypt hash.
		assert.Equal(t, "ana@example.com", got.Email)
		assert.NotEqual(t, "supersecret", got.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("supersecret")))
	})

	t.Run("EmailTaken", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		repo.EXPECT().
			GetUserByEmail(gomock.Any(), "ana@example.com").
			Return(&user.User{ID: uuid.New(), Email: "ana@example.com"}, nil)

		got, err := svc.Register(context.Background(), user.RegisterParams{
			Name:     "Ana",
			Email:    "ana@example.com",
			Password: "supersecret",
		})
		assert.ErrorIs(t, err, user.ErrEmailTaken)
		assert.Nil(t, got)
	})

	t.Run("LookupError", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		repo.EXPECT().
			GetUserByEmail(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("db error"))

		got, err := svc.Register(context.Background(), user.RegisterParams{
			Name:     "Ana",
			Email:    "ana@example.com",
			Password: "supersecret",
		})
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &user.User{
		ID:           uuid.New(),
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: string(hash),
	}

	t.Run("Success", func(t *testing.T) {
		svc, repo, tokens := newTestService(t)

		repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(stored, nil)
		tokens.EXPECT().Issue(stored.ID, stored.Email).Return("signed-token", nil)

		session, err := svc.Login(context.Background(), "ana@example.com", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, "signed-token", session.Token)
		assert.Equal(t, stored.ID, session.User.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(stored, nil)

		session, err := svc.Login(context.Background(), "ana@example.com", "wrong")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
		assert.Nil(t, session)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		repo.EXPECT().
			GetUserByEmail(gomock.Any(), "nobody@example.com").
			Return(nil, user.ErrNotFound)

		session, err := svc.Login(context.Background(), "nobody@example.com", "supersecret")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
		assert.Nil(t, session)
	})

	t.Run("IssuerError", func(t *testing.T) {
		svc, repo, tokens := newTestService(t)

		repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(stored, nil)
		tokens.EXPECT().Issue(stored.ID, stored.Email).Return("", errors.New("signing error"))

		session, err := svc.Login(context.Background(), "ana@example.com", "supersecret")
		assert.Error(t, err)
		assert.Nil(t, session)
	})
}

func TestService_Get(t *testing.T) {
	svc, repo, _ := newTestService(t)

	id := uuid.New()
	repo.EXPECT().GetUser(gomock.Any(), id).Return(&user.User{ID: id}, nil)

	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}
