package registration_test

import (
	"context"
	"database/sql"
	"testing"

	registration "github.com/goliatone/go-registration"
	"github.com/google/uuid"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestConfirmEmailFlipsFlag(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	users := &MockUsers{}

	user := &registration.User{
		ID:    uuid.New(),
		Email: "pepe@example.com",
	}

	repo.On("Users").Return(users).Twice()
	users.On("GetByEmail", mock.Anything, "pepe@example.com").
		Return(user, nil).Once()
	users.On("ConfirmEmailTx", mock.Anything, mock.Anything, user).
		Return(user, nil).Once()

	repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(func(context.Context, bun.Tx) error)
			var tx bun.Tx
			require.NoError(t, fn(args.Get(0).(context.Context), tx))
		}).Once()

	var resp *registration.ConfirmEmailResponse

	handler := registration.NewConfirmEmailHandler(repo).WithLogger(testLogger{})
	err := handler.Execute(ctx, registration.ConfirmEmailMessage{
		Email: "pepe@example.com",
		OnResponse: func(r *registration.ConfirmEmailResponse) {
			resp = r
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.False(t, resp.AlreadyConfirmed)

	repo.AssertExpectations(t)
	users.AssertExpectations(t)
}

// Confirming twice is a no-op: the second call reports AlreadyConfirmed and
// never opens a transaction.
func TestConfirmEmailIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	users := &MockUsers{}

	user := &registration.User{
		ID:             uuid.New(),
		Email:          "pepe@example.com",
		EmailConfirmed: true,
	}

	repo.On("Users").Return(users).Once()
	users.On("GetByEmail", mock.Anything, "pepe@example.com").
		Return(user, nil).Once()

	var resp *registration.ConfirmEmailResponse

	handler := registration.NewConfirmEmailHandler(repo).WithLogger(testLogger{})
	err := handler.Execute(ctx, registration.ConfirmEmailMessage{
		Email: "pepe@example.com",
		OnResponse: func(r *registration.ConfirmEmailResponse) {
			resp = r
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.True(t, resp.AlreadyConfirmed)

	repo.AssertNotCalled(t, "RunInTx", mock.Anything, mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "ConfirmEmailTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmEmailUnknownAddress(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	users := &MockUsers{}

	repo.On("Users").Return(users).Once()
	users.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, repository.NewRecordNotFound()).Once()

	handler := registration.NewConfirmEmailHandler(repo).WithLogger(testLogger{})
	err := handler.Execute(ctx, registration.ConfirmEmailMessage{
		Email: "ghost@example.com",
	})
	require.ErrorIs(t, err, registration.ErrIdentityNotFound)
}
