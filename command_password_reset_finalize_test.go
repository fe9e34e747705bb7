package registration_test

import (
	"context"
	"database/sql"
	"testing"

	registration "github.com/goliatone/go-registration"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestFinalizePasswordResetStoresNewHash(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	users := &MockUsers{}

	var storedHash string

	repo.On("Users").Return(users).Once()
	users.On("ResetPasswordTx", mock.Anything, mock.Anything, "pepe@example.com", mock.Anything).
		Run(func(args mock.Arguments) {
			storedHash = args.String(3)
		}).
		Return(nil).Once()

	repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(func(context.Context, bun.Tx) error)
			var tx bun.Tx
			require.NoError(t, fn(args.Get(0).(context.Context), tx))
		}).Once()

	handler := registration.NewFinalizePasswordResetHandler(repo).
		WithLogger(testLogger{})

	err := handler.Execute(ctx, registration.FinalizePasswordResetMessage{
		Email:    "pepe@example.com",
		Password: "brand-new-password",
	})
	require.NoError(t, err)

	// Cleartext never reaches the repository
	require.NotEmpty(t, storedHash)
	require.NotEqual(t, "brand-new-password", storedHash)
	require.NoError(t, registration.ComparePasswordAndHash("brand-new-password", storedHash))

	repo.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestFinalizePasswordResetUnknownEmail(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	users := &MockUsers{}

	notFound := repository.NewRecordNotFound()

	repo.On("Users").Return(users).Once()
	users.On("ResetPasswordTx", mock.Anything, mock.Anything, "ghost@example.com", mock.Anything).
		Return(notFound).Once()

	repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
		Return(registration.ErrIdentityNotFound).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(func(context.Context, bun.Tx) error)
			var tx bun.Tx
			require.ErrorIs(t, fn(args.Get(0).(context.Context), tx), registration.ErrIdentityNotFound)
		}).Once()

	handler := registration.NewFinalizePasswordResetHandler(repo).
		WithLogger(testLogger{})

	err := handler.Execute(ctx, registration.FinalizePasswordResetMessage{
		Email:    "ghost@example.com",
		Password: "brand-new-password",
	})
	require.ErrorIs(t, err, registration.ErrIdentityNotFound)
}

func TestFinalizePasswordResetRejectsEmptyPassword(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}

	handler := registration.NewFinalizePasswordResetHandler(repo).
		WithLogger(testLogger{})

	err := handler.Execute(ctx, registration.FinalizePasswordResetMessage{
		Email: "pepe@example.com",
	})
	require.Error(t, err)

	repo.AssertNotCalled(t, "RunInTx", mock.Anything, mock.Anything, mock.Anything)
}
