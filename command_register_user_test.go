package registration_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	registration "github.com/goliatone/go-registration"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func confirmURL(token string) string {
	return "http://localhost:8572/confirm/" + token
}

func TestRegisterUserCreatesUnconfirmedAccountAndSendsEmail(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	users := &MockUsers{}
	tokens := &MockTokenService{}
	mailer := &MockMailer{}
	renderer := &MockEmailRenderer{}

	repo.On("Users").Return(users).Once()
	users.On("RegisterTx", mock.Anything, mock.Anything, mock.MatchedBy(func(u *registration.User) bool {
		return u.Email == "pepe@example.com" &&
			u.Username == "pepe" &&
			!u.EmailConfirmed &&
			!u.AccountConfirmed &&
			u.PasswordHash != "" &&
			u.PasswordHash != "password1234"
	})).Return(&registration.User{}, nil).Once()

	repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(func(context.Context, bun.Tx) error)
			var tx bun.Tx
			require.NoError(t, fn(args.Get(0).(context.Context), tx))
		}).Once()

	tokens.On("Generate", "pepe@example.com", registration.PurposeEmailConfirm).
		Return("tok-123", nil).Once()
	renderer.On("Render", registration.TemplateActivate, confirmURL("tok-123")).
		Return("<html>activate</html>", nil).Once()
	mailer.On("Send", mock.Anything, "pepe@example.com", registration.SubjectConfirmEmail, "<html>activate</html>").
		Return(nil).Once()

	handler := registration.NewRegisterUserHandler(repo, tokens, mailer, renderer).
		WithLogger(testLogger{})

	err := handler.Execute(ctx, registration.RegisterUserMessage{
		FullName:   "Pepe Rone",
		Email:      "pepe@example.com",
		Username:   "pepe",
		Password:   "password1234",
		ConfirmURL: confirmURL,
	})
	require.NoError(t, err)

	repo.AssertExpectations(t)
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
	renderer.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestRegisterUserDerivesUsernameFromEmail(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	users := &MockUsers{}
	tokens := &MockTokenService{}
	mailer := &MockMailer{}
	renderer := &MockEmailRenderer{}

	repo.On("Users").Return(users).Once()
	users.On("RegisterTx", mock.Anything, mock.Anything, mock.MatchedBy(func(u *registration.User) bool {
		return u.Username == "pepe.rone"
	})).Return(&registration.User{}, nil).Once()

	repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(func(context.Context, bun.Tx) error)
			var tx bun.Tx
			require.NoError(t, fn(args.Get(0).(context.Context), tx))
		}).Once()

	tokens.On("Generate", mock.Anything, mock.Anything).Return("tok-123", nil).Once()
	renderer.On("Render", mock.Anything, mock.Anything).Return("<html></html>", nil).Once()
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	handler := registration.NewRegisterUserHandler(repo, tokens, mailer, renderer).
		WithLogger(testLogger{})

	err := handler.Execute(ctx, registration.RegisterUserMessage{
		FullName:   "Pepe Rone",
		Email:      "pepe.rone@example.com",
		Password:   "password1234",
		ConfirmURL: confirmURL,
	})
	require.NoError(t, err)

	users.AssertExpectations(t)
}

// A duplicate account rolls the insert back but the flow still reports
// success and sends the confirmation email.
func TestRegisterUserDuplicateStillSendsEmail(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	users := &MockUsers{}
	tokens := &MockTokenService{}
	mailer := &MockMailer{}
	renderer := &MockEmailRenderer{}

	dupErr := errors.New("UNIQUE constraint failed: users.email")

	repo.On("Users").Return(users).Once()
	users.On("RegisterTx", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, dupErr).Once()

	repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(func(context.Context, bun.Tx) error)
			var tx bun.Tx
			require.Error(t, fn(args.Get(0).(context.Context), tx))
		}).
		Return(dupErr).Once()

	tokens.On("Generate", "pepe@example.com", registration.PurposeEmailConfirm).
		Return("tok-456", nil).Once()
	renderer.On("Render", registration.TemplateActivate, confirmURL("tok-456")).
		Return("<html>activate</html>", nil).Once()
	mailer.On("Send", mock.Anything, "pepe@example.com", registration.SubjectConfirmEmail, "<html>activate</html>").
		Return(nil).Once()

	handler := registration.NewRegisterUserHandler(repo, tokens, mailer, renderer).
		WithLogger(testLogger{})

	err := handler.Execute(ctx, registration.RegisterUserMessage{
		FullName:   "Pepe Rone",
		Email:      "pepe@example.com",
		Username:   "pepe",
		Password:   "password1234",
		ConfirmURL: confirmURL,
	})
	require.NoError(t, err)

	mailer.AssertExpectations(t)
}

func TestRegisterUserOtherTxErrorFails(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	users := &MockUsers{}
	tokens := &MockTokenService{}
	mailer := &MockMailer{}
	renderer := &MockEmailRenderer{}

	bootErr := errors.New("database is locked")

	repo.On("Users").Return(users).Once()
	users.On("RegisterTx", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, bootErr).Once()

	repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(func(context.Context, bun.Tx) error)
			var tx bun.Tx
			require.Error(t, fn(args.Get(0).(context.Context), tx))
		}).
		Return(bootErr).Once()

	handler := registration.NewRegisterUserHandler(repo, tokens, mailer, renderer).
		WithLogger(testLogger{})

	err := handler.Execute(ctx, registration.RegisterUserMessage{
		Email:      "pepe@example.com",
		Password:   "password1234",
		ConfirmURL: confirmURL,
	})
	require.Error(t, err)

	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
