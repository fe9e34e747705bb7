package registration_test

import (
	"context"
	"database/sql"
	"time"

	registration "github.com/goliatone/go-registration"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// testConfig implements registration.Config
type testConfig struct {
	signingKey            string
	sessionKey            string
	tokenExpiration       int
	extendedTokenDuration int
	issuer                string
	baseURL               string
	rejectedRouteKey      string
	rejectedRouteDefault  string
}

func newTestConfig() testConfig {
	return testConfig{
		signingKey:            "test-signing-key",
		sessionKey:            "session",
		tokenExpiration:       24,
		extendedTokenDuration: 72,
		issuer:                "test-issuer",
		baseURL:               "http://localhost:8572",
		rejectedRouteKey:      "rejected_route",
		rejectedRouteDefault:  "/",
	}
}

func (c testConfig) GetSigningKey() string        { return c.signingKey }
func (c testConfig) GetSessionKey() string        { return c.sessionKey }
func (c testConfig) GetTokenExpiration() int      { return c.tokenExpiration }
func (c testConfig) GetExtendedTokenDuration() int {
	return c.extendedTokenDuration
}
func (c testConfig) GetIssuer() string               { return c.issuer }
func (c testConfig) GetBaseURL() string              { return c.baseURL }
func (c testConfig) GetRejectedRouteKey() string     { return c.rejectedRouteKey }
func (c testConfig) GetRejectedRouteDefault() string { return c.rejectedRouteDefault }

// MockRepositoryManager implements registration.RepositoryManager. Methods the
// tests never exercise fall through to the embedded interface.
type MockRepositoryManager struct {
	mock.Mock
	registration.RepositoryManager
}

func (m *MockRepositoryManager) Users() registration.Users {
	args := m.Called()
	return args.Get(0).(registration.Users)
}

func (m *MockRepositoryManager) PrivateDetails() repository.Repository[*registration.PrivateDetails] {
	args := m.Called()
	return args.Get(0).(repository.Repository[*registration.PrivateDetails])
}

func (m *MockRepositoryManager) Validate() error {
	return nil
}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(context.Context, bun.Tx) error) error {
	args := m.Called(ctx, opts, fn)
	return args.Error(0)
}

// MockUsers implements registration.Users for the methods the handlers call
type MockUsers struct {
	mock.Mock
	registration.Users
}

func (m *MockUsers) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*registration.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*registration.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByUsername(ctx context.Context, username string) (*registration.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*registration.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*registration.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*registration.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *registration.User) (*registration.User, error) {
	args := m.Called(ctx, tx, user)
	if u := args.Get(0); u != nil {
		return u.(*registration.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) ConfirmEmailTx(ctx context.Context, tx bun.IDB, user *registration.User) (*registration.User, error) {
	args := m.Called(ctx, tx, user)
	if u := args.Get(0); u != nil {
		return u.(*registration.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) CompleteAccountTx(ctx context.Context, tx bun.IDB, user *registration.User) (*registration.User, error) {
	args := m.Called(ctx, tx, user)
	if u := args.Get(0); u != nil {
		return u.(*registration.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) ResetPasswordTx(ctx context.Context, tx bun.IDB, email, passwordHash string) error {
	args := m.Called(ctx, tx, email, passwordHash)
	return args.Error(0)
}

// MockPrivateDetails implements the private details repository for CreateTx
type MockPrivateDetails struct {
	mock.Mock
	repository.Repository[*registration.PrivateDetails]
}

func (m *MockPrivateDetails) CreateTx(ctx context.Context, tx bun.IDB, record *registration.PrivateDetails, criteria ...repository.InsertCriteria) (*registration.PrivateDetails, error) {
	args := m.Called(ctx, tx, record)
	if d := args.Get(0); d != nil {
		return d.(*registration.PrivateDetails), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTokenService implements registration.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(email string, purpose registration.TokenPurpose) (string, error) {
	args := m.Called(email, purpose)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Verify(token string, purpose registration.TokenPurpose, maxAge time.Duration) (string, error) {
	args := m.Called(token, purpose, maxAge)
	return args.String(0), args.Error(1)
}

// MockMailer implements registration.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, html string) error {
	args := m.Called(ctx, to, subject, html)
	return args.Error(0)
}

// MockEmailRenderer implements registration.EmailRenderer
type MockEmailRenderer struct {
	mock.Mock
}

func (m *MockEmailRenderer) Render(name string, link string) (string, error) {
	args := m.Called(name, link)
	return args.String(0), args.Error(1)
}
