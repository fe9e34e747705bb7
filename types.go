package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenPurpose scopes a signed token to a single flow. Tokens are not
// interchangeable across purposes.
type TokenPurpose string

const (
	// PurposeEmailConfirm gates the primary email confirmation endpoint
	PurposeEmailConfirm TokenPurpose = "email-confirm"
	// PurposeResendConfirm gates the resent-confirmation endpoint
	PurposeResendConfirm TokenPurpose = "resend-confirm"
	// PurposeRecovery gates the password reset form
	PurposeRecovery TokenPurpose = "password-recovery"
)

// ConfirmationMaxAge is how long confirmation class tokens stay valid
const ConfirmationMaxAge = 24 * time.Hour

// TokenService issues and verifies time limited signed tokens binding to an
// email address
type TokenService interface {
	Generate(email string, purpose TokenPurpose) (string, error)
	Verify(token string, purpose TokenPurpose, maxAge time.Duration) (string, error)
}

// Mailer sends a rendered HTML message to an address
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// EmailRenderer renders a named template into an HTML body. Every message
// template takes a single fully qualified URL variable.
type EmailRenderer interface {
	Render(name string, link string) (string, error)
}

// Session holds attributes that are part of an auth session
type Session interface {
	GetUserID() string
	GetUserUUID() (uuid.UUID, error)
	GetIssuer() string
	GetIssuedAt() *time.Time
}

// LoginPayload is what the session authenticator needs from a login form
type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
	GetExtendedSession() bool
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSessionKey() string
	GetTokenExpiration() int
	GetExtendedTokenDuration() int
	GetIssuer() string
	GetBaseURL() string
	GetRejectedRouteKey() string
	GetRejectedRouteDefault() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
