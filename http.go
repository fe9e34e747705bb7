package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// SessionAuthenticator is the session principal for the HTTP layer: it
// resolves credentials against the user store, signs and verifies the session
// cookie JWT, and tracks the originally requested route across a login
// redirect.
type SessionAuthenticator struct {
	repo                   RepositoryManager
	cfg                    Config
	signingKey             []byte
	cookieDuration         time.Duration
	extendedCookieDuration time.Duration
	Logger                 Logger
}

func NewSessionAuthenticator(repo RepositoryManager, cfg Config) (*SessionAuthenticator, error) {
	if repo == nil {
		return nil, errors.New("missing repository manager", errors.CategoryInternal)
	}

	cookieDuration := 24 * time.Hour
	if cfg.GetTokenExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
	}

	extendedCookieDuration := cookieDuration
	if cfg.GetExtendedTokenDuration() > 0 {
		extendedCookieDuration = time.Duration(cfg.GetExtendedTokenDuration()) * time.Hour
	}

	return &SessionAuthenticator{
		repo:                   repo,
		cfg:                    cfg,
		signingKey:             []byte(cfg.GetSigningKey()),
		Logger:                 defLogger{},
		cookieDuration:         cookieDuration,
		extendedCookieDuration: extendedCookieDuration,
	}, nil
}

func (a *SessionAuthenticator) WithLogger(logger Logger) *SessionAuthenticator {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

func (a SessionAuthenticator) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

func (a SessionAuthenticator) GetExtendedCookieDuration() time.Duration {
	return a.extendedCookieDuration
}

// Authenticate resolves the identifier as a username first, falling back to
// email, and verifies the password. A missing user and a failed password
// comparison return the same generic error so the response does not reveal
// which field was wrong. A valid credential pair for an unconfirmed email
// returns ErrEmailNotVerified and no session is created.
func (a *SessionAuthenticator) Authenticate(ctx context.Context, identifier, password string) (*User, error) {
	user, err := a.repo.Users().GetByUsername(ctx, identifier)
	if err != nil {
		if !errors.IsNotFound(err) {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
		}
		user, err = a.repo.Users().GetByEmail(ctx, identifier)
		if err != nil {
			if errors.IsNotFound(err) {
				return nil, ErrMismatchedHashAndPassword
			}
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
		}
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if !user.EmailConfirmed {
		return nil, ErrEmailNotVerified
	}

	return user, nil
}

// Login authenticates the payload and establishes the session cookie
func (a *SessionAuthenticator) Login(c router.Context, payload LoginPayload) error {
	user, err := a.Authenticate(c.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error: %s", err)
		return err
	}

	duration := a.cookieDuration
	if payload.GetExtendedSession() {
		duration = a.extendedCookieDuration
	}

	token, err := a.generateSessionToken(user, duration)
	if err != nil {
		a.Logger.Error("Login session token error: %s", err)
		return err
	}

	a.setCookieToken(c, token, duration)
	return nil
}

// Logout destroys the session cookie
func (a *SessionAuthenticator) Logout(c router.Context) {
	a.cookieDel(c, a.cfg.GetSessionKey())
}

// SessionFromCookie decodes and validates the session JWT carried by the
// request, if any.
func (a *SessionAuthenticator) SessionFromCookie(c router.Context) (*SessionObject, error) {
	raw := c.Cookies(a.cfg.GetSessionKey())
	if raw == "" {
		return nil, ErrUnableToFindSession
	}

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.signingKey, nil
	})

	if err != nil {
		return nil, errors.Wrap(err, ErrUnableToDecodeSession.Category, ErrUnableToDecodeSession.Message)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, ErrUnableToDecodeSession
	}

	return sessionFromClaims(claims)
}

// CurrentUser resolves the authenticated identity for this request, or an
// error when the request carries no valid session.
func (a *SessionAuthenticator) CurrentUser(c router.Context) (*User, error) {
	session, err := a.SessionFromCookie(c)
	if err != nil {
		return nil, err
	}

	user, err := a.repo.Users().GetByID(c.Context(), session.GetUserID())
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	return user, nil
}

func (a *SessionAuthenticator) GetRedirect(c router.Context, def ...string) string {
	rejectedRoute := a.cfg.GetRejectedRouteKey()
	r := c.Cookies(rejectedRoute)
	if r == "" {
		if len(def) > 0 {
			return def[0]
		}
		return a.cfg.GetRejectedRouteDefault()
	}
	a.cookieDel(c, rejectedRoute)
	return r
}

func (a *SessionAuthenticator) SetRedirect(c router.Context) {
	rejectedRoute := a.cfg.GetRejectedRouteKey()

	a.Logger.Info("Setting redirect cookie", "key", rejectedRoute, "path", c.OriginalURL())

	c.Cookie(&router.Cookie{
		Name:     rejectedRoute,
		Value:    c.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *SessionAuthenticator) generateSessionToken(user *User, duration time.Duration) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    a.cfg.GetIssuer(),
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(a.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign session JWT")
	}

	return signedString, nil
}

func (a *SessionAuthenticator) setCookieToken(c router.Context, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     a.cfg.GetSessionKey(),
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *SessionAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
