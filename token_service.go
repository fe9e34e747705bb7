package registration

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenServiceImpl implements the TokenService interface. Tokens carry the
// email as subject, an issue timestamp, and the purpose as audience; expiry
// is evaluated against the max age supplied at verification time.
type TokenServiceImpl struct {
	signingKey []byte
	issuer     string
	logger     Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, issuer string, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		issuer:     issuer,
		logger:     logger,
	}
}

type emailClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Generate creates a signed capsule binding the email to the given purpose
func (ts *TokenServiceImpl) Generate(email string, purpose TokenPurpose) (string, error) {
	if email == "" {
		return "", errors.New("email must not be empty", errors.CategoryValidation)
	}

	now := time.Now()
	claims := &emailClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   ts.issuer,
			Subject:  email,
			Audience: jwt.ClaimStrings{string(purpose)},
			IssuedAt: jwt.NewNumericDate(now),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signedString, nil
}

// Verify parses the token, checks the signature and the purpose, and rejects
// tokens whose issue timestamp is older than maxAge. On success it returns
// the encoded email.
func (ts *TokenServiceImpl) Verify(tokenString string, purpose TokenPurpose, maxAge time.Duration) (string, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &emailClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService verify encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		return "", errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*emailClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService verify could not decode claims")
		return "", ErrTokenMalformed
	}

	if !hasAudience(claims.Audience, string(purpose)) {
		return "", ErrTokenPurposeMismatch
	}

	if claims.IssuedAt == nil {
		return "", ErrTokenMalformed
	}

	if time.Since(claims.IssuedAt.Time) > maxAge {
		return "", ErrTokenExpired
	}

	email := claims.Email
	if email == "" {
		email = claims.Subject
	}

	if email == "" {
		return "", ErrTokenMalformed
	}

	return email, nil
}

func hasAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
