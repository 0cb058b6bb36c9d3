package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired indicates the token's expiry instant has passed.
	ErrExpired = errors.New("token expired")
	// ErrBadSignature indicates the signature does not match the server secret.
	ErrBadSignature = errors.New("token signature invalid")
	// ErrMalformed indicates the token could not be parsed at all.
	ErrMalformed = errors.New("token malformed")
)

// DefaultTTL applies when Issue is called without a positive ttl.
const DefaultTTL = 15 * time.Minute

// Codec signs and verifies compact HS256 assertions carrying a subject
// and an expiry. The secret is fixed for the process lifetime; rotating
// it would invalidate every outstanding token.
//
// The subject is the username, not the numeric id. Usernames are not
// renameable in this system, so a subject can never orphan; an id-based
// subject would be a wire-contract change and is deliberately avoided.
type Codec struct {
	secret []byte
}

// NewCodec builds a Codec around the shared signing secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue signs {sub: subject, exp: now+ttl} and returns the compact
// token string. A non-positive ttl uses DefaultTTL.
func (c *Codec) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": jwt.NewNumericDate(time.Now().UTC().Add(ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the subject.
// Failures map to ErrExpired, ErrBadSignature or ErrMalformed.
func (c *Codec) Verify(tokenString string) (string, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrBadSignature
		default:
			return "", ErrMalformed
		}
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return "", ErrMalformed
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrMalformed
	}
	return subject, nil
}
