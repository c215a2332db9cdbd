// Package token signs and verifies the bearer tokens that identify an
// authenticated account. Tokens are HS256 JWTs carrying the account ID as
// subject, valid for 24 hours.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TTL is how long an issued token remains valid.
const TTL = 24 * time.Hour

// ErrInvalidToken is returned when a token fails verification: bad
// signature, expired, or missing subject.
var ErrInvalidToken = errors.New("invalid token")

// Codec issues and verifies bearer tokens with a shared HMAC secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a token codec signing with the given secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), ttl: TTL}
}

type claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Issue produces a signed, time-bounded token encoding the account ID.
func (c *Codec) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	cl := claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token and returns the
// account ID it encodes. Returns ErrInvalidToken on any failure.
func (c *Codec) Verify(tokenString string) (uuid.UUID, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	cl, ok := tok.Claims.(*claims)
	if !ok || cl.UserID == "" {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(cl.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
