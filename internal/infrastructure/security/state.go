package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const stateIssuer = "content-gen-backend"

var (
	ErrInvalidState = errors.New("invalid oauth state")
	ErrExpiredState = errors.New("oauth state has expired")
)

// stateClaims is the payload of an OAuth state token
type stateClaims struct {
	jwt.RegisteredClaims
	Platform string `json:"platform"`
}

// StateSigner issues and verifies the short-lived `state` parameter of the
// OAuth consent flow.
type StateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewStateSigner creates a signer. An empty secret is replaced by a random
// per-process key, which is enough for a single-instance dev server.
func NewStateSigner(secret string, ttl time.Duration) (*StateSigner, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("security: generate state key: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateSigner{secret: key, ttl: ttl, now: time.Now}, nil
}

// Sign returns a signed state token bound to platform
func (s *StateSigner) Sign(platform string) (string, error) {
	now := s.now()
	claims := &stateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    stateIssuer,
			Subject:   platform,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Platform: platform,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the signature and expiry and returns the bound platform
func (s *StateSigner) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &stateClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidState
		}
		return s.secret, nil
	},
		jwt.WithIssuer(stateIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredState
		}
		return "", ErrInvalidState
	}

	claims, ok := parsed.Claims.(*stateClaims)
	if !ok || !parsed.Valid || claims.Platform == "" || claims.Subject != claims.Platform {
		return "", ErrInvalidState
	}
	return claims.Platform, nil
}
