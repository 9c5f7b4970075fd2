package relationalapi

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenProvider supplies the bearer token for target-store requests.
type tokenProvider interface {
	Token() (string, error)
}

// staticToken sends a fixed API token.
type staticToken string

func (s staticToken) Token() (string, error) {
	return string(s), nil
}

// jwtMinter mints short-lived HS256 tokens from a shared secret, re-minting
// shortly before expiry. The target store accepts these like its own
// session tokens.
type jwtMinter struct {
	secret []byte
	ttl    time.Duration

	cached    string
	expiresAt time.Time
}

func newJWTMinter(secret string, ttl time.Duration) *jwtMinter {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &jwtMinter{secret: []byte(secret), ttl: ttl}
}

func (m *jwtMinter) Token() (string, error) {
	// Re-mint one minute early so an in-flight request never carries an
	// expired token.
	if m.cached != "" && time.Now().Before(m.expiresAt.Add(-time.Minute)) {
		return m.cached, nil
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    "workspace-migrator",
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign target-store token: %w", err)
	}

	m.cached = signed
	m.expiresAt = now.Add(m.ttl)
	return signed, nil
}
