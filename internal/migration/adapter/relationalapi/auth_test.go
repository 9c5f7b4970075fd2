package relationalapi

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticToken(t *testing.T) {
	token, err := staticToken("abc").Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}

func TestJWTMinterSignsVerifiableTokens(t *testing.T) {
	minter := newJWTMinter("shared-secret", 15*time.Minute)

	signed, err := minter.Token()
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(signed, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("shared-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, "workspace-migrator", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTMinterCachesUntilNearExpiry(t *testing.T) {
	minter := newJWTMinter("shared-secret", time.Hour)

	first, err := minter.Token()
	require.NoError(t, err)
	second, err := minter.Token()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Force the cached token past its re-mint threshold.
	minter.expiresAt = time.Now().Add(30 * time.Second)
	_, err = minter.Token()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), minter.expiresAt, time.Minute, "re-mint renews the expiry")
}

func TestJWTMinterDefaultsNonPositiveTTL(t *testing.T) {
	minter := newJWTMinter("s", 0)
	assert.Equal(t, 15*time.Minute, minter.ttl)
}
