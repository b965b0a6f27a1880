package security

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	opts := DefaultOptions([]byte("test-secret"))

	token, exp, err := Generate(opts, "user-1", "a@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(72*time.Hour), exp, time.Minute)

	claims, err := Verify(opts, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.WithinDuration(t, exp, claims.Expiry, time.Second)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := Generate(DefaultOptions([]byte("secret-a")), "user-1", "")
	require.NoError(t, err)

	_, err = Verify(DefaultOptions([]byte("secret-b")), token)
	assert.Error(t, err)
}

func TestVerifyExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)

	_, err = Verify(DefaultOptions(secret), token)
	assert.Error(t, err)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := Verify(DefaultOptions([]byte("test-secret")), "not-a-token")
	assert.Error(t, err)
}

func TestUnsupportedAlg(t *testing.T) {
	opts := DefaultOptions([]byte("test-secret"))
	opts.Alg = "RS256"

	_, _, err := Generate(opts, "user-1", "")
	assert.Error(t, err)
}

func TestAlgVariants(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			opts := DefaultOptions([]byte("test-secret"))
			opts.Alg = alg

			token, _, err := Generate(opts, "user-1", "")
			require.NoError(t, err)

			claims, err := Verify(opts, token)
			require.NoError(t, err)
			assert.Equal(t, "user-1", claims.UserID)
		})
	}
}
