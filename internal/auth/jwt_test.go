package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(7, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "flockr", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
}

func TestGenerateToken_NoTTL(t *testing.T) {
	token, err := GenerateToken(7, testSecret, 0)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestGenerateToken_Unique(t *testing.T) {
	a, err := GenerateToken(7, testSecret, time.Hour)
	require.NoError(t, err)
	b, err := GenerateToken(7, testSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestParseToken_Rejects(t *testing.T) {
	good, err := GenerateToken(7, testSecret, time.Hour)
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "wrong secret", token: good, secret: "other"},
		{name: "expired", token: expired, secret: testSecret},
		{name: "alg none", token: unsigned, secret: testSecret},
		{name: "garbage", token: "not.a.token", secret: testSecret},
		{name: "empty", token: "", secret: testSecret},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseToken(tc.token, tc.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
