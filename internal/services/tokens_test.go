package services

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func Test_TokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)

	token, err := codec.Issue("account-1")
	require.NoError(t, err)

	subject, err := codec.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "account-1", subject)
}

func Test_TokenCodec_RejectsExpiredToken(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)
	token, err := codec.Issue("account-1")
	require.NoError(t, err)

	codec.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = codec.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func Test_TokenCodec_RejectsForeignSecretAndAlgorithm(t *testing.T) {
	token, err := NewTokenCodec("other", time.Hour).Issue("account-1")
	require.NoError(t, err)

	_, err = NewTokenCodec("secret", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "account-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenCodec("secret", time.Hour).Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func Test_Passwords_HashAndVerify(t *testing.T) {
	hash, err := hashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, passwordMatches(hash, "correct horse"))
	assert.False(t, passwordMatches(hash, "battery staple"))
}
