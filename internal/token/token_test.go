package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var secret = []byte("super-secret")

func TestIssueAndVerify(t *testing.T) {
	tok, err := Issue("user-123", secret)
	require.NoError(t, err)

	sub, err := UserID(tok, secret)
	require.NoError(t, err)
	require.Equal(t, "user-123", sub)
}

func TestExpiredToken(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = UserID(tok, secret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecret(t *testing.T) {
	tok, err := Issue("user-123", secret)
	require.NoError(t, err)

	_, err = UserID(tok, []byte("other-secret"))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTamperedToken(t *testing.T) {
	tok, err := Issue("user-123", secret)
	require.NoError(t, err)

	_, err = UserID(tok[:len(tok)-2]+"xx", secret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsNonHMAC(t *testing.T) {
	// alg=none tokens must never verify.
	claims := jwt.RegisteredClaims{Subject: "user-123"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = UserID(tok, secret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestFromHeader(t *testing.T) {
	got, err := FromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", got)

	for _, header := range []string{"", "abc.def.ghi", "bearer abc", "Basic dXNlcg==", "Bearer"} {
		_, err := FromHeader(header)
		require.ErrorIs(t, err, ErrMissingToken, "header %q", header)
	}
}
