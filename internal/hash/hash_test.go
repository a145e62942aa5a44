package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", h)

	require.True(t, CheckPassword(h, "secret1"))
	require.False(t, CheckPassword(h, "wrong"))
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPassword("secret1")
	require.NoError(t, err)
	h2, err := HashPassword("secret1")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
	require.True(t, CheckPassword(h1, "secret1"))
	require.True(t, CheckPassword(h2, "secret1"))
}
