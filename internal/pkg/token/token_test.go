package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	signed, err := Generate("secret", 1, "user-1", "asha")
	require.NoError(t, err)

	claims, err := Validate("secret", signed)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "asha", claims.Username)
}

func TestValidate_WrongSecret(t *testing.T) {
	signed, err := Generate("secret", 1, "user-1", "asha")
	require.NoError(t, err)

	_, err = Validate("not-the-secret", signed)
	require.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	signed, err := Generate("secret", -1, "user-1", "asha")
	require.NoError(t, err)

	_, err = Validate("secret", signed)
	require.Error(t, err)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := Validate("secret", "not.a.jwt")
	require.Error(t, err)
}
