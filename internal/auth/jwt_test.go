package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateToken(t *testing.T) {
	v := NewValidator("unit-test-key")

	t.Run("accepts its own tokens", func(t *testing.T) {
		token, err := v.GenerateToken("staff-1", "staff", time.Hour)
		require.NoError(t, err)

		claims, err := v.ValidateToken(token)
		require.NoError(t, err)
		require.Equal(t, "staff-1", claims.UserID)
		require.Equal(t, "staff", claims.Role)
	})

	t.Run("rejects tokens signed with another key", func(t *testing.T) {
		other := NewValidator("different-key")
		token, err := other.GenerateToken("staff-1", "staff", time.Hour)
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		require.Error(t, err)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		token, err := v.GenerateToken("staff-1", "staff", -time.Minute)
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		require.Error(t, err)
	})

	t.Run("rejects tokens without user_id", func(t *testing.T) {
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		token, err := raw.SignedString([]byte("unit-test-key"))
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		require.Error(t, err)
	})

	t.Run("rejects unsigned tokens", func(t *testing.T) {
		raw := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "staff-1"})
		token, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		require.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := v.ValidateToken("not.a.token")
		require.Error(t, err)
	})
}
