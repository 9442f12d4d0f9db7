package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/notoli/internal/errors"
	"github.com/jrsteele09/notoli/token"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestInspect(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	raw := signed(t, jwtlib.MapClaims{
		"token_type": "access",
		"user_id":    42,
		"username":   "jane",
		"jti":        "abc",
		"iat":        now.Unix(),
		"exp":        now.Add(5 * time.Minute).Unix(),
	})

	claims, err := token.Inspect(raw)
	require.NoError(t, err)
	require.Equal(t, "access", claims.TokenType)
	require.Equal(t, "42", claims.UserID)
	require.Equal(t, "jane", claims.Username)
	require.Equal(t, "abc", claims.JTI)
	require.True(t, claims.ExpiresAt.Equal(now.Add(5*time.Minute)))

	t.Run("expiry", func(t *testing.T) {
		defer func(orig func() time.Time) { token.NowTimeFunc = orig }(token.NowTimeFunc)

		token.NowTimeFunc = func() time.Time { return now }
		require.False(t, claims.Expired())
		token.NowTimeFunc = func() time.Time { return now.Add(time.Hour) }
		require.True(t, claims.Expired())
	})

	t.Run("not a jwt", func(t *testing.T) {
		_, err := token.Inspect("opaque-token")
		require.ErrorIs(t, err, errors.ErrInvalidToken)

		_, err = token.Inspect("")
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})
}

func TestToOAuth2(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signed(t, jwtlib.MapClaims{"exp": exp.Unix()})

	tok := token.ToOAuth2(raw, "refresh")
	require.Equal(t, raw, tok.AccessToken)
	require.Equal(t, "refresh", tok.RefreshToken)
	require.Equal(t, "Bearer", tok.Type())
	require.True(t, tok.Expiry.Equal(exp))

	opaque := token.ToOAuth2("opaque", "")
	require.True(t, opaque.Expiry.IsZero())
}
