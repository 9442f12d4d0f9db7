package token

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/notoli/internal/errors"
	"golang.org/x/oauth2"
)

// NowTimeFunc is swapped out by tests.
var NowTimeFunc = time.Now

// Claims are the access token claims the client cares about. The backend
// signs its tokens; the client cannot verify them and only reads them.
type Claims struct {
	TokenType string    // "access" or "refresh"
	UserID    string    // Backend user id
	Username  string    // Present only when the backend adds it
	Email     string    // Present only when the backend adds it
	JTI       string    // Token id
	IssuedAt  time.Time // Zero when absent
	ExpiresAt time.Time // Zero when absent
}

// Expired reports whether the token has an expiry in the past.
func (c Claims) Expired() bool {
	return !c.ExpiresAt.IsZero() && NowTimeFunc().After(c.ExpiresAt)
}

// Inspect decodes rawToken's claims without verifying its signature.
func Inspect(rawToken string) (Claims, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return Claims{}, errors.ErrInvalidToken
	}

	unverified, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}
	claims, ok := unverified.Claims.(jwtlib.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("%w: error extracting claims", errors.ErrInvalidToken)
	}

	tokenType, _ := claims["token_type"].(string)
	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)
	jti, _ := claims["jti"].(string)

	result := Claims{
		TokenType: tokenType,
		UserID:    claimString(claims["user_id"]),
		Username:  username,
		Email:     email,
		JTI:       jti,
	}
	if result.UserID == "" {
		result.UserID = claimString(claims["sub"])
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		result.IssuedAt = iat.Time
	}
	return result, nil
}

// ToOAuth2 wraps a stored token pair as an oauth2.Token, with the expiry read
// from the access token when it can be.
func ToOAuth2(accessToken, refreshToken string) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}
	if claims, err := Inspect(accessToken); err == nil {
		tok.Expiry = claims.ExpiresAt
	}
	return tok
}

func claimString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatInt(int64(value), 10)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return ""
	}
}
