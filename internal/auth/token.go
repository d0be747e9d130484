package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a backend token. The signature is not
// checked: the backend verifies its own tokens, the web tier only needs to
// know when to stop using one. Opaque tokens report ok == false.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// sessionExpiry is the earlier of now+ttl and the token's own expiry.
func sessionExpiry(token string, ttl time.Duration, now time.Time) time.Time {
	exp := now.Add(ttl)
	if tokenExp, ok := TokenExpiry(token); ok && tokenExp.Before(exp) {
		return tokenExp
	}
	return exp
}
