package backend

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiryFromToken reads the exp claim of a JWT without verifying it.
// The signature is the backend's business; the expiry is only used to know
// when to stop presenting the token.
func ExpiryFromToken(raw string) (time.Time, bool) {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time.UTC(), true
}
