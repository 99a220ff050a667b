package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issue signs a staff session token. The staff name rides in "sub" and is
// later stamped into every ledger row that staff member writes; request-side
// verification is echo-jwt's job.
func Issue(secret, staffName string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  staffName,
		"role": "staff",
		"exp":  time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
