package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skylane/airline-reservation/internal/model"
)

// AccessToken is a signed HS256 JWT plus its expiry.  The token carries
// the user id as subject and the role as a custom claim; handlers and
// middleware derive permissions from the role, never from the token
// directly.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken signs an access token for the user.  ttlMin is the
// lifetime in minutes.
func NewAccessToken(secret string, userID uint64, role model.Role, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
