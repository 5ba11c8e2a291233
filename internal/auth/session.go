package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Session identifies an authenticated user. A nil *Session means an
// anonymous request.
type Session struct {
	UserID string
	Email  string
}

// ParseToken verifies an HMAC-signed access token and returns the session it
// carries. The subject claim is the user id.
func ParseToken(secret, token string) (*Session, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("token missing subject")
	}

	email, _ := claims["email"].(string)

	return &Session{UserID: sub, Email: email}, nil
}

// NewToken signs an access token for the given session. Used by the seed
// command and tests; production tokens come from the auth provider.
func NewToken(secret string, sess *Session, claims jwt.MapClaims) (string, error) {
	if claims == nil {
		claims = jwt.MapClaims{}
	}
	claims["sub"] = sess.UserID
	if sess.Email != "" {
		claims["email"] = sess.Email
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
