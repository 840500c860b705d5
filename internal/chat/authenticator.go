package chat

import (
	"fmt"

	"realtime-chat-be/internal/apperror"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator validates an inbound connection's claimed identity before it
// is admitted. Connections it rejects never touch the registry.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// JWTAuthenticator resolves the chat identity from the "name" claim of an
// HMAC-signed access token.
type JWTAuthenticator struct {
	secret []byte
}

func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{secret: []byte(secret)}
}

func (a *JWTAuthenticator) Authenticate(tokenStr string) (string, error) {
	if tokenStr == "" {
		return "", fmt.Errorf("%w: missing token", apperror.ErrAuthenticationFailed)
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: invalid token", apperror.ErrAuthenticationFailed)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: invalid claims", apperror.ErrAuthenticationFailed)
	}

	name, ok := claims["name"].(string)
	if !ok || name == "" {
		return "", fmt.Errorf("%w: token missing identity", apperror.ErrAuthenticationFailed)
	}

	return name, nil
}
