// Package security provides JWT service-token utilities and secure random
// generation for the remote store clients.
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// GenerateServiceToken creates a short-lived HS256 token identifying this
// engine to the remote session store and correlation service.
func GenerateServiceToken(subject, jwtSecret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"iss": "crosstrace",
		"sub": subject,
		"iat": time.Now().UTC().Unix(),
		"exp": time.Now().UTC().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
