package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWT signs an HS256 token carrying the user id in "uid" and "sub".
func GenerateJWT(uid, email, secret string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   uid,
		"sub":   uid,
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseUserID validates an HS256 token and returns its user id, preferring
// the "uid" claim over "sub".
func ParseUserID(tokenString, secret string) (uid, email string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid claims")
	}
	email, _ = claims["email"].(string)
	if v, _ := claims["uid"].(string); v != "" {
		return v, email, nil
	}
	if v, _ := claims["sub"].(string); v != "" {
		return v, email, nil
	}
	return "", "", errors.New("user id claim missing")
}
