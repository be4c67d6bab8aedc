package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	AccessTokenValidity  = time.Hour * 24
	RefreshTokenValidity = time.Hour * 24 * 7
)

// GenerateTokenPair returns an access and refresh token for the user.
func GenerateTokenPair(email string, secret string, userID uint) (string, string, error) {
	accessToken, err := GenerateToken(email, secret, userID, AccessTokenValidity)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := GenerateToken(email, secret, userID, RefreshTokenValidity)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func GenerateToken(email string, secret string, userID uint, validity time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is not configured")
	}
	claims := jwt.MapClaims{
		"email": email,
		"id":    userID,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(validity).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAndGetClaims parses and verifies a token, returning its claims.
func ValidateAndGetClaims(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
