package utils

import (
	"errors"
	"fhirstarter-service/internal/pkg/constvars"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func GenerateJWT(subject, secret string, jwtExpiryTimeInHour int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(jwtExpiryTimeInHour) * time.Hour)),
	})
	return token.SignedString([]byte(secret))
}

// ParseJWT verifies an HS256 token and returns its claims.
func ParseJWT(tokenString, secret string) (*jwt.RegisteredClaims, error) {
	claims := new(jwt.RegisteredClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New(constvars.ErrDevAuthSigningMethod)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New(constvars.ErrDevAuthTokenInvalidOrExpired)
	}
	return claims, nil
}
