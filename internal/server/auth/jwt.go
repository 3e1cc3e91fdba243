// Package auth issues and checks the short-lived tokens that make up locally
// stored chart links.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mealbot/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// ChartClaims carries the stored chart file name next to the standard claims.
type ChartClaims struct {
	jwt.RegisteredClaims
	File string `json:"file"`
}

func GenerateChartToken(file string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ChartClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		File: file,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseChartToken returns the file name from a valid token. Expired tokens
// yield common.ErrTokenExpired, everything else common.ErrInvalidToken.
func ParseChartToken(tokenString string, secretKey []byte) (string, error) {
	claims := &ChartClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.File == "" {
		return "", common.ErrInvalidToken
	}

	return claims.File, nil
}
