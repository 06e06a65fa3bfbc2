package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
	"github.com/spf13/viper"
)

const authTokenTTL = 12 * time.Hour

type AuthTokenWrapper struct {
	jwt.StandardClaims
	Secret string `json:"secret"`
}

func signingKey() []byte {
	return []byte(viper.GetString(constants.ViperTokenSigningKey))
}

// GenerateAuthToken signs the admin token handed out to operators of the reload endpoint.
func GenerateAuthToken(token *AuthTokenWrapper) (string, error) {
	if token.ExpiresAt == 0 {
		token.ExpiresAt = time.Now().Add(authTokenTTL).Unix()
	}
	if token.IssuedAt == 0 {
		token.IssuedAt = time.Now().Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, token).SignedString(signingKey())
	if err != nil {
		return "", fmt.Errorf("jwt.SignedString: %w", err)
	}

	return signed, nil
}

func ParseAuthToken(raw string) (*AuthTokenWrapper, error) {
	token, err := jwt.ParseWithClaims(raw, &AuthTokenWrapper{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return signingKey(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*AuthTokenWrapper)
	if !ok || !token.Valid {
		return nil, constants.ErrInvalidToken
	}

	return claims, nil
}
