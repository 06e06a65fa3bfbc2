package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
	"github.com/spf13/viper"
)

func TestAuthTokenRoundTrip(t *testing.T) {
	viper.Set(constants.ViperTokenSigningKey, "signing-key")
	defer viper.Set(constants.ViperTokenSigningKey, "")

	raw, err := GenerateAuthToken(&AuthTokenWrapper{Secret: "s3cret"})
	if err != nil {
		t.Fatalf("GenerateAuthToken: %v", err)
	}

	token, err := ParseAuthToken(raw)
	if err != nil {
		t.Fatalf("ParseAuthToken: %v", err)
	}
	if token.Secret != "s3cret" {
		t.Errorf("secret = %q", token.Secret)
	}
}

func TestParseAuthTokenRejects(t *testing.T) {
	viper.Set(constants.ViperTokenSigningKey, "signing-key")
	defer viper.Set(constants.ViperTokenSigningKey, "")

	expired, err := GenerateAuthToken(&AuthTokenWrapper{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Hour).Unix()},
		Secret:         "s3cret",
	})
	if err != nil {
		t.Fatalf("GenerateAuthToken: %v", err)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{name: "garbage", raw: "not-a-token"},
		{name: "expired", raw: expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAuthToken(tt.raw)
			if !errors.Is(err, constants.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
