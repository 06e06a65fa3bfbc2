package auth

import (
	"context"
	"crypto/subtle"

	"github.com/google/uuid"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
	"github.com/ougirez/rdatlas/internal/pkg/logger"
	"github.com/ougirez/rdatlas/internal/pkg/utils"
	"github.com/spf13/viper"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

type LoginAdminRequest struct {
	Secret string `json:"secret" validate:"required"`
}

type LoginAdminResponse struct {
	AuthToken string `json:"auth_token"`
}

// LoginAdmin trades the configured admin secret for a signed token. An
// empty configured secret disables admin access.
func (svc *Service) LoginAdmin(ctx context.Context, request *LoginAdminRequest) (*LoginAdminResponse, error) {
	secret := viper.GetString(constants.ViperSecretKey)
	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(request.Secret)) != 1 {
		logger.Warnf(ctx, "admin login rejected")
		return nil, constants.ErrUnauthorized
	}

	token := &utils.AuthTokenWrapper{Secret: request.Secret}
	token.Id = uuid.NewString()

	authToken, err := utils.GenerateAuthToken(token)
	if err != nil {
		return nil, err
	}

	logger.Infof(ctx, "admin token %s issued", token.Id)
	return &LoginAdminResponse{AuthToken: authToken}, nil
}
