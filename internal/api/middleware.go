package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
	"github.com/ougirez/rdatlas/internal/pkg/logger"
	"github.com/ougirez/rdatlas/internal/pkg/utils"
	"github.com/spf13/viper"
)

// RequestIDMiddleware reuses the caller's X-Request-ID or assigns one, and
// puts it in the request context for logging.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id := ctx.Request().Header.Get(constants.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
			ctx.Request().Header.Set(constants.HeaderRequestID, id)
		}
		ctx.Response().Header().Set(constants.HeaderRequestID, id)

		req := ctx.Request()
		ctx.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))

		return next(ctx)
	}
}

func (svc *APIService) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		cookie, err := ctx.Cookie(constants.CookieKeySecretToken)
		if err != nil {
			return constants.ErrMissingAuthCookie
		}

		token, err := utils.ParseAuthToken(cookie.Value)
		if err != nil {
			return err
		}

		secret := viper.GetString(constants.ViperSecretKey)
		if secret == "" || token.Secret != secret {
			return constants.ErrUnauthorized
		}

		return next(ctx)
	}
}
