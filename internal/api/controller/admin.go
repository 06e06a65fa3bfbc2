package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
	"github.com/ougirez/rdatlas/internal/service/auth"
)

const adminCookieTTL = 12 * time.Hour

func (c *Controller) LoginAdmin(ctx echo.Context) error {
	var request auth.LoginAdminRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	response, err := c.auth.LoginAdmin(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	ctx.SetCookie(&http.Cookie{
		Name:     constants.CookieKeySecretToken,
		Value:    response.AuthToken,
		Path:     "/",
		Expires:  time.Now().Add(adminCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return ctx.JSON(http.StatusOK, response)
}

type ReloadDatasetsResponse struct {
	Generation string `json:"generation"`
	Seq        uint64 `json:"seq"`
	Datasets   int    `json:"datasets"`
}

func (c *Controller) ReloadDatasets(ctx echo.Context) error {
	snap, err := c.datasets.Reload(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, ReloadDatasetsResponse{
		Generation: snap.Generation.String(),
		Seq:        snap.Seq,
		Datasets:   len(snap.IDs()),
	})
}
