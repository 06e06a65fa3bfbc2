package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/sectors"
)

func (c *Controller) GetCountries(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.datasets.References().Table(domain.EntityCountry))
}

func (c *Controller) GetCommunities(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.datasets.References().Table(domain.EntityCommunity))
}

func (c *Controller) GetProvinces(ctx echo.Context) error {
	refs := c.datasets.References()
	if parent := ctx.QueryParam("community"); parent != "" {
		return ctx.JSON(http.StatusOK, refs.Children(parent))
	}
	return ctx.JSON(http.StatusOK, refs.Table(domain.EntityProvince))
}

func (c *Controller) GetSectors(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, sectors.Descriptors())
}
