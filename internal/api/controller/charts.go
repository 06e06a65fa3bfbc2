package controller

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/rdatlas/internal/service/dashboard"
)

type chartFunc func(context.Context, dashboard.Request) (*dashboard.Chart, error)

func (c *Controller) chart(ctx echo.Context, fn chartFunc) error {
	var request dashboard.Request
	if err := ctx.Bind(&request); err != nil {
		return err
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	chart, err := fn(ctx.Request().Context(), request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, chart)
}

func (c *Controller) GetIntensityChart(ctx echo.Context) error {
	return c.chart(ctx, c.dashboard.Intensity)
}

func (c *Controller) GetSectorsChart(ctx echo.Context) error {
	return c.chart(ctx, c.dashboard.Sectors)
}

func (c *Controller) GetEuropeChart(ctx echo.Context) error {
	return c.chart(ctx, c.dashboard.Europe)
}

func (c *Controller) GetMapChart(ctx echo.Context) error {
	return c.chart(ctx, c.dashboard.Map)
}

func (c *Controller) GetPatentsChart(ctx echo.Context) error {
	return c.chart(ctx, c.dashboard.Patents)
}

func (c *Controller) GetTimelineChart(ctx echo.Context) error {
	return c.chart(ctx, c.dashboard.Timeline)
}
