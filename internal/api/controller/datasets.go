package controller

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/rdatlas/internal/service/datasets"
)

type ListDatasetsResponse struct {
	Generation uuid.UUID         `json:"generation"`
	LoadedAt   time.Time         `json:"loaded_at"`
	Datasets   []datasets.Status `json:"datasets"`
}

func (c *Controller) ListDatasets(ctx echo.Context) error {
	snap, err := c.datasets.Snapshot()
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, ListDatasetsResponse{
		Generation: snap.Generation,
		LoadedAt:   snap.LoadedAt,
		Datasets:   snap.Statuses(),
	})
}
