package controller

import (
	"github.com/ougirez/rdatlas/internal/service/auth"
	"github.com/ougirez/rdatlas/internal/service/dashboard"
	"github.com/ougirez/rdatlas/internal/service/datasets"
)

type Controller struct {
	datasets  *datasets.Service
	dashboard *dashboard.Service
	auth      *auth.Service
}

func NewController(ds *datasets.Service, dash *dashboard.Service, authService *auth.Service) *Controller {
	return &Controller{datasets: ds, dashboard: dash, auth: authService}
}
