package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/rdatlas/internal/api/controller"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
	"github.com/ougirez/rdatlas/internal/pkg/logger"
	"github.com/ougirez/rdatlas/internal/service/auth"
	"github.com/ougirez/rdatlas/internal/service/dashboard"
	"github.com/ougirez/rdatlas/internal/service/datasets"
)

type APIService struct {
	router           *echo.Echo
	datasetsService  *datasets.Service
	dashboardService *dashboard.Service
	authService      *auth.Service
}

type Opts struct {
	AllowOrigins []string
	Debug        bool
}

func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

// Handler exposes the router, mostly for tests.
func (svc *APIService) Handler() *echo.Echo {
	return svc.router
}

func NewAPIService(ds *datasets.Service, dash *dashboard.Service, opts Opts) (*APIService, error) {
	svc := &APIService{
		router:           echo.New(),
		datasetsService:  ds,
		dashboardService: dash,
		authService:      auth.NewService(),
	}

	svc.router.HideBanner = true
	svc.router.Debug = opts.Debug
	svc.router.Logger.SetLevel(log.WARN)
	if opts.Debug {
		svc.router.Logger.SetLevel(log.DEBUG)
	}

	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = NewJSONSerializer()
	svc.router.HTTPErrorHandler = httpErrorHandler

	svc.router.Use(middleware.Recover())
	svc.router.Use(RequestIDMiddleware)
	svc.router.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${header:` + constants.HeaderRequestID + `}","method":"${method}","uri":"${uri}","status":${status},"latency":"${latency_human}"}` + "\n",
	}))
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     opts.AllowOrigins,
		AllowMethods:     []string{echo.GET, echo.POST},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(svc.datasetsService, svc.dashboardService, svc.authService)

	references := api.Group("/references")
	references.GET("/countries", cntrl.GetCountries)
	references.GET("/communities", cntrl.GetCommunities)
	references.GET("/provinces", cntrl.GetProvinces)
	references.GET("/sectors", cntrl.GetSectors)

	api.GET("/datasets", cntrl.ListDatasets)

	charts := api.Group("/charts")
	charts.GET("/intensity", cntrl.GetIntensityChart)
	charts.GET("/sectors", cntrl.GetSectorsChart)
	charts.GET("/europe", cntrl.GetEuropeChart)
	charts.GET("/map", cntrl.GetMapChart)
	charts.GET("/patents", cntrl.GetPatentsChart)
	charts.GET("/timeline", cntrl.GetTimelineChart)

	admin := api.Group("/admin")
	admin.POST("/login", cntrl.LoginAdmin)
	admin.POST("/datasets/reload", cntrl.ReloadDatasets, svc.AdminMiddleware)

	return svc, nil
}
