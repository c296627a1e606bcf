package api

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Tubely/internal/api/auth"
	"github.com/hbomb79/Tubely/internal/api/gen"
	"github.com/hbomb79/Tubely/internal/api/videos"
	"github.com/hbomb79/Tubely/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var log = logger.Get("API")

type (
	RestConfig struct {
		HostAddr  string `yaml:"host_address" env:"API_HOST_ADDR" env-default:"0.0.0.0:8091"`
		JWTSecret string `yaml:"jwt_secret" env:"API_JWT_SECRET" env-required:"true"`

		// MaxBodyBytes caps the size of any request body, and should be at
		// least as large as the largest upload accepted.
		MaxBodyBytes string `yaml:"max_body_size" env:"API_MAX_BODY_SIZE" env-default:"2G"`
	}

	// The RestGateway is a thin-wrapper around the Echo HTTP router. It's sole responsbility
	// is to create the routes Tubely exposes and to enforce authentication where required.
	RestGateway struct {
		config          *RestConfig
		ec              *echo.Echo
		videoController *videos.Controller
	}
)

// NewRestGateway constructs the Echo router and populates it with all the
// routes defined by the video controller.
func NewRestGateway(config *RestConfig, videoService videos.Service) *RestGateway {
	ec := echo.New()
	ec.OnAddRouteHandler = func(host string, route echo.Route, handler echo.HandlerFunc, middleware []echo.MiddlewareFunc) {
		log.Emit(logger.DEBUG, "Registered new route %s %s\n", route.Method, route.Path)
	}
	ec.HidePort = true
	ec.HideBanner = true
	ec.HTTPErrorHandler = gen.GetHTTPErrorHandler()

	gateway := &RestGateway{
		config:          config,
		ec:              ec,
		videoController: videos.New(validator.New(), videoService),
	}

	ec.Use(middleware.Logger())
	ec.Use(middleware.Recover())
	if config.MaxBodyBytes != "" {
		ec.Use(middleware.BodyLimit(config.MaxBodyBytes))
	}

	ec.GET("/api/v1/health/", func(ec echo.Context) error {
		return ec.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	authenticated := auth.Middleware(config.JWTSecret)
	gateway.videoController.SetRoutes(ec.Group("/api/v1/videos", authenticated))
	gateway.videoController.SetThumbnailRoutes(ec.Group("/api/v1/thumbnails"))
	gateway.videoController.SetAssetRoutes(ec.Group("/assets"))

	return gateway
}

// Handler exposes the underlying router, primarily so that tests can
// drive the gateway without binding a port.
func (gateway *RestGateway) Handler() http.Handler {
	return gateway.ec
}

func (gateway *RestGateway) Run(parentCtx context.Context) error {
	ctx, ctxCancel := context.WithCancelCause(parentCtx)
	wg := &sync.WaitGroup{}

	// Start echo router
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Emit(logger.INFO, "Listening on %s\n", gateway.config.HostAddr)
		if err := gateway.ec.Start(gateway.config.HostAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ctxCancel(err)
		}
	}()

	// Start thread to listen for context cancellation
	go func(ec *echo.Echo) {
		<-ctx.Done()
		ec.Close()
	}(gateway.ec)

	wg.Wait()

	// Return cancellation cause if any, otherwise nil as parent context
	// cancellation is not an error case we should report.
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}
