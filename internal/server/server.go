package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fitcoach/fitcoach-api/internal/config"
	"github.com/fitcoach/fitcoach-api/internal/dto"
	"github.com/fitcoach/fitcoach-api/internal/handler"
	appmiddleware "github.com/fitcoach/fitcoach-api/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Handlers is everything the HTTP surface dispatches to.
type Handlers struct {
	Catalog   *handler.CatalogHandler
	Checkout  *handler.CheckoutHandler
	Webhook   *handler.WebhookHandler
	Dashboard *handler.DashboardHandler
	Contact   *handler.ContactHandler
}

type Server struct {
	echo     *echo.Echo
	handlers *Handlers
	cfg      *config.Config
	log      *slog.Logger
}

func NewServer(cfg *config.Config, handlers *Handlers, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.BaseURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s := &Server{
		echo:     e,
		handlers: handlers,
		cfg:      cfg,
		log:      log,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- catalog --------
	api.GET("/programs", s.handlers.Catalog.ListPrograms)
	api.GET("/programs/:id", s.handlers.Catalog.GetProgram)
	api.GET("/coaching-packages", s.handlers.Catalog.ListCoachingPackages)

	// -------- contact / newsletter --------
	limited := rateLimiter(s.cfg.RateLimit)
	api.POST("/contact", s.handlers.Contact.Submit, limited)
	api.POST("/newsletter", s.handlers.Contact.Subscribe, limited)

	// -------- checkout --------
	auth := appmiddleware.JWTAuth(s.cfg.Auth.JWTSecret)
	api.POST("/checkout", s.handlers.Checkout.Checkout, auth)

	// -------- processor webhooks --------
	api.POST("/webhooks/stripe", s.handlers.Webhook.Stripe)

	// -------- dashboard --------
	dashboard := api.Group("/dashboard", auth)
	dashboard.GET("/orders", s.handlers.Dashboard.ListOrders)
	dashboard.GET("/programs", s.handlers.Dashboard.ListPrograms)
	dashboard.GET("/bookings", s.handlers.Dashboard.ListBookings)
}

// rateLimiter allows cfg.PerMinute requests per client IP.
func rateLimiter(cfg config.RateLimit) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(cfg.PerMinute) / time.Minute.Seconds()),
		Burst:     cfg.Burst,
		ExpiresIn: cfg.ExpiresIn,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "cannot identify client"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "too many requests, try again later"})
		},
	})
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	s.log.Info("starting HTTP server", slog.String("address", s.cfg.Address()))
	return s.echo.Start(s.cfg.Address())
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
