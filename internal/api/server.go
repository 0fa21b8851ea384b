package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/ThangNguyenTan/streamflix/internal/config"
	"github.com/ThangNguyenTan/streamflix/internal/discovery"
	"github.com/ThangNguyenTan/streamflix/internal/discovery/tmdb"
	"github.com/ThangNguyenTan/streamflix/internal/scheduler"
)

// Server handles HTTP requests for the StreamFlix discovery API.
type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	logger zerolog.Logger

	discoveryService *discovery.Service
	scheduler        *scheduler.Scheduler
}

// NewServer creates a new API server instance.
func NewServer(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		cfg:    cfg,
		logger: logger,
	}

	tmdbClient := tmdb.NewClient(cfg.TMDB, logger)
	sizes := discovery.ImageSizes{
		Poster:   cfg.TMDB.PosterSize,
		Backdrop: cfg.TMDB.BackdropSize,
		Still:    cfg.TMDB.StillSize,
	}
	s.discoveryService = discovery.NewService(tmdbClient, sizes, logger)

	sched, err := scheduler.New(logger)
	if err != nil {
		return nil, err
	}
	s.scheduler = sched

	if s.discoveryService.IsConfigured() {
		if err := sched.RegisterTask(scheduler.TaskConfig{
			ID:         "catalog-refresh",
			Name:       "Catalog refresh",
			Cron:       "0 * * * *",
			Func:       s.discoveryService.RefreshCatalogs,
			RunOnStart: true,
		}); err != nil {
			return nil, err
		}
	} else {
		logger.Warn().Msg("TMDB API key not configured, catalog refresh disabled")
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.BodyLimit("2M"))
	s.echo.Use(middleware.CORS())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("Request")
			return nil
		},
	}))
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api/v1")

	api.GET("/health", s.healthHandler)

	discoveryGroup := api.Group("/discovery")
	discovery.NewHandlers(s.discoveryService).RegisterRoutes(discoveryGroup)
	discoveryGroup.POST("/refresh", s.refreshHandler)

	live := discovery.NewLiveHandler(s.discoveryService, discovery.CoordinatorConfig{}, s.logger)
	discoveryGroup.GET("/live", live.Handle)
}

// healthHandler reports server and upstream configuration status.
// GET /api/v1/health
func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"providers": []map[string]interface{}{
			{"name": "tmdb", "configured": s.discoveryService.IsConfigured()},
		},
	})
}

// refreshHandler triggers an immediate catalog refresh outside the schedule.
// POST /api/v1/discovery/refresh
func (s *Server) refreshHandler(c echo.Context) error {
	if err := s.scheduler.RunNow("catalog-refresh"); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.NoContent(http.StatusAccepted)
}

// Start starts the scheduler and the HTTP listener. Blocks until the
// listener stops.
func (s *Server) Start() error {
	if err := s.scheduler.Start(); err != nil {
		return err
	}

	addr := s.cfg.Server.Address()
	s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")
	return s.echo.Start(addr)
}

// Shutdown stops the scheduler and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.scheduler.Stop(); err != nil {
		s.logger.Warn().Err(err).Msg("Scheduler shutdown failed")
	}
	return s.echo.Shutdown(ctx)
}
