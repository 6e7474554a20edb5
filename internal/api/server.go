// Package api exposes the ledger over HTTP.
//
// Routes live under /v1 and speak JSON. Every response carries an
// X-Request-ID header; a request that arrives with one keeps it, otherwise a
// UUIDv7 is generated. Failures use one body shape:
//
//	{"error":{"code":"NOT_FOUND","message":"user not found"}}
//
// Ledger error codes map to 400 (INVALID_INPUT), 403 (UNAUTHORIZED) and
// 404 (NOT_FOUND). Anything else is a 500 whose detail is logged, not
// returned.
package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roach88/rxtrace/internal/ledger"
)

// HeaderRequestID carries the request identifier.
const HeaderRequestID = "X-Request-ID"

// RequestIDGenerator produces identifiers for requests that arrive without one.
type RequestIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 request identifiers.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Options configures a Server. The zero value is usable.
type Options struct {
	// Logger receives one line per request. Defaults to discard.
	Logger *slog.Logger

	// Gatherer backs GET /metrics. Nil leaves the route unregistered.
	Gatherer prometheus.Gatherer

	// RequestIDs generates missing request ids. Defaults to UUIDv7Generator.
	RequestIDs RequestIDGenerator
}

// Server is the HTTP front end of a ledger.Service.
type Server struct {
	echo   *echo.Echo
	svc    *ledger.Service
	logger *slog.Logger
	ids    RequestIDGenerator
}

// New builds a Server with all routes registered.
func New(svc *ledger.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ids := opts.RequestIDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, svc: svc, logger: logger, ids: ids}
	e.HTTPErrorHandler = s.handleError
	e.Use(s.requestID, s.logRequests)

	e.GET("/healthz", s.health)
	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		})))
	}

	v1 := e.Group("/v1")
	v1.GET("/stats", s.stats)

	v1.POST("/users", s.createUser)
	v1.GET("/users", s.usersByRole)
	v1.GET("/users/:id", s.getUser)
	v1.PUT("/users/:id/role", s.updateUserRole)
	v1.DELETE("/users/:id", s.deleteUser)

	v1.POST("/pharmaceuticals", s.createPharmaceutical)
	v1.GET("/pharmaceuticals", s.listPharmaceuticals)
	v1.GET("/pharmaceuticals/:id", s.getPharmaceutical)
	v1.GET("/pharmaceuticals/:id/history", s.pharmaceuticalHistory)
	v1.DELETE("/pharmaceuticals/:id", s.deletePharmaceutical)

	v1.POST("/events", s.createEvent)
	v1.GET("/events", s.listEvents)
	v1.GET("/events/:id", s.getEvent)
	v1.DELETE("/events/:id", s.deleteEvent)

	v1.POST("/rewards", s.createReward)
	v1.GET("/rewards", s.listRewards)
	v1.GET("/rewards/:id", s.getReward)
	v1.DELETE("/rewards/:id", s.deleteReward)

	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr and serves until Shutdown. It returns
// http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
