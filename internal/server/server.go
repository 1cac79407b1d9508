package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"github.com/ironsheep/shelf-occupancy/internal/config"
	"github.com/ironsheep/shelf-occupancy/internal/planogram"
)

// Server owns the echo instance and its listener.
type Server struct {
	cfg      *config.Config
	echo     *echo.Echo
	logger   *slog.Logger
	listener net.Listener
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Module wires the service into an fx application. It expects a *config.Config
// to be provided elsewhere.
var Module = fx.Options(
	fx.Provide(
		NewLogger,
		LoadPlanogram,
		NewHandler,
		New,
	),
	fx.Invoke(Register),
)

// NewLogger returns a text slog logger on stderr at the configured level.
func NewLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}

// LoadPlanogram reads the configured planogram. It returns nil, and no error,
// when no planogram is configured.
func LoadPlanogram(cfg *config.Config) (*planogram.Planogram, error) {
	if cfg.PlanogramPath == "" {
		return nil, nil
	}
	return planogram.Load(cfg.PlanogramPath)
}

// New creates the echo instance, installs middleware and registers routes.
func New(cfg *config.Config, h *Handler, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	h.RegisterRoutes(e)

	return &Server{
		cfg:    cfg,
		echo:   e,
		logger: logger,
	}
}

// Register ties the server to the fx lifecycle.
func Register(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Shutdown,
	})
}

// Start binds the configured address and serves in the background.
// Bind errors are returned; errors after that are logged.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.listener = ln
	s.echo.Listener = ln

	log.Printf("Shelf occupancy service listening on %s (shelf %s, %d slots, threshold %g)",
		ln.Addr(), s.cfg.ShelfID, s.cfg.Occupancy.Slots, s.cfg.Occupancy.Threshold)

	go func() {
		if err := s.echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", "error", err)
		}
	}()
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

// ServeHTTP lets the server be exercised without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// errorHandler renders every error as {"error": "..."}.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprint(he.Message)
		}

		if code >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", code,
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, ErrorResponse{Error: message})
		}
		if err != nil {
			logger.Error("failed to write error response", "error", err)
		}
	}
}
