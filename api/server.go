// Package api serves read-only HTTP queries over the marketplace state.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/zkmarket/api/health"
	"github.com/paw-chain/zkmarket/app"
	computekeeper "github.com/paw-chain/zkmarket/x/compute/keeper"
	"github.com/paw-chain/zkmarket/x/shared/failure"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Server represents the main API server
type Server struct {
	router  *gin.Engine
	app     *app.App
	config  Config
	logger  log.Logger
	health  *health.HealthChecker
	compute computekeeper.QueryServer
}

// Config holds server configuration
type Config struct {
	Address         string
	CORSOrigins     []string
	RateLimitRPS    float64
	RateLimitBurst  int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Address:         "127.0.0.1:1317",
		CORSOrigins:     []string{"*"},
		RateLimitRPS:    50,
		RateLimitBurst:  100,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// NewConfig converts the [api] section of app.toml.
func NewConfig(cfg app.APIConfig) Config {
	c := DefaultConfig()
	c.Address = cfg.Address
	c.CORSOrigins = cfg.CORSOrigins
	if cfg.RateLimitRPS > 0 {
		c.RateLimitRPS = cfg.RateLimitRPS
	}
	if cfg.RateLimitBurst > 0 {
		c.RateLimitBurst = cfg.RateLimitBurst
	}
	if cfg.ReadTimeout > 0 {
		c.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		c.WriteTimeout = cfg.WriteTimeout
	}
	return c
}

// NewServer creates a new API server instance
func NewServer(a *app.App, config Config, logger log.Logger) *Server {
	s := &Server{
		app:     a,
		config:  config,
		logger:  logger.With("module", "api"),
		health:  health.NewHealthChecker(Version),
		compute: computekeeper.NewQueryServerImpl(a.ComputeKeeper),
	}
	s.registerHealthChecks()
	s.setupRouter()
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Health returns the checker behind the health endpoints.
func (s *Server) Health() *health.HealthChecker {
	return s.health
}

func (s *Server) registerHealthChecks() {
	s.health.RegisterCheck("store", health.StoreCheck(func(ctx context.Context) error {
		_, err := s.app.Initialized(ctx)
		return err
	}))
	s.health.RegisterCheck("invariants", health.InvariantsCheck(s.app.CheckInvariants))
	s.health.RegisterCheck("verifier", health.DependencyCheck("verifier", func(ctx context.Context) (bool, error) {
		var ok bool
		err := s.app.Query(ctx, func(c txn.Context) error {
			params, err := s.app.ComputeKeeper.GetParams(c)
			if err != nil {
				return err
			}
			for _, name := range s.app.ComputeKeeper.RegisteredVerifiers() {
				if name == params.Verifier {
					ok = true
				}
			}
			return nil
		})
		return ok, err
	}))
}

// setupRouter configures the Gin router with all routes and middleware
func (s *Server) setupRouter() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Recovery must run first to catch panics in later middleware.
	s.router.Use(RecoveryMiddleware(s.logger))
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(s.CORSMiddleware())
	s.router.Use(RateLimitMiddleware(s.config.RateLimitRPS, s.config.RateLimitBurst))

	s.router.GET("/health", gin.WrapF(s.health.HealthHandler))
	s.router.GET("/health/live", gin.WrapF(s.health.LivenessHandler))
	s.router.GET("/health/ready", gin.WrapF(s.health.ReadinessHandler))

	s.registerRoutes()
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:        s.router,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: MaxRequestSize,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting api server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return <-errCh
}

// respondError writes err with the HTTP status of its failure kind.
func (s *Server) respondError(c *gin.Context, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     verr.Message,
			Code:      "INVALID_REQUEST",
			Kind:      failure.KindValidation.String(),
			Details:   verr.Field,
			RequestID: c.GetString(requestIDKey),
		})
		return
	}

	kind := failure.Classify(err)
	status := kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		s.logger.Error("api query failed", "path", c.Request.URL.Path, "err", err)
	}
	c.JSON(status, ErrorResponse{
		Error:     err.Error(),
		Code:      http.StatusText(status),
		Kind:      kind.String(),
		RequestID: c.GetString(requestIDKey),
	})
}
