// Package api wires configuration, storage, messaging and HTTP routing
// into a runnable server.
package api

import (
	"context"
	"net/http"
	"time"

	"studycafe/internal/cache"
	"studycafe/internal/config"
	"studycafe/internal/database"
	"studycafe/internal/external"
	"studycafe/internal/handlers"
	"studycafe/internal/logger"
	"studycafe/internal/messaging"
	"studycafe/internal/middleware"
	"studycafe/internal/repository"
	"studycafe/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	cfg    *config.Config
	db     *database.DB
	valkey *cache.ValkeyClient
	nats   *messaging.NATSClient
	http   *http.Server
}

// NewServer connects the dependencies and builds the HTTP server.
// Valkey and NATS are optional: the server runs degraded without them
// (no capability cache, no events) rather than refusing to start.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	valkey, err := cache.NewValkeyClient()
	if err != nil {
		logger.Get().Warn("Valkey unavailable, running without cache", "error", err)
		valkey = nil
	}

	nats, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Get().Warn("NATS unavailable, running without events", "error", err)
		nats = nil
	}

	directory := external.NewDirectoryClient(cfg.Directory)
	features := external.NewFeaturesClient(cfg.Features, valkey)

	repos := repository.NewRepositories(db)

	// interface values must stay nil when the client is nil
	var publisher service.EventPublisher
	if nats != nil {
		publisher = nats
	}

	services := service.NewServices(service.Deps{
		Seats:        repos.Seats,
		Reservations: repos.Reservations,
		Assignments:  repos.Assignments,
		Publisher:    publisher,
		Features:     features,
	})

	router := newRouter(cfg, services, directory, valkey)

	return &Server{
		cfg:    cfg,
		db:     db,
		valkey: valkey,
		nats:   nats,
		http: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
		},
	}, nil
}

func newRouter(cfg *config.Config, services *service.Services, directory *external.DirectoryClient, valkey *cache.ValkeyClient) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS())

	h := handlers.NewHandlers(services)

	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.Identity(directory, valkey))
	{
		api.GET("/seats", h.ListSeats)
		api.GET("/seats/status", h.SeatStatus)
		api.GET("/seats/:id", h.GetSeat)

		api.POST("/reservations", h.CreateReservation)
		api.POST("/reservations/release", h.ReleaseReservation)

		api.POST("/assignments", h.CreateAssignment)
		api.PATCH("/assignments/:id", h.UpdateAssignment)
		api.DELETE("/assignments/:id", h.DeleteAssignment)
	}

	return router
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	logger.Get().Info("Starting HTTP server", "port", s.cfg.Port)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes all connections.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := s.http.Shutdown(shutdownCtx)

	if s.nats != nil {
		s.nats.Close()
	}
	if s.valkey != nil {
		s.valkey.Close()
	}
	s.db.Close()

	return err
}
