package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Yekna/dj-jukebox/internal/auth"
	"github.com/Yekna/dj-jukebox/internal/config"
	"github.com/Yekna/dj-jukebox/internal/database"
	"github.com/Yekna/dj-jukebox/internal/handler"
	"github.com/Yekna/dj-jukebox/internal/router"
	"github.com/Yekna/dj-jukebox/internal/search"
	"github.com/Yekna/dj-jukebox/internal/service"
	"github.com/Yekna/dj-jukebox/internal/storage/postgres"
)

// API is the HTTP + WebSocket application.
type API struct {
	cfg *config.Config
	srv *http.Server
	db  *gorm.DB
	hub *service.RoomHub
}

// NewAPI validates config, runs migrations, opens the database and wires the
// service graph.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	logger, _ := zap.NewProduction()
	if cfg.AppEnv == "development" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	hub := service.NewRoomHub(cfg.WSReadBufferSize, cfg.WSWriteBufferSize, cfg.WSSendBuffer, logger)
	store := postgres.New(db)
	roomSvc := service.NewRoomService(store, hub, cfg.PinMaxAttempts, logger)
	verifier := auth.NewVerifier(cfg.JWTSecret)

	roomHandler := handler.NewRoomHandler(roomSvc, verifier)
	roomWS := handler.NewRoomWSHandler(hub, cfg.WSMaxMessageSize, logger)
	health := handler.NewHealthHandler()

	var searchHandler *handler.SearchHandler
	if cfg.SearchAPIURL != "" {
		client := search.NewClient(cfg.SearchAPIURL, cfg.SearchAPIKey,
			time.Duration(cfg.SearchTimeoutSec)*time.Second, logger)
		searchHandler = handler.NewSearchHandler(client)
	} else {
		log.Println("warning: SEARCH_API_URL not set, /search disabled")
	}

	r := router.New(roomHandler, roomWS, searchHandler, health)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{cfg: cfg, srv: srv, db: db, hub: hub}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully. Open websockets are not forcibly closed; Shutdown waits
// out the HTTP side and the process exit drops the rest.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.srv.Addr)
	log.Printf("  Health:    %s/health", base)
	log.Printf("  Rooms:     %s/rooms", base)
	log.Printf("  WebSocket: ws://%s:%s/ws/rooms/:pin", host, a.cfg.HTTPPort)

	go func() {
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
