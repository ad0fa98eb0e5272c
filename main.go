package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/api"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/auth"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/config"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/database"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/logger"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/monitoring"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/services"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Ensure the base directory for snapshots exists
	if err := os.MkdirAll(cfg.SnapshotPath, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create snapshot directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	eventService := services.NewEventService(db)
	userService := services.NewUserService(db, eventService)
	noteService := services.NewNoteService(db, eventService, hub)
	snapshotService := services.NewSnapshotService(db, noteService, eventService, hub, cfg.SnapshotPath)

	// Set up and run the background resource monitor
	monitor := monitoring.NewMonitor(eventService)
	go monitor.Run()

	// Set up and run the background snapshot scheduler
	scheduler, err := monitoring.NewScheduler(snapshotService, cfg.SnapshotCron)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create snapshot scheduler")
	}
	go scheduler.Run()

	// Set up router
	router := api.NewRouter(api.RouterDeps{
		Tokens:         tokens,
		UserService:    userService,
		NoteService:    noteService,
		EventService:   eventService,
		SnapshotSvc:    snapshotService,
		Monitor:        monitor,
		Hub:            hub,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.Production,
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	monitor.Stop()
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
