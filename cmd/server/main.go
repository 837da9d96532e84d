package main

import (
	"context"
	"liveexperience/internal/app"
	"liveexperience/internal/config"
	"liveexperience/internal/logging"
	"liveexperience/internal/repository"
	"liveexperience/internal/service"
	"liveexperience/internal/transport/rest"
	"liveexperience/internal/transport/ws"
	"liveexperience/internal/wizard"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// @title Live Experience API
// @version 1.0
// @description Workbook sessions for live founder events
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: !cfg.IsProduction(),
	})
	log.Info().Str("env", cfg.Env).Msg("started")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	catalog := wizard.DefaultCatalog()
	if cfg.CatalogPath != "" {
		loaded, err := wizard.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("failed to load question catalog")
		}
		catalog = loaded
	}
	log.Info().Int("questions", catalog.Len()).Msg("question catalog ready")

	a, err := app.Connect(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("storage unavailable")
	}
	defer a.Close(context.Background())

	repository.EnsureIndexes(ctx, a.DB, log)

	// Initialize WebSocket hub
	wsHub := ws.NewHub(log)
	defer wsHub.Stop()

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.UnlockTTL)
	eventSvc := service.NewEventService(a.EventRepo, a.RegistrationRepo, a.EventCache, log)
	sessionSvc := service.NewSessionService(catalog, eventSvc, a.UnlockCache, authSvc, service.SessionSettings{
		IdleTTL:       cfg.SessionIdleTTL,
		ReapInterval:  time.Minute,
		FollowUpDelay: cfg.FollowUpDelay,
	}, log)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessionSvc.SetBroadcaster(wsHub)
	go sessionSvc.Run(ctx)

	router := rest.NewRouter(&rest.Container{
		AuthService:    authSvc,
		EventService:   eventSvc,
		SessionService: sessionSvc,
		WSHub:          wsHub,
		CORS:           cfg.CORS,
		UnlockPerMin:   cfg.UnlockPerMin,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	stop()
	sessionSvc.Shutdown()
	log.Info().Msg("server exited")
}
