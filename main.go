package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/formgate/formgate-backend/config"
	"github.com/formgate/formgate-backend/handlers"
	"github.com/formgate/formgate-backend/internal/store/memory"
	"github.com/formgate/formgate-backend/logger"
	"github.com/formgate/formgate-backend/router"
	"github.com/formgate/formgate-backend/services"
)

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		_ = logger.Close()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Submission storage is process memory; everything is lost on restart.
	submissionStore := memory.New()

	// Mail transport construction fails fast on missing credentials.
	emailService, err := services.NewEmailService(&cfg.Email)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	sweeper := services.NewSweeper(
		submissionStore,
		time.Duration(cfg.Retention.SweepIntervalMinutes)*time.Minute,
		time.Duration(cfg.Retention.TTLHours)*time.Hour,
	)
	sweeper.Start()
	defer sweeper.Stop()

	submissionHandler := handlers.NewSubmissionHandler(submissionStore, emailService)
	healthHandler := handlers.NewHealthHandler(cfg.Server.Version)

	r := router.SetupRouter(router.Dependencies{
		Config:            cfg,
		SubmissionHandler: submissionHandler,
		HealthHandler:     healthHandler,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
}
