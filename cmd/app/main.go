package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitclub/internal/config"
	"fitclub/internal/db"
	"fitclub/internal/email"
	"fitclub/internal/logger"
	"fitclub/internal/server"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	emailService := email.New(
		cfg.EmailFrom,
		cfg.EmailFromName,
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
		cfg.RedisAddr,
	)
	defer emailService.Close()

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go emailService.Start(workerCtx)

	srv := server.New(database, cfg, emailService)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on :%s", cfg.Port)
		errCh <- srv.Start(cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatalf("Server failed: %v", err)
	case sig := <-quit:
		logger.Infof("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown error: %v", err)
	}
	stopWorker()
	logger.Info("Server stopped")
}
