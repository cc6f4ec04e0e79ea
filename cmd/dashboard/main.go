package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pltcm-dashboard/internal/config"
	"pltcm-dashboard/internal/service"
	genexcel "pltcm-dashboard/internal/service/generate-excel"
	"pltcm-dashboard/internal/storage/mysql"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env, cfg.ErrorLog)

	loc, err := cfg.DisplayLocation()
	if err != nil {
		log.Error("invalid display location", slog.String("error", err.Error()))
		os.Exit(1)
	}

	storage, err := mysql.New(*cfg)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	snapshot := service.NewSnapshotService(storage, log)
	if cfg.LoadOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
		// the server still starts; pages answer 503 until a reload succeeds
		if err := snapshot.Load(ctx); err != nil {
			log.Error("initial load failed", slog.String("error", err.Error()))
		}
		cancel()
	}

	excelService := genexcel.NewGenerateService(snapshot)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, loc, snapshot, excelService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server started", slog.String("address", cfg.Address), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
}
