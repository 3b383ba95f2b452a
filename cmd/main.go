package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/bwise1/incident_reports/config"
	deps "github.com/bwise1/incident_reports/internal/debs"
	api "github.com/bwise1/incident_reports/internal/http/rest"
)

const (
	shutdownTimeout = 10 * time.Second
	initTimeout     = 10 * time.Second
)

func setUpLogging(cfg *config.Config) {
	if strings.EqualFold(cfg.LogFormat, "json") {
		log.SetHandler(json.New(os.Stderr))
	} else {
		log.SetHandler(text.New(os.Stderr))
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warnf("invalid LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func main() {
	cfg, err := config.New()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	setUpLogging(cfg)

	dependencies, err := deps.New(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize dependencies")
	}
	defer dependencies.Close()

	repo := api.NewReportRepo(dependencies.DB, dependencies.Disk)
	initCtx, initCancel := context.WithTimeout(context.Background(), initTimeout)
	err = repo.Initialize(initCtx)
	initCancel()
	if err != nil {
		log.WithError(err).Fatal("failed to initialize report store")
	}

	a := &api.API{
		Config:  cfg,
		Reports: repo,
		Logger:  log.Log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if dependencies.Hub != nil {
		a.Hub = dependencies.Hub
		go dependencies.Hub.Run(ctx)
	}
	if dependencies.Cloudinary != nil {
		a.Mirror = dependencies.Cloudinary
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("server running")
		serveErr <- a.Serve()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	log.Info("server stopped, closing database connections")
}
