package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderhub/cmd"
	"orderhub/internal/adapters/out/postgres"

	"github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := newLogger(configs)

	gormDB, err := openDatabase(configs, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cmd.NewCompositionRoot(ctx, configs, gormDB, logger)
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.WithError(err).Warn("close connections")
		}
	}()

	jobManager, err := app.CreateJobManager()
	if err != nil {
		log.Fatalf("failed to create jobs: %v", err)
	}
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	if err = startWebServer(ctx, app, configs.HTTPPort, logger); err != nil {
		logger.WithError(err).Error("web server stopped")
	}
}

func newLogger(configs cmd.Config) *logrus.Logger {
	logger := logrus.New()
	if configs.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(configs.LogLevel)
	if err != nil {
		logger.WithError(err).Warn("unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func openDatabase(configs cmd.Config, logger logrus.FieldLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch configs.DBDriver {
	case cmd.DBDriverSQLite:
		dialector = sqlite.Open(configs.SQLitePath)
	default:
		dialector = gormpostgres.Open(configs.PostgresDSN())
	}

	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         postgres.NewGormLogger(logger),
	})
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger logrus.FieldLogger) error {
	e, err := app.CreateEcho(ctx)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.WithField("port", port).Info("http server started")
		serveErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down http server")
	return e.Shutdown(shutdownCtx)
}
