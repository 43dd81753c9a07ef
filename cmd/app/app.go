package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mecalink/admin-gateway/internal/api"
	"github.com/mecalink/admin-gateway/internal/config"
	"github.com/mecalink/admin-gateway/internal/db"
	"github.com/mecalink/admin-gateway/internal/logger"
	"github.com/mecalink/admin-gateway/internal/repository/dao"
)

const configPath = "./cmd/app/config.yml"

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	if err = logger.SetLevel(conf.API.LogLevel); err != nil {
		return fmt.Errorf("failed to set log level -> %w", err)
	}

	if err = config.Watch(configPath, applyLogLevel, func(err error) {
		zap.L().Warn("ignoring invalid config change", zap.Error(err))
	}); err != nil {
		return fmt.Errorf("failed to watch config -> %w", err)
	}

	gormDB, err := openDB(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}
	if err = dao.InitTables(gormDB); err != nil {
		return fmt.Errorf("failed to initialize tables -> %w", err)
	}

	s, err := api.NewServer(conf, gormDB)
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}

	return serve(s)
}

func openDB(conf *config.AppConfig) (*gorm.DB, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return db.OpenPostgresWithURL(dbURL)
	}

	return db.Open(conf)
}

func applyLogLevel(conf *config.AppConfig) {
	if err := logger.SetLevel(conf.API.LogLevel); err != nil {
		zap.L().Warn("invalid log level", zap.String("level", conf.API.LogLevel), zap.Error(err))
		return
	}
	zap.L().Info("config reloaded", zap.String("log_level", logger.Level().String()))
}

// serve runs until SIGINT or SIGTERM, then lets in-flight broadcasts finish.
func serve(s *api.Server) error {
	addr := ":" + s.Config.API.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown -> %w", err)
	}
	s.Broadcasts.Wait()

	return nil
}
