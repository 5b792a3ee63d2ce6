package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/mwantia/fabric/pkg/container"
	config "github.com/samanvaya/samanvaya/internal/config/server"
	"github.com/samanvaya/samanvaya/pkg/db/store"
	"github.com/samanvaya/samanvaya/pkg/log"
	"github.com/samanvaya/samanvaya/pkg/registry"
	gormlogger "gorm.io/gorm/logger"
)

// OpenStore opens, connects and migrates the metadata store described by cfg.
func OpenStore(ctx context.Context, cfg *config.BaseServerConfig, logger log.LoggerService) (*store.SQLiteStore, error) {
	s, err := ConnectStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to migrate metadata store: %w", err)
	}
	return s, nil
}

// ConnectStore opens the metadata store without migrating it.
func ConnectStore(ctx context.Context, cfg *config.BaseServerConfig, logger log.LoggerService) (*store.SQLiteStore, error) {
	path := cfg.Metadata.SQLite.Path
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	s, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path:          path,
		LogLevel:      gormLogLevel(logger),
		Logger:        logger,
		SlowThreshold: duration(cfg.Metadata.SQLite.SlowThreshold, 200*time.Millisecond),
		TraceQueries:  cfg.Metadata.SQLite.TraceQueries,
		Registry:      registry.Default(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.Connect(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to connect metadata store: %w", err)
	}
	return s, nil
}

func gormLogLevel(l log.LoggerService) gormlogger.LogLevel {
	switch {
	case l.Enabled(log.Info):
		return gormlogger.Info
	case l.Enabled(log.Warn):
		return gormlogger.Warn
	}
	return gormlogger.Error
}

// injectLoggers fills every LoggerService field of target that carries a
// logger tag understood by log.LoggerTagProcessor.
func injectLoggers(ctx context.Context, sc *container.ServiceContainer, target any) error {
	processor := log.NewLoggerTagProcessor()

	value := reflect.ValueOf(target).Elem()
	for i := 0; i < value.NumField(); i++ {
		field := value.Type().Field(i)
		tag := field.Tag.Get("fabric")
		if !processor.CanProcess(tag) {
			continue
		}

		resolved, err := processor.Process(ctx, sc, field, tag)
		if err != nil {
			return err
		}
		value.Field(i).Set(reflect.ValueOf(resolved))
	}
	return nil
}
