package store

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/samanvaya/samanvaya/pkg/db/migrations"
	"github.com/samanvaya/samanvaya/pkg/errs"
	"github.com/samanvaya/samanvaya/pkg/log"
	"github.com/samanvaya/samanvaya/pkg/registry"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteStore implements MetadataStore using SQLite
type SQLiteStore struct {
	db       *gorm.DB
	path     string
	log      log.LoggerService
	registry *registry.Registry
	validate *validator.Validate
	now      func() time.Time
}

// DB returns the underlying GORM database instance
func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path         string
	MaxOpenConns int
	LogLevel     logger.LogLevel

	// Logger receives store failures, statement errors and slow queries.
	// Without it gorm's default logger is used.
	Logger        log.LoggerService
	SlowThreshold time.Duration
	TraceQueries  bool

	// Registry defaults to registry.Default().
	Registry *registry.Registry
}

// NewSQLiteStore creates a new SQLite-backed metadata store
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}
	if cfg.Registry == nil {
		cfg.Registry = registry.Default()
	}

	var gormLogger logger.Interface = logger.Default.LogMode(cfg.LogLevel)
	if cfg.Logger != nil {
		gormLogger = log.NewGormLogger(cfg.Logger.Named("gorm"), cfg.SlowThreshold, cfg.TraceQueries).LogMode(cfg.LogLevel)
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	storeLog := cfg.Logger
	if storeLog == nil {
		storeLog = log.NewLoggerService("store", defaultLogConfig)
	}

	return &SQLiteStore{
		db:       db,
		path:     cfg.Path,
		log:      storeLog,
		registry: cfg.Registry,
		validate: newValidator(),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}, nil
}

// Connect initializes the database connection
func (s *SQLiteStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(1) // SQLite only supports 1 writer
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Migrate runs database migrations
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return migrations.NewMigrator(s.db, s.registry).Migrate(ctx)
}

// Health checks database connectivity
func (s *SQLiteStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Registry returns the category registry the store was built with.
func (s *SQLiteStore) Registry() *registry.Registry {
	return s.registry
}

// transaction runs fn atomically. Failures outside the error taxonomy are
// logged with full detail and surfaced as a generic PersistenceError.
func (s *SQLiteStore) transaction(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(fn)
	return s.fail(op, err)
}

func (s *SQLiteStore) fail(op string, err error) error {
	if err == nil || errs.Known(err) {
		return err
	}
	s.log.Error("Failed to %s: %v", op, err)
	return errs.Persistence(op, err)
}
