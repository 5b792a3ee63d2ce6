package log

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormLogger routes gorm's statement logging through a LoggerService.
type GormLogger struct {
	log           LoggerService
	level         logger.LogLevel
	slowThreshold time.Duration
	trace         bool
}

// NewGormLogger creates a gorm logger. Statements slower than slowThreshold
// are logged as warnings; every statement is logged at debug level when
// trace is enabled.
func NewGormLogger(log LoggerService, slowThreshold time.Duration, trace bool) *GormLogger {
	return &GormLogger{
		log:           log,
		level:         logger.Warn,
		slowThreshold: slowThreshold,
		trace:         trace,
	}
}

func (gl *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *gl
	clone.level = level
	return &clone
}

func (gl *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if gl.level >= logger.Info {
		gl.log.Info(msg, args...)
	}
}

func (gl *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if gl.level >= logger.Warn {
		gl.log.Warn(msg, args...)
	}
}

func (gl *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if gl.level >= logger.Error {
		gl.log.Error(msg, args...)
	}
}

func (gl *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if gl.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && gl.level >= logger.Error:
		sql, rows := fc()
		gl.log.Error("Query failed after %s (rows: %d): %s: %v", elapsed, rows, sql, err)
	case gl.slowThreshold > 0 && elapsed > gl.slowThreshold && gl.level >= logger.Warn:
		sql, rows := fc()
		gl.log.Warn("Slow query took %s (rows: %d): %s", elapsed, rows, sql)
	case gl.trace && gl.log.Enabled(Debug):
		sql, rows := fc()
		gl.log.Debug("Query took %s (rows: %d): %s", elapsed, rows, sql)
	}
}
