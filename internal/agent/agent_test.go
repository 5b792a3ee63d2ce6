package agent

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	config "github.com/samanvaya/samanvaya/internal/config/server"
	"github.com/samanvaya/samanvaya/pkg/db/migrations"
	"github.com/samanvaya/samanvaya/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestDuration(t *testing.T) {
	assert.Equal(t, 3*time.Second, duration("3s", time.Minute))
	assert.Equal(t, time.Minute, duration("soon", time.Minute))
	assert.Equal(t, time.Minute, duration("-1s", time.Minute))
}

func TestGormLogLevel(t *testing.T) {
	level := func(name string) gormlogger.LogLevel {
		return gormLogLevel(log.NewLoggerServiceWithWriter("test", config.LogServerConfig{Level: name}, io.Discard))
	}

	assert.Equal(t, gormlogger.Info, level("debug"))
	assert.Equal(t, gormlogger.Warn, level("warn"))
	assert.Equal(t, gormlogger.Error, level("error"))
}

func TestOpenStore_CreatesDirectoryAndMigrates(t *testing.T) {
	cfg := config.GetServerDefault()
	cfg.Metadata.SQLite.Path = filepath.Join(t.TempDir(), "nested", "samanvaya.db")

	logger := log.NewLoggerServiceWithWriter("test", config.LogServerConfig{Level: "error"}, io.Discard)
	s, err := OpenStore(context.Background(), &cfg, logger)
	require.NoError(t, err)
	defer s.Close()

	statuses, err := migrations.NewMigrator(s.DB(), s.Registry()).Status(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, statuses)
	for _, status := range statuses {
		assert.True(t, status.Applied, "migration %d", status.Version)
	}

	require.NoError(t, s.Health(context.Background()))
}
