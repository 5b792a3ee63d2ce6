package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	config "github.com/samanvaya/samanvaya/internal/config/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestParse(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   Debug,
		"INFO":    Info,
		"":        Info,
		"warning": Warn,
		"Error":   Error,
		"fatal":   Fatal,
		"bogus":   Info,
	}
	for input, want := range tests {
		assert.Equal(t, want, Parse(input), "level %q", input)
	}
	assert.Equal(t, "WARN", Warn.String())
}

func TestLoggerService_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerServiceWithWriter("samanvaya", config.LogServerConfig{Level: "warn"}, &buf)

	log.Info("hidden %d", 1)
	log.Warn("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "[samanvaya]")
}

func TestLoggerService_NamedJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerServiceWithWriter("samanvaya", config.LogServerConfig{Level: "debug", JSON: true}, &buf)

	log.Named("store").Error("write failed: %s", "disk full")

	var entry logEntry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "samanvaya/store", entry.Service)
	assert.Equal(t, "write failed: disk full", entry.Message)
}

func TestLoggerService_WithFields(t *testing.T) {
	var buf bytes.Buffer
	root := NewLoggerServiceWithWriter("api", config.LogServerConfig{Level: "info"}, &buf)

	root.With("request_id", "abc", "status", 500).Info("request failed")
	root.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "request failed request_id=abc status=500"))
	assert.NotContains(t, lines[1], "request_id")

	buf.Reset()
	jsonLog := NewLoggerServiceWithWriter("api", config.LogServerConfig{Level: "info", JSON: true}, &buf)
	jsonLog.With("request_id", "abc").Named("admin").Warn("denied")

	var entry logEntry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "api/admin", entry.Service)
	assert.Equal(t, map[string]any{"request_id": "abc"}, entry.Fields)
}

func TestLoggerService_MessageWithoutArgsIsLiteral(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerServiceWithWriter("", config.LogServerConfig{}, &buf)

	log.Info("100% done")
	assert.Contains(t, buf.String(), "100% done")
}

func TestGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerServiceWithWriter("db", config.LogServerConfig{Level: "debug"}, &buf)
	gl := NewGormLogger(log, 10*time.Millisecond, false)
	sql := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), sql, nil)
	assert.Empty(t, buf.String())

	gl.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "Slow query")

	buf.Reset()
	gl.Trace(context.Background(), time.Now(), sql, errors.New("no such table"))
	assert.Contains(t, buf.String(), "no such table")

	buf.Reset()
	gl.LogMode(logger.Silent).Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	assert.Empty(t, buf.String())
}

func TestLoggerTagProcessor_CanProcess(t *testing.T) {
	ltp := NewLoggerTagProcessor()

	assert.True(t, ltp.CanProcess("logger"))
	assert.True(t, ltp.CanProcess("Logger:store"))
	assert.False(t, ltp.CanProcess("inject"))
	assert.Equal(t, "store", loggerName("logger: store "))
	assert.Equal(t, "", loggerName("logger"))
}
