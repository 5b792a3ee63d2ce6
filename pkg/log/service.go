package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	config "github.com/samanvaya/samanvaya/internal/config/server"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerService interface {
	Debug(msg string, args ...any)

	Info(msg string, args ...any)

	Warn(msg string, args ...any)

	Error(msg string, args ...any)

	Fatal(msg string, args ...any)

	// Named returns a logger whose service name is extended by name.
	Named(name string) LoggerService

	// With returns a logger that attaches key/value fields to every entry,
	// e.g. With("request_id", id).
	With(keysAndValues ...any) LoggerService

	Enabled(level LogLevel) bool
}

type LoggerServiceImpl struct {
	LoggerService

	cfg    config.LogServerConfig
	name   string
	level  LogLevel
	fields map[string]any

	// shared by every logger derived through Named or With
	sink *sink
}

// sink serialises writes of all loggers derived from one root.
type sink struct {
	mutex  sync.Mutex
	writer io.Writer
	exit   func(code int)
}

type logEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Service   string         `json:"service,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func NewLoggerService(name string, cfg config.LogServerConfig) LoggerService {
	return newLoggerService(name, cfg, openWriter(cfg))
}

// NewLoggerServiceWithWriter logs to w only, ignoring the file and terminal
// settings of cfg. Colors are never written.
func NewLoggerServiceWithWriter(name string, cfg config.LogServerConfig, w io.Writer) LoggerService {
	cfg.NoColor = true
	return newLoggerService(name, cfg, w)
}

func newLoggerService(name string, cfg config.LogServerConfig, w io.Writer) *LoggerServiceImpl {
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}

	return &LoggerServiceImpl{
		cfg:   cfg,
		name:  name,
		level: Parse(cfg.Level),
		sink: &sink{
			writer: w,
			exit:   os.Exit,
		},
	}
}

// openWriter combines the terminal and the rotating log file. Without
// either, stdout is used.
func openWriter(cfg config.LogServerConfig) io.Writer {
	var writers []io.Writer
	if !cfg.NoTerminal {
		writers = append(writers, os.Stdout)
	}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.Rotation.MaxSize,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     cfg.Rotation.MaxAge,
			Compress:   cfg.Rotation.Compress,
		})
	}

	switch len(writers) {
	case 0:
		return os.Stdout
	case 1:
		return writers[0]
	}
	return io.MultiWriter(writers...)
}

func (impl *LoggerServiceImpl) Enabled(level LogLevel) bool {
	return level >= impl.level
}

func (impl *LoggerServiceImpl) log(level LogLevel, msg string, args ...any) {
	if !impl.Enabled(level) {
		return
	}

	message := msg
	if len(args) > 0 {
		message = fmt.Sprintf(msg, args...)
	}
	timestamp := time.Now().Format(impl.cfg.TimeFormat)

	var line string
	if impl.cfg.JSON {
		line = impl.formatJSON(timestamp, level, message)
	} else {
		line = impl.formatText(timestamp, level, message)
	}

	impl.sink.mutex.Lock()
	fmt.Fprintln(impl.sink.writer, line)
	impl.sink.mutex.Unlock()

	if level == Fatal {
		impl.sink.exit(1)
	}
}

func (impl *LoggerServiceImpl) formatJSON(timestamp string, level LogLevel, message string) string {
	encoded, err := json.Marshal(logEntry{
		Timestamp: timestamp,
		Level:     level.String(),
		Service:   impl.name,
		Message:   message,
		Fields:    impl.fields,
	})
	if err != nil {
		return fmt.Sprintf(`{"level":"ERROR","message":"failed to encode log entry: %v"}`, err)
	}
	return string(encoded)
}

func (impl *LoggerServiceImpl) formatText(timestamp string, level LogLevel, message string) string {
	var b strings.Builder

	if !impl.cfg.NoTerminal && !impl.cfg.NoColor {
		b.WriteString(Color(level))
	}
	fmt.Fprintf(&b, "[%s] %-5s", timestamp, level)
	if impl.name != "" {
		fmt.Fprintf(&b, " [%s]", impl.name)
	}
	b.WriteByte(' ')
	b.WriteString(message)

	keys := make([]string, 0, len(impl.fields))
	for key := range impl.fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, impl.fields[key])
	}

	if !impl.cfg.NoTerminal && !impl.cfg.NoColor {
		b.WriteString("\033[0m")
	}
	return b.String()
}

func (impl *LoggerServiceImpl) Debug(msg string, args ...any) {
	impl.log(Debug, msg, args...)
}

func (impl *LoggerServiceImpl) Info(msg string, args ...any) {
	impl.log(Info, msg, args...)
}

func (impl *LoggerServiceImpl) Warn(msg string, args ...any) {
	impl.log(Warn, msg, args...)
}

func (impl *LoggerServiceImpl) Error(msg string, args ...any) {
	impl.log(Error, msg, args...)
}

func (impl *LoggerServiceImpl) Fatal(msg string, args ...any) {
	impl.log(Fatal, msg, args...)
}

func (impl *LoggerServiceImpl) Named(name string) LoggerService {
	if impl.name != "" {
		name = impl.name + "/" + name
	}

	clone := impl.clone()
	clone.name = name
	return clone
}

// With ignores a trailing key without value.
func (impl *LoggerServiceImpl) With(keysAndValues ...any) LoggerService {
	clone := impl.clone()
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		clone.fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return clone
}

func (impl *LoggerServiceImpl) clone() *LoggerServiceImpl {
	fields := make(map[string]any, len(impl.fields))
	for key, value := range impl.fields {
		fields[key] = value
	}

	return &LoggerServiceImpl{
		cfg:    impl.cfg,
		name:   impl.name,
		level:  impl.level,
		fields: fields,
		sink:   impl.sink,
	}
}
