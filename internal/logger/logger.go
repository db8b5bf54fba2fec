// Package logger wraps zerolog into a single process-wide structured
// logger with level and format switching.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// LogLevel is a string-typed log level accepted by Init.
type LogLevel string

const (
	LevelTrace LogLevel = "trace"
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
	LevelFatal LogLevel = "fatal"
)

// Config controls logger construction.
type Config struct {
	Level      LogLevel
	Format     string // "console" or "json"
	Output     io.Writer
	TimeFormat string
	NoColor    bool
}

var (
	mu     sync.RWMutex
	global zerolog.Logger
	inited bool
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// Init configures the global logger from cfg. Safe to call multiple
// times; the most recent call wins.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = "2006-01-02 15:04:05"
	}

	var w io.Writer
	if strings.EqualFold(cfg.Format, "json") {
		w = out
	} else {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: timeFormat,
			NoColor:    cfg.NoColor,
		}
	}

	l := zerolog.New(w).With().Timestamp().Stack().Logger().Level(parseLevel(cfg.Level))

	mu.Lock()
	global = l
	inited = true
	mu.Unlock()
}

// InitWithLevel initializes the logger in console format with the given level.
func InitWithLevel(level LogLevel, out io.Writer) {
	Init(Config{Level: level, Format: "console", Output: out})
}

// InitForDevelopment configures a console logger at debug level.
func InitForDevelopment() {
	Init(Config{Level: LevelDebug, Format: "console", Output: os.Stderr})
}

// InitForProduction configures a JSON logger at info level.
func InitForProduction() {
	Init(Config{Level: LevelInfo, Format: "json", Output: os.Stderr})
}

// Global returns the configured logger, or a no-op logger if Init was
// never called.
func Global() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !inited {
		return zerolog.Nop()
	}
	return global
}

// SetLevel adjusts the level of the global logger in place.
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	global = global.Level(parseLevel(level))
}

// GetLevel returns the current global logger level.
func GetLevel() zerolog.Level {
	mu.RLock()
	defer mu.RUnlock()
	return global.GetLevel()
}

func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

func Trace() *zerolog.Event { return Global().Trace() }
func Debug() *zerolog.Event { return Global().Debug() }
func Info() *zerolog.Event  { return Global().Info() }
func Warn() *zerolog.Event  { return Global().Warn() }
func Error() *zerolog.Event { return Global().Error() }
func Fatal() *zerolog.Event { return Global().Fatal() }
func With() zerolog.Context { return Global().With() }
