package logger

import (
	"os"

	"github.com/rs/zerolog"
)

var levelNames = map[string]zerolog.Level{
	"DEBUG": zerolog.DebugLevel,
	"INFO":  zerolog.InfoLevel,
	"WARN":  zerolog.WarnLevel,
	"ERROR": zerolog.ErrorLevel,
	"FATAL": zerolog.FatalLevel,
	"PANIC": zerolog.PanicLevel,
}

// SetupLogging applies the platform-wide field naming convention.
// Call once from the entrypoint before any logger is created.
func SetupLogging() {
	zerolog.LevelFieldName = "level_name"
	zerolog.TimestampFieldName = "timestamp"
}

// NewLogger returns a component-tagged logger with the level taken
// from MDL_COMN_LOGLEVEL (defaults to INFO).
func NewLogger(component string) zerolog.Logger {
	level, ok := levelNames[os.Getenv("MDL_COMN_LOGLEVEL")]
	if !ok {
		level = zerolog.InfoLevel
	}

	return zerolog.New(os.Stderr).
		With().
		Str("component", component).
		Timestamp().
		Logger().
		Level(level)
}
