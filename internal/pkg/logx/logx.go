/*
Package logx provides a structured logging wrapper based on zerolog.

It initializes the global logger for the wallet server, switching between a
human-readable console format in development and JSON in production, and
exposes small helpers for the common logging levels.
*/
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitGlobalLogger initializes the global zerolog instance.
// Development mode logs at Debug level through a colored ConsoleWriter;
// production logs at Info level as plain JSON. All entries carry a Unix
// timestamp and caller information.
func InitGlobalLogger(isDevelopment bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if isDevelopment {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			NoColor:    false,
			TimeFormat: time.RFC3339,
		})
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	log.Logger = logger.With().Caller().Logger()
}

// Logger returns a pointer to the global zerolog.Logger instance.
// Components derive their contextual loggers from it, e.g.
// logx.Logger().With().Str("session_id", id).Logger().
func Logger() *zerolog.Logger {
	return &log.Logger
}

// Info records a log message at the Info level.
func Info(msg string) {
	Logger().Info().CallerSkipFrame(1).Msg(msg)
}

// Warn records a log message at the Warn level.
func Warn(msg string) {
	Logger().Warn().CallerSkipFrame(1).Msg(msg)
}

// Error records an error and a log message at the Error level.
func Error(err error, msg string) {
	Logger().Error().Err(err).CallerSkipFrame(1).Msg(msg)
}

// Fatal records an error at the Fatal level and terminates the process.
func Fatal(err error, msg string) {
	Logger().Fatal().Err(err).CallerSkipFrame(1).Msg(msg)
}
