// Package logging configures the zerolog logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
)

// EnvLogFile overrides the log file location.
const EnvLogFile = "MSM_LOG_FILE"

// Setup configures the global logger for the given verbosity.
// 0 logs warnings, 1 info, 2 debug and 3 or more trace. Output goes to console
// and to an append-only log file under the XDG state directory. The returned
// closer releases the log file.
func Setup(verbosity int, console io.Writer) io.Closer {
	switch {
	case verbosity <= 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case verbosity == 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case verbosity == 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}}

	logPath := logFilePath()
	file, err := openLogFile(logPath)
	if err == nil {
		writers = append(writers, file)
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}
	if err != nil {
		log.Warn().Err(err).Str("path", logPath).Msg(messages.LoggingFileUnavailable)
	}
	log.Debug().Int("verbosity", verbosity).Str("log_file", logPath).Msg(messages.LoggingInitialized)

	if file == nil {
		return nopCloser{}
	}
	return file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Get returns a logger tagged with component.
func Get(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// OrGet returns *logger when set and Get(component) otherwise.
func OrGet(logger *zerolog.Logger, component string) zerolog.Logger {
	if logger == nil {
		return Get(component)
	}
	return *logger
}

// StartOperation logs the start of operation at debug level and returns a func that logs its completion.
func StartOperation(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")
	return func() {
		logger.Debug().Str("operation", operation).Dur("duration", time.Since(start)).Msg("Operation completed")
	}
}

func logFilePath() string {
	if override := os.Getenv(EnvLogFile); override != "" {
		return override
	}
	path, err := xdg.StateFile(filepath.Join("msm", "msm.log"))
	if err != nil {
		return filepath.Join(os.TempDir(), "msm.log")
	}
	return path
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf(messages.LoggingCreateDirFmt, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.LoggingOpenFileFmt, err)
	}
	return file, nil
}
