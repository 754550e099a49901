package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/latticeci/lattice/internal/config"
	"github.com/latticeci/lattice/internal/constants"
	"github.com/latticeci/lattice/internal/errors"
	"github.com/latticeci/lattice/internal/logging"
)

// logFileWriter holds the log file writer for cleanup purposes.
var logFileWriter io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup

// InitLogger creates and configures a zerolog.Logger based on verbosity flags.
//
// Log levels are set as follows:
//   - verbose=true: Debug level (most detailed)
//   - quiet=true: Warn level (errors and warnings only)
//   - default: Info level (normal operation)
//
// Output format is determined by the terminal:
//   - TTY with colors enabled: Console writer with timestamps
//   - Non-TTY or NO_COLOR set: JSON output to stderr
//
// The logger also writes to ~/.lattice/logs/lattice.log with rotation
// enabled. Both destinations pass through the secret masker so credentials
// that leak into step output never reach the console or disk. If the log
// file cannot be created, the logger continues with console-only output.
func InitLogger(verbose, quiet bool, masker *logging.Masker) zerolog.Logger {
	level := selectLevel(verbose, quiet)
	console := logging.NewMaskingWriter(selectOutput(), masker)

	var writer io.Writer = console
	if fileWriter, err := createLogFileWriter(masker); err == nil {
		logFileWriter = fileWriter
		writer = zerolog.MultiLevelWriter(console, fileWriter)
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// InitLoggerWithWriter creates a logger with a custom writer.
// This is primarily intended for testing purposes.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	level := selectLevel(verbose, quiet)
	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// CloseLogFile closes the global log file writer if it was opened.
// This should be called during application shutdown.
func CloseLogFile() {
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// selectLevel determines the appropriate log level based on flags.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// selectOutput determines the appropriate output writer based on terminal
// capabilities and environment settings.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

// maskingWriteCloser wraps a WriteCloser with secret masking so the
// rotating file writer can still be closed on shutdown.
type maskingWriteCloser struct {
	writer *logging.MaskingWriter
	closer io.Closer
}

// Write implements io.Writer by delegating to the masking writer.
func (m *maskingWriteCloser) Write(p []byte) (n int, err error) {
	return m.writer.Write(p)
}

// Close implements io.Closer by delegating to the underlying closer.
func (m *maskingWriteCloser) Close() error {
	return m.closer.Close()
}

// createLogFileWriter creates a rotating file writer for the CLI log,
// wrapped with the secret masker.
func createLogFileWriter(masker *logging.Masker) (io.WriteCloser, error) {
	home, err := config.LatticeHome()
	if err != nil {
		return nil, err
	}

	logDir := filepath.Join(home, constants.LogsDir)
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.CLILogFileName),
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}

	return &maskingWriteCloser{
		writer: logging.NewMaskingWriter(lj, masker),
		closer: lj,
	}, nil
}
