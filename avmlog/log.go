// Package avmlog provides the shared btclog.Logger plumbing other packages
// obtain through per-subsystem getter functions, backed by a stdout+rotating-file
// writer, grounded on the log backend/rotator wiring the daemon builds in
// omgd/log.go.
package avmlog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"
	"github.com/omegasuite/btclog"
)

// logWriter fans every log line out to stdout and the rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

var (
	backendLog = btclog.NewBackend(logWriter{})
	logRotator *rotator.Rotator

	interpLog  = backendLog.Logger("INTP", 0xFFFF)
	verifyLog  = backendLog.Logger("VRFY", 0xFFFF)
	wireLog    = backendLog.Logger("WIRE", 0xFFFF)
	cliLog     = backendLog.Logger("CLI", 0xFFFF)
)

// subsystemLoggers maps each subsystem identifier to its logger.
var subsystemLoggers = map[string]btclog.Logger{
	"INTP": interpLog,
	"VRFY": verifyLog,
	"WIRE": wireLog,
	"CLI":  cliLog,
}

func init() {
	interpLog.SetLevel(btclog.LevelInfo)
	verifyLog.SetLevel(btclog.LevelInfo)
	wireLog.SetLevel(btclog.LevelInfo)
	cliLog.SetLevel(btclog.LevelInfo)
}

// InterpreterLogger returns the logger the interpreter package should use.
func InterpreterLogger() btclog.Logger { return interpLog }

// VerifierLogger returns the logger the verifier package should use.
func VerifierLogger() btclog.Logger { return verifyLog }

// WireLogger returns the logger the avmwire package should use.
func WireLogger() btclog.Logger { return wireLog }

// CLILogger returns the logger cmd/avmcli should use.
func CLILogger() btclog.Logger { return cliLog }

// InitLogRotator initializes the rotating file writer backing every
// subsystem logger. It must be called once, early, before any logger is
// used, if file-backed logging is wanted; otherwise loggers write to
// stdout only.
func InitLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0700); err != nil {
			return fmt.Errorf("avmlog: failed to create log directory: %w", err)
		}
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("avmlog: failed to create file rotator: %w", err)
	}
	logRotator = r
	return nil
}

// SetLogLevel sets the level of one named subsystem. Unknown subsystem
// names are ignored.
func SetLogLevel(subsystemID, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	level, ok := btclog.LevelFromString(logLevel)
	if !ok {
		level = btclog.LevelInfo
	}
	logger.SetLevel(level)
}

// SetLogLevels sets every subsystem logger to the same level.
func SetLogLevels(logLevel string) {
	for id := range subsystemLoggers {
		SetLogLevel(id, logLevel)
	}
}

// logClosure defers expensive log-argument construction until the message
// is actually going to be printed.
type logClosure func() string

func (c logClosure) String() string {
	return c()
}

// NewLogClosure wraps fn as a fmt.Stringer evaluated lazily by the logger.
func NewLogClosure(fn func() string) fmt.Stringer {
	return logClosure(fn)
}
