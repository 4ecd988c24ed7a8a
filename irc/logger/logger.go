// Copyright (c) 2017 Daniel Oaks <daniel@danieloaks.net>
// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package logger

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents the level to log messages at.
type Level int

const (
	// LogDebug represents debug messages.
	LogDebug Level = iota
	// LogInfo represents informational messages.
	LogInfo
	// LogWarning represents warnings.
	LogWarning
	// LogError represents errors.
	LogError
)

// raw protocol traffic is logged under these types
const (
	TypeInput  = "input"
	TypeOutput = "output"
)

var (
	// LogLevelNames takes a config name and gives the real log level.
	LogLevelNames = map[string]Level{
		"debug":    LogDebug,
		"info":     LogInfo,
		"warn":     LogWarning,
		"warning":  LogWarning,
		"warnings": LogWarning,
		"error":    LogError,
		"errors":   LogError,
	}
	// LogLevelDisplayNames gives the display name to use for our log levels.
	LogLevelDisplayNames = map[Level]string{
		LogDebug:   "debug",
		LogInfo:    "info",
		LogWarning: "warn",
		LogError:   "error",
	}
)

// Manager is the main interface used to log debug/info/error messages.
type Manager struct {
	configMutex  sync.RWMutex
	loggers      []singleLogger
	stdout       io.Writer
	stderr       io.Writer
	stdLock      sync.Mutex // one lock for both stdout and stderr
	fileLock     sync.Mutex
	loggingRawIO atomic.Bool
}

// LoggingConfig represents the configuration of a single logger.
type LoggingConfig struct {
	Method        string
	MethodStdout  bool `yaml:"-" toml:"-"`
	MethodStderr  bool `yaml:"-" toml:"-"`
	MethodFile    bool `yaml:"-" toml:"-"`
	Filename      string
	TypeString    string   `yaml:"type" toml:"type"`
	Types         []string `yaml:"-" toml:"-"`
	ExcludedTypes []string `yaml:"-" toml:"-"`
	LevelString   string   `yaml:"level" toml:"level"`
	Level         Level    `yaml:"-" toml:"-"`
}

// NewManager returns a new log manager writing to the process's stdout and stderr.
func NewManager(config []LoggingConfig) (*Manager, error) {
	return NewManagerWithOutput(config, os.Stdout, os.Stderr)
}

// NewManagerWithOutput is NewManager with the "stdout" and "stderr" methods
// redirected to the given writers.
func NewManagerWithOutput(config []LoggingConfig, stdout, stderr io.Writer) (*Manager, error) {
	logger := &Manager{stdout: stdout, stderr: stderr}

	if err := logger.ApplyConfig(config); err != nil {
		return nil, err
	}

	return logger, nil
}

// ApplyConfig replaces the current loggers with ones built from config.
func (logger *Manager) ApplyConfig(config []LoggingConfig) error {
	logger.configMutex.Lock()
	defer logger.configMutex.Unlock()

	for _, sLogger := range logger.loggers {
		sLogger.Close()
	}

	logger.loggers = nil
	logger.loggingRawIO.Store(false)

	var lastErr error
	for _, logConfig := range config {
		typeMap := make(map[string]bool)
		for _, name := range logConfig.Types {
			typeMap[name] = true
		}
		excludedTypeMap := make(map[string]bool)
		for _, name := range logConfig.ExcludedTypes {
			excludedTypeMap[name] = true
		}

		sLogger := singleLogger{
			manager:       logger,
			MethodSTDOUT:  logConfig.MethodStdout,
			MethodSTDERR:  logConfig.MethodStderr,
			Level:         logConfig.Level,
			Types:         typeMap,
			ExcludedTypes: excludedTypeMap,
		}
		ioEnabled := typeMap[TypeInput] || typeMap[TypeOutput] || (typeMap["*"] && !(excludedTypeMap[TypeInput] && excludedTypeMap[TypeOutput]))
		// raw I/O is only logged at level debug;
		if ioEnabled && logConfig.Level == LogDebug {
			logger.loggingRawIO.Store(true)
		}
		if logConfig.MethodFile {
			file, err := os.OpenFile(logConfig.Filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
			if err != nil {
				lastErr = fmt.Errorf("Could not open log file %s [%s]", logConfig.Filename, err.Error())
				continue
			}
			sLogger.MethodFile = fileMethod{
				Enabled:  true,
				Filename: logConfig.Filename,
				File:     file,
				Writer:   bufio.NewWriter(file),
			}
		}
		logger.loggers = append(logger.loggers, sLogger)
	}

	return lastErr
}

// IsLoggingRawIO returns true if raw protocol input and output is being logged.
func (logger *Manager) IsLoggingRawIO() bool {
	return logger.loggingRawIO.Load()
}

// Log logs the given message with the given details.
func (logger *Manager) Log(level Level, logType string, messageParts ...string) {
	logger.configMutex.RLock()
	defer logger.configMutex.RUnlock()

	for i := range logger.loggers {
		logger.loggers[i].Log(level, logType, messageParts...)
	}
}

// Debug logs the given message as a debug message.
func (logger *Manager) Debug(logType string, messageParts ...string) {
	logger.Log(LogDebug, logType, messageParts...)
}

// Info logs the given message as an info message.
func (logger *Manager) Info(logType string, messageParts ...string) {
	logger.Log(LogInfo, logType, messageParts...)
}

// Warning logs the given message as a warning message.
func (logger *Manager) Warning(logType string, messageParts ...string) {
	logger.Log(LogWarning, logType, messageParts...)
}

// Error logs the given message as an error message.
func (logger *Manager) Error(logType string, messageParts ...string) {
	logger.Log(LogError, logType, messageParts...)
}

// Close flushes and closes any log files.
func (logger *Manager) Close() (err error) {
	logger.configMutex.Lock()
	defer logger.configMutex.Unlock()

	for _, sLogger := range logger.loggers {
		if closeErr := sLogger.Close(); closeErr != nil {
			err = closeErr
		}
	}
	logger.loggers = nil
	return
}

type fileMethod struct {
	Enabled  bool
	Filename string
	File     *os.File
	Writer   *bufio.Writer
}

// singleLogger represents a single logger instance.
type singleLogger struct {
	manager       *Manager
	MethodSTDOUT  bool
	MethodSTDERR  bool
	MethodFile    fileMethod
	Level         Level
	Types         map[string]bool
	ExcludedTypes map[string]bool
}

func (logger *singleLogger) Close() error {
	if logger.MethodFile.Enabled {
		flushErr := logger.MethodFile.Writer.Flush()
		closeErr := logger.MethodFile.File.Close()
		if flushErr != nil {
			return flushErr
		}
		return closeErr
	}
	return nil
}

// Log logs the given message with the given details.
func (logger *singleLogger) Log(level Level, logType string, messageParts ...string) {
	// no logging enabled
	if !(logger.MethodSTDOUT || logger.MethodSTDERR || logger.MethodFile.Enabled) {
		return
	}

	// ensure we're logging to the given level
	if level < logger.Level {
		return
	}

	// ensure we're capturing this logType
	capturing := (logger.Types["*"] || logger.Types[logType]) && !logger.ExcludedTypes["*"] && !logger.ExcludedTypes[logType]
	if !capturing {
		return
	}

	// assemble full line

	var rawBuf bytes.Buffer
	// XXX magic number here: 8 is len("factoids"), the longest log category name
	// in current use. it's not a big deal if this number gets out of date.
	fmt.Fprintf(&rawBuf, "%s : %-5s : %-8s : ", time.Now().UTC().Format("2006-01-02T15:04:05.000Z"), LogLevelDisplayNames[level], logType)
	for i, p := range messageParts {
		rawBuf.WriteString(p)

		if i != len(messageParts)-1 {
			rawBuf.WriteString(" : ")
		}
	}
	rawBuf.WriteRune('\n')

	// output
	manager := logger.manager
	if logger.MethodSTDOUT {
		manager.stdLock.Lock()
		manager.stdout.Write(rawBuf.Bytes())
		manager.stdLock.Unlock()
	}
	if logger.MethodSTDERR {
		manager.stdLock.Lock()
		manager.stderr.Write(rawBuf.Bytes())
		manager.stdLock.Unlock()
	}
	if logger.MethodFile.Enabled {
		manager.fileLock.Lock()
		logger.MethodFile.Writer.Write(rawBuf.Bytes())
		logger.MethodFile.Writer.Flush()
		manager.fileLock.Unlock()
	}
}
