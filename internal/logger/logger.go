package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/streakly/internal/constants"
)

// Logger is the global logger; nil until Init, in which case every helper is a no-op.
var Logger *log.Logger

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
	// Level overrides the default (warn, or debug with Debug set). One of
	// debug, info, warn, error.
	Level string
}

// Init opens <ConfigDir>/logs/streakly.log (rotated by lumberjack) and
// installs the global logger.
func Init(cfg Config) error {
	level, err := resolveLevel(cfg)
	if err != nil {
		return err
	}

	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.AppName+".log"),
		MaxSize:    5, // megabytes
		MaxBackups: 2,
		MaxAge:     14, // days
		Compress:   true,
	}

	// The TUI owns stdout and `run` redraws its clock line, so stderr only
	// gets a copy in debug mode
	var writer io.Writer = fileWriter
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

func resolveLevel(cfg Config) (log.Level, error) {
	if cfg.Level != "" {
		level, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return 0, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		return level, nil
	}
	if cfg.Debug {
		return log.DebugLevel, nil
	}
	return log.WarnLevel, nil
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Scope carries fixed key/value pairs that are prepended to every record.
// It looks up the global logger on each call, so a Scope created before
// Init still logs once Init has run.
type Scope struct {
	keyvals []interface{}
}

// With returns a Scope that tags every record with keyvals.
func With(keyvals ...interface{}) Scope {
	return Scope{keyvals: keyvals}
}

// Habit returns a Scope tagged with a habit id.
func Habit(habitID string) Scope {
	return With("habit", habitID)
}

// With returns a copy of s with more pairs appended.
func (s Scope) With(keyvals ...interface{}) Scope {
	merged := make([]interface{}, 0, len(s.keyvals)+len(keyvals))
	merged = append(merged, s.keyvals...)
	merged = append(merged, keyvals...)
	return Scope{keyvals: merged}
}

func (s Scope) join(keyvals []interface{}) []interface{} {
	if len(s.keyvals) == 0 {
		return keyvals
	}
	return s.With(keyvals...).keyvals
}

func (s Scope) Debug(msg string, keyvals ...interface{}) { Debug(msg, s.join(keyvals)...) }
func (s Scope) Info(msg string, keyvals ...interface{})  { Info(msg, s.join(keyvals)...) }
func (s Scope) Warn(msg string, keyvals ...interface{})  { Warn(msg, s.join(keyvals)...) }
func (s Scope) Error(msg string, keyvals ...interface{}) { Error(msg, s.join(keyvals)...) }
