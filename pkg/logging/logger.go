package logging

import (
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-logger/glog"
)

// Logger is the logging contract shared by the builder, the fill session and
// the storage adapters. Messages are printf-style.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config selects the go-logger backend settings.
type Config struct {
	Level  string
	Format string
	Writer io.Writer
}

// New builds a glog logger from cfg. Format "json" selects the JSON encoder;
// anything else keeps the default console output.
func New(cfg Config) Logger {
	out := cfg.Writer
	if out == nil {
		out = os.Stderr
	}
	level := strings.TrimSpace(cfg.Level)
	if level == "" {
		level = "info"
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "json") {
		return glog.NewLogger(
			glog.WithWriter(out),
			glog.WithLoggerTypeJSON(),
			glog.WithLevel(level),
		)
	}
	return glog.NewLogger(
		glog.WithWriter(out),
		glog.WithLevel(level),
	)
}

// Nop discards every message.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// OrNop returns logger, or a discarding logger when it is nil.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return Nop()
	}
	return logger
}
