package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// Charm adapts charmbracelet/log to the Logger interface. It is a
// ready-made backend for programs built on this module; library
// callers are free to supply their own Logger instead.
type Charm struct {
	l *log.Logger
}

// NewCharm builds a Charm logger writing to stderr at the given level
// ("debug", "info", "warn", "error"; anything else defaults to info).
func NewCharm(level string) *Charm {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "simplerdc",
	})
	l.SetLevel(parseLevel(level))
	return &Charm{l: l}
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func (c *Charm) Debug(msg string, kv ...any) { c.l.Debug(msg, kv...) }
func (c *Charm) Info(msg string, kv ...any)  { c.l.Info(msg, kv...) }
func (c *Charm) Warn(msg string, kv ...any)  { c.l.Warn(msg, kv...) }
func (c *Charm) Error(msg string, kv ...any) { c.l.Error(msg, kv...) }
