// Package diag provides the leveled diagnostics sink shared by all pipeline
// components. Components never log through a package-level logger; a Logger
// is injected at construction time so callers control where output goes.
package diag

import (
	"log"
	"os"
)

// Logger is the diagnostics sink accepted by every component constructor.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Level controls which messages a Standard logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Standard writes to a stdlib log.Logger, filtering by level.
type Standard struct {
	logger *log.Logger
	level  Level
}

// NewStandard returns a Logger writing to stderr at the given level.
// Stderr keeps diagnostics out of any structured output on stdout.
func NewStandard(level Level) *Standard {
	return &Standard{
		logger: log.New(os.Stderr, "", log.Ldate|log.Ltime),
		level:  level,
	}
}

func (s *Standard) Debugf(format string, args ...interface{}) {
	if s.level <= LevelDebug {
		s.logger.Printf("DEBUG "+format, args...)
	}
}

func (s *Standard) Infof(format string, args ...interface{}) {
	if s.level <= LevelInfo {
		s.logger.Printf("INFO  "+format, args...)
	}
}

func (s *Standard) Warnf(format string, args ...interface{}) {
	if s.level <= LevelWarn {
		s.logger.Printf("WARN  "+format, args...)
	}
}

func (s *Standard) Errorf(format string, args ...interface{}) {
	if s.level <= LevelError {
		s.logger.Printf("ERROR "+format, args...)
	}
}

// Nop discards all messages. Useful in tests and as a constructor default.
type Nop struct{}

func (Nop) Debugf(string, ...interface{}) {}
func (Nop) Infof(string, ...interface{})  {}
func (Nop) Warnf(string, ...interface{})  {}
func (Nop) Errorf(string, ...interface{}) {}
