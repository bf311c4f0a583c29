package backend

import (
	"log/slog"
	"os"
	"time"

	"evr/core/buildcache"
	"evr/core/execution"
	"evr/core/supervise"
)

// DefaultTimeout is the run deadline when a backend's settings leave it unset.
const DefaultTimeout = time.Second

// Backend turns a source file of one language into a supervised run.
type Backend interface {
	Name() string
	// Template returns scaffold text for a new file; ok is false when none is configured.
	Template() (text string, ok bool)
	Run(source string) (execution.Outcome, error)
}

// Settings is the per-language configuration loaded from .evr.
type Settings struct {
	Template   *string
	ExtraArgs  []string
	Executable string
	Timeout    time.Duration
}

// TemplateText returns the configured template, if any.
func (s Settings) TemplateText() (string, bool) {
	if s.Template == nil {
		return "", false
	}
	return *s.Template, true
}

// Env carries the per-invocation dependencies shared by every backend.
type Env struct {
	Cache  *buildcache.Cache
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
	Logger *slog.Logger
}

// Supervisor builds a supervisor honouring the settings' timeout.
func (e Env) Supervisor(s Settings) *supervise.Supervisor {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return supervise.New(supervise.Options{
		Timeout: timeout,
		Stdin:   e.Stdin,
		Stdout:  e.Stdout,
		Stderr:  e.Stderr,
		Logger:  e.Log(),
	})
}

// Log returns the configured logger or slog.Default.
func (e Env) Log() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}
