//go:build !unix

package supervise

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"evr/core/execution"
)

const DefaultTimeout = time.Second

type Options struct {
	Timeout time.Duration
	Dir     string
	Env     []string
	Stdin   *os.File
	Stdout  *os.File
	Stderr  *os.File
	Logger  *slog.Logger
}

type Supervisor struct {
	opts Options
}

type Result struct {
	PID     int
	Outcome execution.Outcome
}

func New(opts Options) *Supervisor {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Supervisor{opts: opts}
}

func (s *Supervisor) Timeout() time.Duration { return s.opts.Timeout }

// Run is unavailable without wait4.
func (s *Supervisor) Run(argv []string) (Result, error) {
	return Result{}, execution.SuperviseError("spawn", "", errors.New("process supervision requires a unix platform"))
}
