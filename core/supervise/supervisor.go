//go:build unix

package supervise

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"evr/core/execution"
	"evr/core/usage"
)

// DefaultTimeout applies when Options.Timeout is zero.
const DefaultTimeout = time.Second

// Options configures a Supervisor. Stdio fields must be files so the child
// inherits them directly and no copy goroutines outlive the reap.
type Options struct {
	Timeout time.Duration
	Dir     string
	Env     []string
	Stdin   *os.File
	Stdout  *os.File
	Stderr  *os.File
	Logger  *slog.Logger
}

// Supervisor spawns one child per Run and never leaves it unreaped.
type Supervisor struct {
	opts Options
}

// Result is what Run reports for a child that was spawned.
type Result struct {
	PID     int
	Outcome execution.Outcome
}

func New(opts Options) *Supervisor {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Supervisor{opts: opts}
}

func (s *Supervisor) Timeout() time.Duration { return s.opts.Timeout }

type reapResult struct {
	status unix.WaitStatus
	usage  unix.Rusage
	wall   time.Duration
	err    error
}

// Run executes argv and blocks until it terminates or the timeout fires.
// Target-program failures are reported through Result.Outcome; the error is
// reserved for failures to spawn, wait on or classify the child.
func (s *Supervisor) Run(argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, execution.SuperviseError("spawn", "", errors.New("no command provided"))
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = s.opts.Dir
	if len(s.opts.Env) > 0 {
		cmd.Env = s.opts.Env
	}
	cmd.Stdin = s.opts.Stdin
	cmd.Stdout = s.opts.Stdout
	cmd.Stderr = s.opts.Stderr
	// The child leads its own process group so a deadline kill reaches its
	// descendants. On an interactive terminal the group must also own the
	// foreground for terminal reads and Ctrl-C to reach it.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	ttyFD, foreground := foregroundTerminal(s.opts.Stdin)
	if foreground {
		cmd.SysProcAttr.Foreground = true
		cmd.SysProcAttr.Ctty = ttyFD
		defer s.restoreTerminal(ttyFD)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, execution.SuperviseError("spawn", argv[0], err)
	}
	pid := cmd.Process.Pid
	// Reaping happens through wait4 below; os.Process only needs its handle released.
	defer cmd.Process.Release()

	r := newReaper(pid)
	res, elapsed, timedOut := Await(s.opts.Timeout, func() reapResult {
		status, ru, err := r.wait()
		return reapResult{status: status, usage: ru, wall: time.Since(start), err: err}
	}, func() {
		s.opts.Logger.Debug("deadline exceeded, killing process group", "pid", pid, "timeout", s.opts.Timeout)
		if err := r.kill(); err != nil {
			s.opts.Logger.Warn("kill failed", "pid", pid, "error", err)
		}
	})

	if res.err != nil {
		return Result{PID: pid}, execution.SuperviseError("wait", argv[0], res.err)
	}
	if timedOut {
		return Result{PID: pid, Outcome: execution.TimedOut{Elapsed: elapsed}}, nil
	}

	u, err := usage.FromRusage(&res.usage)
	if err != nil {
		return Result{PID: pid}, execution.SuperviseError("rusage", argv[0], err)
	}
	outcome, err := execution.Classify(res.status, u, res.wall)
	if err != nil {
		return Result{PID: pid}, err
	}
	s.opts.Logger.Debug("process reaped", "pid", pid, "outcome", outcome.String(), "wall", res.wall)
	return Result{PID: pid, Outcome: outcome}, nil
}

func (s *Supervisor) restoreTerminal(fd int) {
	if err := reclaimTerminal(fd); err != nil {
		s.opts.Logger.Warn("reclaim terminal failed", "fd", fd, "error", err)
	}
}

// wait4 retries on EINTR and panics if the kernel reaps a different child,
// which would mean the supervisor has lost track of its own process.
func wait4(pid int) (unix.WaitStatus, unix.Rusage, error) {
	var (
		status unix.WaitStatus
		ru     unix.Rusage
	)
	for {
		wpid, err := unix.Wait4(pid, &status, 0, &ru)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return status, ru, err
		}
		if wpid != pid {
			panic(fmt.Sprintf("supervise: wait4(%d) reaped pid %d", pid, wpid))
		}
		return status, ru, nil
	}
}

// killGroup sends SIGKILL to the child's process group so descendants die with it.
func killGroup(pid int) error {
	err := unix.Kill(-pid, unix.SIGKILL)
	if errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}
