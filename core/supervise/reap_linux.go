//go:build linux

package supervise

import (
	"errors"
	"sync"

	"golang.org/x/sys/unix"
)

// reaper owns the single reap of one child. wait blocks in waitid with WNOWAIT
// until the child has exited, then reaps it under mu; kill takes the same lock,
// so a kill can never be sent after the pid has been released to the kernel.
type reaper struct {
	pid    int
	mu     sync.Mutex
	reaped bool
}

func newReaper(pid int) *reaper {
	return &reaper{pid: pid}
}

func (r *reaper) wait() (unix.WaitStatus, unix.Rusage, error) {
	var info unix.Siginfo
	for {
		err := unix.Waitid(unix.P_PID, r.pid, &info, unix.WEXITED|unix.WNOWAIT, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return 0, unix.Rusage{}, err
		}
		break
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	status, ru, err := wait4(r.pid)
	if err == nil {
		r.reaped = true
	}
	return status, ru, err
}

func (r *reaper) kill() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reaped {
		return nil
	}
	return killGroup(r.pid)
}
