//go:build unix && !linux

package supervise

import (
	"sync"

	"golang.org/x/sys/unix"
)

// reaper without waitid. wait4 blocks and reaps in one step, so a deadline
// kill that lands between the reap and reaped=true signals a process group
// whose id the kernel has already released. Linux avoids this with WNOWAIT.
type reaper struct {
	pid    int
	mu     sync.Mutex
	reaped bool
}

func newReaper(pid int) *reaper {
	return &reaper{pid: pid}
}

func (r *reaper) wait() (unix.WaitStatus, unix.Rusage, error) {
	status, ru, err := wait4(r.pid)
	if err == nil {
		r.mu.Lock()
		r.reaped = true
		r.mu.Unlock()
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
