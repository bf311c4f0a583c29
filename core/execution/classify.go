package execution

import (
	"fmt"
	"syscall"
	"time"

	"evr/core/usage"
)

// WaitStatus is the subset of a raw wait status the classifier reads.
// syscall.WaitStatus and unix.WaitStatus both satisfy it.
type WaitStatus interface {
	Exited() bool
	ExitStatus() int
	Signaled() bool
	Signal() syscall.Signal
	CoreDump() bool
}

// Classify maps a reaped wait status to an Outcome. Statuses that are neither
// an exit nor a termination signal produce a supervision error.
func Classify(status WaitStatus, u usage.Usage, wall time.Duration) (Outcome, error) {
	switch {
	case status.Exited() && status.ExitStatus() == 0:
		return Success{Usage: u, WallTime: wall}, nil
	case status.Exited():
		return ExitCode{Code: status.ExitStatus(), Usage: u, WallTime: wall}, nil
	case status.Signaled():
		return Signaled{
			Signal:     status.Signal(),
			CoreDumped: status.CoreDump(),
			Usage:      u,
			WallTime:   wall,
		}, nil
	default:
		return nil, SuperviseError("classify", "", fmt.Errorf("%w: status %#x", ErrNotExited, status))
	}
}
