package execution

import (
	"fmt"
	"syscall"
	"time"

	"evr/core/usage"
)

// Outcome is the terminal result of one supervised run. The set of
// implementations is closed: Success, ExitCode, TimedOut and Signaled.
type Outcome interface {
	outcome()
	String() string
}

// Success means the program exited with status 0.
type Success struct {
	Usage    usage.Usage
	WallTime time.Duration
}

// ExitCode means the program exited with a non-zero status.
type ExitCode struct {
	Code     int
	Usage    usage.Usage
	WallTime time.Duration
}

// TimedOut means the deadline fired and the program was killed.
type TimedOut struct {
	Elapsed time.Duration
}

// Signaled means the program was terminated by a signal.
type Signaled struct {
	Signal     syscall.Signal
	CoreDumped bool
	Usage      usage.Usage
	WallTime   time.Duration
}

func (Success) outcome()  {}
func (ExitCode) outcome() {}
func (TimedOut) outcome() {}
func (Signaled) outcome() {}

func (o Success) String() string { return "exited successfully" }

func (o ExitCode) String() string { return fmt.Sprintf("exited with code %d", o.Code) }

func (o TimedOut) String() string { return fmt.Sprintf("timed out after %v", o.Elapsed) }

func (o Signaled) String() string {
	if o.CoreDumped {
		return fmt.Sprintf("killed by signal %s (core dumped)", o.Signal)
	}
	return fmt.Sprintf("killed by signal %s", o.Signal)
}

// Measured returns the usage and wall time of an outcome that ran to completion.
// TimedOut carries no usage and reports ok=false.
func Measured(o Outcome) (u usage.Usage, wall time.Duration, ok bool) {
	switch v := o.(type) {
	case Success:
		return v.Usage, v.WallTime, true
	case ExitCode:
		return v.Usage, v.WallTime, true
	case Signaled:
		return v.Usage, v.WallTime, true
	default:
		return usage.Usage{}, 0, false
	}
}
