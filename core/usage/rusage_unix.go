//go:build unix

package usage

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// FromRusage is the only place raw rusage values are interpreted.
func FromRusage(ru *unix.Rusage) (Usage, error) {
	if ru == nil {
		return Usage{}, errors.New("usage: nil rusage")
	}
	maxRSS, err := normalizeMaxRSS(int64(ru.Maxrss))
	if err != nil {
		return Usage{}, err
	}
	return Usage{
		UserTime:       timeval(ru.Utime),
		SystemTime:     timeval(ru.Stime),
		MaxRSS:         maxRSS,
		SharedMemory:   int64(ru.Ixrss),
		UnsharedData:   int64(ru.Idrss),
		UnsharedStack:  int64(ru.Isrss),
		MinorFaults:    int64(ru.Minflt),
		MajorFaults:    int64(ru.Majflt),
		Swaps:          int64(ru.Nswap),
		InBlock:        int64(ru.Inblock),
		OutBlock:       int64(ru.Oublock),
		MsgSent:        int64(ru.Msgsnd),
		MsgReceived:    int64(ru.Msgrcv),
		Signals:        int64(ru.Nsignals),
		VoluntaryCtx:   int64(ru.Nvcsw),
		InvoluntaryCtx: int64(ru.Nivcsw),
	}, nil
}

func timeval(tv unix.Timeval) time.Duration {
	return time.Duration(tv.Nano())
}
