// Package usage converts the rusage block returned by wait4 into a portable form.
package usage

import (
	"errors"
	"time"
)

// ErrUnsupportedPlatform is returned when the platform's ru_maxrss unit is unknown.
var ErrUnsupportedPlatform = errors.New("usage: ru_maxrss unit unknown on this platform")

// Usage is the resource consumption of a reaped child.
type Usage struct {
	UserTime   time.Duration
	SystemTime time.Duration
	// MaxRSS is the peak resident set size in bytes.
	MaxRSS int64

	SharedMemory   int64 // ru_ixrss
	UnsharedData   int64 // ru_idrss
	UnsharedStack  int64 // ru_isrss
	MinorFaults    int64
	MajorFaults    int64
	Swaps          int64
	InBlock        int64
	OutBlock       int64
	MsgSent        int64
	MsgReceived    int64
	Signals        int64
	VoluntaryCtx   int64
	InvoluntaryCtx int64
}

// CPUTime is user plus system time.
func (u Usage) CPUTime() time.Duration {
	return u.UserTime + u.SystemTime
}

// MaxRSSKB returns the peak resident set size in kilobytes.
func (u Usage) MaxRSSKB() int64 {
	return u.MaxRSS / 1000
}
