//go:build unix

package usage

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestFromRusageConvertsTimevals(t *testing.T) {
	ru := &unix.Rusage{
		Utime: unix.NsecToTimeval((1500 * time.Millisecond).Nanoseconds()),
		Stime: unix.NsecToTimeval((250 * time.Microsecond).Nanoseconds()),
	}
	ru.Maxrss = 2048
	ru.Minflt = 11
	ru.Majflt = 3
	ru.Inblock = 5
	ru.Oublock = 6
	ru.Nvcsw = 7
	ru.Nivcsw = 8

	got, err := FromRusage(ru)
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		if !errors.Is(err, ErrUnsupportedPlatform) {
			t.Fatalf("expected ErrUnsupportedPlatform, got %v", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("FromRusage: %v", err)
	}
	if got.UserTime != 1500*time.Millisecond {
		t.Fatalf("user time %v", got.UserTime)
	}
	if got.SystemTime != 250*time.Microsecond {
		t.Fatalf("system time %v", got.SystemTime)
	}
	if got.CPUTime() != 1500*time.Millisecond+250*time.Microsecond {
		t.Fatalf("cpu time %v", got.CPUTime())
	}
	if got.MinorFaults != 11 || got.MajorFaults != 3 {
		t.Fatalf("faults %d/%d", got.MinorFaults, got.MajorFaults)
	}
	if got.InBlock != 5 || got.OutBlock != 6 {
		t.Fatalf("block io %d/%d", got.InBlock, got.OutBlock)
	}
	if got.VoluntaryCtx != 7 || got.InvoluntaryCtx != 8 {
		t.Fatalf("context switches %d/%d", got.VoluntaryCtx, got.InvoluntaryCtx)
	}
}

func TestFromRusageNormalizesMaxRSS(t *testing.T) {
	ru := &unix.Rusage{}
	ru.Maxrss = 2048

	got, err := FromRusage(ru)
	switch runtime.GOOS {
	case "linux":
		if err != nil {
			t.Fatalf("FromRusage: %v", err)
		}
		if got.MaxRSS != 2048*1000 {
			t.Fatalf("max rss %d bytes", got.MaxRSS)
		}
		if got.MaxRSSKB() != 2048 {
			t.Fatalf("max rss %dK", got.MaxRSSKB())
		}
	case "darwin":
		if err != nil {
			t.Fatalf("FromRusage: %v", err)
		}
		if got.MaxRSS != 2048 {
			t.Fatalf("max rss %d bytes", got.MaxRSS)
		}
	default:
		if !errors.Is(err, ErrUnsupportedPlatform) {
			t.Fatalf("expected ErrUnsupportedPlatform, got %v", err)
		}
	}
}

func TestFromRusageNil(t *testing.T) {
	if _, err := FromRusage(nil); err == nil {
		t.Fatal("expected error for nil rusage")
	}
}
