package supervise

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestAwaitReturnsResultBeforeDeadline(t *testing.T) {
	var cancelled atomic.Bool
	res, elapsed, timedOut := Await(time.Second, func() int { return 42 }, func() { cancelled.Store(true) })
	if timedOut {
		t.Fatal("unexpected timeout")
	}
	if res != 42 {
		t.Fatalf("result %d", res)
	}
	if elapsed >= time.Second {
		t.Fatalf("elapsed %v", elapsed)
	}
	if cancelled.Load() {
		t.Fatal("cancel should not run when op finishes in time")
	}
}

func TestAwaitCancelsAndWaitsForOp(t *testing.T) {
	release := make(chan struct{})
	var finished atomic.Bool

	op := func() string {
		<-release
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
		return "reaped"
	}
	cancel := func() { close(release) }

	res, elapsed, timedOut := Await(50*time.Millisecond, op, cancel)
	if !timedOut {
		t.Fatal("expected timeout")
	}
	if !finished.Load() {
		t.Fatal("Await returned before op completed")
	}
	if res != "reaped" {
		t.Fatalf("result %q", res)
	}
	if elapsed < 50*time.Millisecond || elapsed > 500*time.Millisecond {
		t.Fatalf("elapsed %v not close to deadline", elapsed)
	}
}

func TestAwaitWithoutDeadline(t *testing.T) {
	res, _, timedOut := Await(0, func() bool {
		time.Sleep(10 * time.Millisecond)
		return true
	}, func() { t.Error("cancel called without a deadline") })
	if timedOut || !res {
		t.Fatalf("res=%v timedOut=%v", res, timedOut)
	}
}
