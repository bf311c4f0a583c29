// Package supervise runs a child process to completion or to a deadline.
package supervise

import "time"

// Await runs op on its own goroutine and waits up to timeout for it to return.
// If the deadline fires first, cancel is called and Await keeps waiting for op,
// so resources op is responsible for are released exactly once. elapsed is the
// time at which op returned, or the time the deadline fired.
//
// A non-positive timeout waits without a deadline.
func Await[T any](timeout time.Duration, op func() T, cancel func()) (res T, elapsed time.Duration, timedOut bool) {
	start := time.Now()
	done := make(chan T, 1)
	go func() {
		done <- op()
	}()

	if timeout <= 0 {
		res = <-done
		return res, time.Since(start), false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res = <-done:
		return res, time.Since(start), false
	case <-timer.C:
		select {
		case res = <-done:
			return res, time.Since(start), false
		default:
		}
		elapsed = time.Since(start)
		cancel()
		res = <-done
		return res, elapsed, true
	}
}
