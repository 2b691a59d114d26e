// SPDX-License-Identifier: EPL-2.0

// Package timing runs best-effort deferred callbacks. They only drive
// observable state such as playing flags; audio itself is scheduled sample
// accurately by the native layer.
package timing

import "time"

// Scheduler runs fn once, roughly seconds from now. Scheduled callbacks cannot
// be retracted.
type Scheduler interface {
	After(seconds float64, fn func())
}

// Wall schedules on the host's wall clock. Callbacks run on their own
// goroutine.
type Wall struct{}

func (Wall) After(seconds float64, fn func()) {
	if seconds <= 0 {
		fn()
		return
	}
	time.AfterFunc(Seconds(seconds), fn)
}

// Seconds converts a floating point second count to a time.Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
