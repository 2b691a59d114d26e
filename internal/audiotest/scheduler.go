// SPDX-License-Identifier: EPL-2.0

package audiotest

import "github.com/ik5/audroute/timing"

// Scheduler is a timing.Scheduler driven by Advance instead of the wall clock.
type Scheduler = timing.Stepped

func NewScheduler() *Scheduler {
	return timing.NewStepped()
}
