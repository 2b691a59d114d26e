// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"fmt"
	"math"
)

// Duration is a sound length in seconds.
type Duration float64

// MinutesSeconds is a duration split for display.
type MinutesSeconds struct {
	Minutes int
	Seconds int
}

func (d Duration) Seconds() float64 { return float64(d) }

// Split rounds down to whole seconds.
func (d Duration) Split() MinutesSeconds {
	total := int(math.Floor(float64(d)))
	return MinutesSeconds{Minutes: total / 60, Seconds: total % 60}
}

// String renders mm:ss.
func (d Duration) String() string {
	ms := d.Split()
	return fmt.Sprintf("%02d:%02d", ms.Minutes, ms.Seconds)
}
