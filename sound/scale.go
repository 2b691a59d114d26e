// SPDX-License-Identifier: EPL-2.0

package sound

import "fmt"

// Scale says how a gain or seek amount is expressed.
type Scale int

const (
	// Ratio is a fraction in [0,1].
	Ratio Scale = iota
	// InverseRatio counts from the other end: 1-value.
	InverseRatio
	// Percent is a value in [0,100].
	Percent
	// Seconds is an absolute position. Only seeking accepts it.
	Seconds
)

func (s Scale) String() string {
	switch s {
	case Ratio:
		return "ratio"
	case InverseRatio:
		return "inverse-ratio"
	case Percent:
		return "percent"
	case Seconds:
		return "seconds"
	}
	return fmt.Sprintf("Scale(%d)", int(s))
}

// fraction converts amount to a fraction of the whole.
func (s Scale) fraction(amount float64) (float64, error) {
	switch s {
	case Ratio:
		return amount, nil
	case InverseRatio:
		return 1 - amount, nil
	case Percent:
		return amount / 100, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedScale, s)
}
