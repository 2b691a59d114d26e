// SPDX-License-Identifier: EPL-2.0

package utils

// WithinRange pins v to [min, max]. Values inside the range pass through
// unchanged.
func WithinRange(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
