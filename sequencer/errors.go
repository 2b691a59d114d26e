// SPDX-License-Identifier: EPL-2.0

package sequencer

import "errors"

var (
	ErrInvalidTempo   = errors.New("bpm and note fraction must be positive")
	ErrInvalidPattern = errors.New("pattern may only contain 'x' and '.'")
	ErrSlotRange      = errors.New("slot index out of range")
)
