// SPDX-License-Identifier: EPL-2.0

package sequencer

import (
	"sync"

	"github.com/ik5/audroute/timing"
)

// Trigger is the playback capability a beat borrows from its owner.
type Trigger interface {
	// PlayGated plays for a beat that passed its active check.
	PlayGated(offset float64) error
	// PlayAlways plays regardless of the beat's active flag.
	PlayAlways(offset float64) error
}

// flash is a flag that turns on after a delay and off again after a while.
// gen identifies the most recent turn-on so an old reset cannot clear a
// newer flash.
type flash struct {
	on  bool
	gen uint64
}

// Beat is one slot of a sequence.
type Beat struct {
	mu       sync.Mutex
	owner    Trigger
	timers   timing.Scheduler
	duration float64
	active   bool
	playing  flash
	current  flash
}

func NewBeat(owner Trigger, timers timing.Scheduler, duration float64) *Beat {
	return &Beat{owner: owner, timers: timers, duration: duration}
}

func (b *Beat) IsActive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.active
}

func (b *Beat) SetActive(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.active = v
}

// Toggle flips the active flag and returns the new value.
func (b *Beat) Toggle() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.active = !b.active
	return b.active
}

// IsPlaying is set while the beat is sounding.
func (b *Beat) IsPlaying() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.playing.on
}

// CurrentTimeIsPlaying is set while the play head is on this slot, sounding
// or not.
func (b *Beat) CurrentTimeIsPlaying() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.current.on
}

// Duration is how long the flags stay set after they flip on.
func (b *Beat) Duration() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.duration
}

func (b *Beat) SetDuration(seconds float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.duration = seconds
}

// GatedActivate plays the beat at offset if it is active. The play head
// flag moves either way.
func (b *Beat) GatedActivate(offset float64) error {
	if b.IsActive() {
		if err := b.owner.PlayGated(offset); err != nil {
			return err
		}
		b.flashAt(&b.playing, offset)
	}
	b.flashAt(&b.current, offset)
	return nil
}

// UnconditionalActivate plays the beat at offset whatever its active flag,
// e.g. to preview it.
func (b *Beat) UnconditionalActivate(offset float64) error {
	if err := b.owner.PlayAlways(offset); err != nil {
		return err
	}
	b.flashAt(&b.playing, offset)
	b.flashAt(&b.current, offset)
	return nil
}

func (b *Beat) flashAt(f *flash, offset float64) {
	b.timers.After(offset, func() {
		b.mu.Lock()
		f.on = true
		f.gen++
		gen, d := f.gen, b.duration
		b.mu.Unlock()

		b.timers.After(d, func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			if f.gen == gen {
				f.on = false
			}
		})
	})
}
