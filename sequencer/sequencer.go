// SPDX-License-Identifier: EPL-2.0

package sequencer

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ik5/audroute/timing"
)

// Quarter is the default note fraction of a slot.
const Quarter = 0.25

// Target is what a sequence plays, e.g. a sound.Sampler or sound.Unit.
type Target interface {
	PlayIn(seconds float64) error
}

type options struct {
	logger *slog.Logger
	timers timing.Scheduler
	flash  float64
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithScheduler(s timing.Scheduler) Option {
	return func(o *options) { o.timers = s }
}

// WithFlash fixes how long beat flags stay on. By default they last one slot.
func WithFlash(seconds float64) Option {
	return func(o *options) { o.flash = seconds }
}

// Sequencer plays a target on a row of equally spaced slots.
type Sequencer struct {
	mu     sync.Mutex
	target Target
	beats  []*Beat
	timers timing.Scheduler
	flash  float64
	logger *slog.Logger
}

func New(target Target, numBeats int, opts ...Option) *Sequencer {
	o := options{logger: slog.Default(), timers: timing.Wall{}}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Sequencer{
		target: target,
		timers: o.timers,
		flash:  o.flash,
		logger: o.logger,
	}
	s.SetNumBeats(numBeats)
	return s
}

// SecondsPerSlot is the length of one slot: a quarter note lasts 60/bpm, so
// a note of fraction nf lasts 240*nf/bpm.
func SecondsPerSlot(bpm, noteFraction float64) (float64, error) {
	if bpm <= 0 || noteFraction <= 0 {
		return 0, fmt.Errorf("%w: bpm=%g note=%g", ErrInvalidTempo, bpm, noteFraction)
	}
	return 240 * noteFraction / bpm, nil
}

func (s *Sequencer) NumBeats() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.beats)
}

// SetNumBeats grows or shrinks the row in place. Existing slots keep their
// active flags; only trailing slots are added or dropped.
func (s *Sequencer) SetNumBeats(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n = max(n, 0)
	if n <= len(s.beats) {
		s.beats = s.beats[:n:n]
		return
	}
	for len(s.beats) < n {
		s.beats = append(s.beats, NewBeat(s, s.timers, s.flash))
	}
}

func (s *Sequencer) Beats() []*Beat {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*Beat(nil), s.beats...)
}

func (s *Sequencer) Beat(i int) (*Beat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.beats) {
		return nil, fmt.Errorf("%w: %d of %d", ErrSlotRange, i, len(s.beats))
	}
	return s.beats[i], nil
}

// Toggle flips slot i and returns its new active flag.
func (s *Sequencer) Toggle(i int) (bool, error) {
	b, err := s.Beat(i)
	if err != nil {
		return false, err
	}
	return b.Toggle(), nil
}

// Pattern renders the active flags, 'x' for active and '.' for rest.
func (s *Sequencer) Pattern() string {
	var sb strings.Builder
	for _, b := range s.Beats() {
		if b.IsActive() {
			sb.WriteByte('x')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// SetPattern resizes the row to len(p) and sets every slot from p.
func (s *Sequencer) SetPattern(p string) error {
	if strings.Trim(p, "x.") != "" {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, p)
	}

	s.SetNumBeats(len(p))
	for i, b := range s.Beats() {
		b.SetActive(p[i] == 'x')
	}
	return nil
}

// Offsets lists each slot's start, relative to now.
func (s *Sequencer) Offsets(bpm, noteFraction float64) ([]float64, error) {
	sps, err := SecondsPerSlot(bpm, noteFraction)
	if err != nil {
		return nil, err
	}

	offsets := make([]float64, s.NumBeats())
	for i := range offsets {
		offsets[i] = float64(i) * sps
	}
	return offsets, nil
}

// PlayAllSlots plays every slot, active or not.
func (s *Sequencer) PlayAllSlots(bpm, noteFraction float64) error {
	return s.PlayAllSlotsIn(0, bpm, noteFraction)
}

// PlayActiveSlots plays the active slots. Rests still move the play head.
func (s *Sequencer) PlayActiveSlots(bpm, noteFraction float64) error {
	return s.PlayActiveSlotsIn(0, bpm, noteFraction)
}

// PlayAllSlotsIn is PlayAllSlots with the row starting delay seconds from
// now, e.g. to queue the next bar.
func (s *Sequencer) PlayAllSlotsIn(delay, bpm, noteFraction float64) error {
	return s.run(delay, bpm, noteFraction, (*Beat).UnconditionalActivate)
}

func (s *Sequencer) PlayActiveSlotsIn(delay, bpm, noteFraction float64) error {
	return s.run(delay, bpm, noteFraction, (*Beat).GatedActivate)
}

// BarSeconds is the length of the whole row at a tempo.
func (s *Sequencer) BarSeconds(bpm, noteFraction float64) (float64, error) {
	sps, err := SecondsPerSlot(bpm, noteFraction)
	if err != nil {
		return 0, err
	}
	return sps * float64(s.NumBeats()), nil
}

func (s *Sequencer) run(delay, bpm, noteFraction float64, activate func(*Beat, float64) error) error {
	sps, err := SecondsPerSlot(bpm, noteFraction)
	if err != nil {
		return err
	}

	flashFor := s.flash
	if flashFor <= 0 {
		flashFor = sps
	}

	for i, b := range s.Beats() {
		b.SetDuration(flashFor)
		offset := delay + float64(i)*sps
		if err := activate(b, offset); err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
	}
	s.logger.Debug("sequence scheduled", "bpm", bpm, "note", noteFraction, "delay", delay, "slots", s.NumBeats(), "seconds_per_slot", sps)

	return nil
}

// PlayGated and PlayAlways make the sequencer the Trigger of its beats.
func (s *Sequencer) PlayGated(offset float64) error {
	s.logger.Debug("slot activation", "offset", offset, "gated", true)
	return s.target.PlayIn(offset)
}

func (s *Sequencer) PlayAlways(offset float64) error {
	s.logger.Debug("slot activation", "offset", offset, "gated", false)
	return s.target.PlayIn(offset)
}
