// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/ik5/audroute/utils"
)

// Sampler round-robins play requests across a pool of interchangeable units,
// e.g. several recordings of the same hit.
//
// The cursor walks a snapshot of the pool. Only when the snapshot is used up
// is a new one taken, so every unit plays once per pass and additions or
// removals take effect at the next pass. Units removed mid-pass are skipped.
type Sampler struct {
	mu     sync.Mutex
	units  []*Unit
	index  map[*Unit]int
	cursor []*Unit
	gain   float64
	pan    float64
	logger *slog.Logger
}

func NewSampler(units []*Unit, opts ...Option) *Sampler {
	o := collect(opts)
	s := &Sampler{
		index:  make(map[*Unit]int),
		gain:   1,
		logger: o.logger,
	}
	s.Add(units...)
	return s
}

// Add puts units in the pool. Units already present are ignored.
func (s *Sampler) Add(units ...*Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range units {
		if _, ok := s.index[u]; ok || u == nil {
			continue
		}
		s.index[u] = len(s.units)
		s.units = append(s.units, u)
	}
}

func (s *Sampler) Remove(u *Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[u]
	if !ok {
		return
	}
	s.units = append(s.units[:i], s.units[i+1:]...)
	delete(s.index, u)
	for j := i; j < len(s.units); j++ {
		s.index[s.units[j]] = j
	}
}

func (s *Sampler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.units)
}

// SetGain sets the ratio applied to whichever unit plays next.
func (s *Sampler) SetGain(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gain = utils.WithinRange(v, 0, 1)
}

// SetPan sets the pan applied to whichever unit plays next.
func (s *Sampler) SetPan(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pan = utils.WithinRange(v, -1, 1)
}

// Next draws the next unit of the rotation.
func (s *Sampler) Next() (*Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.next()
}

func (s *Sampler) next() (*Unit, error) {
	for pass := 0; pass < 2; pass++ {
		for len(s.cursor) > 0 {
			u := s.cursor[0]
			s.cursor = s.cursor[1:]
			if _, ok := s.index[u]; ok {
				return u, nil
			}
		}
		// exhausted: start a fresh pass over the current pool
		s.cursor = append([]*Unit(nil), s.units...)
	}
	return nil, ErrEmptyPool
}

// draw picks the next unit and applies the sampler's gain and pan to it.
func (s *Sampler) draw() (*Unit, error) {
	s.mu.Lock()
	u, err := s.next()
	gain, pan := s.gain, s.pan
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if err := u.ChangeGainTo(gain).From(Ratio); err != nil {
		return nil, err
	}
	u.ChangePanTo(pan)
	s.logger.Debug("sampler draw", "duration", u.Duration().String(), "gain", gain, "pan", pan)

	return u, nil
}

func (s *Sampler) Play() error {
	u, err := s.draw()
	if err != nil {
		return err
	}
	return u.Play()
}

func (s *Sampler) PlayAt(t float64) error {
	u, err := s.draw()
	if err != nil {
		return err
	}
	return u.PlayAt(t)
}

func (s *Sampler) PlayIn(seconds float64) error {
	u, err := s.draw()
	if err != nil {
		return err
	}
	return u.PlayIn(seconds)
}

func (s *Sampler) PlayFor(seconds float64) error {
	u, err := s.draw()
	if err != nil {
		return err
	}
	return u.PlayFor(seconds)
}

func (s *Sampler) PlayInAndStopAfter(in, seconds float64) error {
	u, err := s.draw()
	if err != nil {
		return err
	}
	return u.PlayInAndStopAfter(in, seconds)
}

func (s *Sampler) snapshot() []*Unit {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*Unit(nil), s.units...)
}

// Stop stops every unit in the pool; any of them may still be sounding.
func (s *Sampler) Stop() error {
	var errs []error
	for _, u := range s.snapshot() {
		errs = append(errs, u.Stop())
	}
	return errors.Join(errs...)
}

func (s *Sampler) StopAt(t float64) error {
	var errs []error
	for _, u := range s.snapshot() {
		errs = append(errs, u.StopAt(t))
	}
	return errors.Join(errs...)
}

func (s *Sampler) StopIn(seconds float64) error {
	var errs []error
	for _, u := range s.snapshot() {
		errs = append(errs, u.StopIn(seconds))
	}
	return errors.Join(errs...)
}

// IsPlaying reports whether any unit in the pool is playing.
func (s *Sampler) IsPlaying() bool {
	for _, u := range s.snapshot() {
		if u.IsPlaying() {
			return true
		}
	}
	return false
}
