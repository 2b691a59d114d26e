// SPDX-License-Identifier: EPL-2.0

package timing

import (
	"cmp"
	"slices"
	"sync"
)

type pending struct {
	at  float64
	seq int
	fn  func()
}

// Stepped is a Scheduler whose time only moves through Advance, e.g. once per
// rendered block of an offline bounce. Callbacks run on the caller of
// Advance.
type Stepped struct {
	mu      sync.Mutex
	now     float64
	seq     int
	pending []pending
}

func NewStepped() *Stepped {
	return &Stepped{}
}

func (s *Stepped) After(seconds float64, fn func()) {
	if seconds <= 0 {
		fn()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.pending = append(s.pending, pending{at: s.now + seconds, seq: s.seq, fn: fn})
}

// Advance moves time forward and runs every callback that falls due, in time
// order. Callbacks scheduled while advancing run too if they are due.
func (s *Stepped) Advance(seconds float64) {
	s.mu.Lock()
	target := s.now + seconds
	s.mu.Unlock()

	for {
		s.mu.Lock()
		slices.SortStableFunc(s.pending, func(a, b pending) int {
			if c := cmp.Compare(a.at, b.at); c != 0 {
				return c
			}
			return cmp.Compare(a.seq, b.seq)
		})
		if len(s.pending) == 0 || s.pending[0].at > target+1e-9 {
			s.now = target
			s.mu.Unlock()
			return
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.now = next.at
		s.mu.Unlock()

		next.fn()
	}
}

// Now is the time reached by Advance so far.
func (s *Stepped) Now() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.now
}

// Pending counts callbacks that have not run yet.
func (s *Stepped) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}
