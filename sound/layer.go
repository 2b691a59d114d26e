// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"errors"
	"sync"
)

// Seeker can move its play position.
type Seeker interface {
	SeekTo(amount float64, s Scale) error
}

// Layer fans every call out to its members in order, e.g. stacked drum
// voices. Members schedule independently; the layer adds no coordination.
type Layer struct {
	mu      sync.Mutex
	members []Player
}

func NewLayer(members ...Player) *Layer {
	return &Layer{members: members}
}

func (l *Layer) Add(members ...Player) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.members = append(l.members, members...)
}

func (l *Layer) Members() []Player {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]Player(nil), l.members...)
}

func (l *Layer) each(fn func(Player) error) error {
	var errs []error
	for _, m := range l.Members() {
		errs = append(errs, fn(m))
	}
	return errors.Join(errs...)
}

func (l *Layer) Play() error {
	return l.each(func(p Player) error { return p.Play() })
}

func (l *Layer) PlayAt(t float64) error {
	return l.each(func(p Player) error { return p.PlayAt(t) })
}

func (l *Layer) PlayIn(seconds float64) error {
	return l.each(func(p Player) error { return p.PlayIn(seconds) })
}

func (l *Layer) PlayFor(seconds float64) error {
	return l.each(func(p Player) error { return p.PlayFor(seconds) })
}

func (l *Layer) PlayInAndStopAfter(in, seconds float64) error {
	return l.each(func(p Player) error { return p.PlayInAndStopAfter(in, seconds) })
}

func (l *Layer) Stop() error {
	return l.each(func(p Player) error { return p.Stop() })
}

func (l *Layer) StopAt(t float64) error {
	return l.each(func(p Player) error { return p.StopAt(t) })
}

func (l *Layer) StopIn(seconds float64) error {
	return l.each(func(p Player) error { return p.StopIn(seconds) })
}

// SeekTo moves every member that can seek.
func (l *Layer) SeekTo(amount float64, s Scale) error {
	return l.each(func(p Player) error {
		if sk, ok := p.(Seeker); ok {
			return sk.SeekTo(amount, s)
		}
		return nil
	})
}

func (l *Layer) IsPlaying() bool {
	for _, m := range l.Members() {
		if m.IsPlaying() {
			return true
		}
	}
	return false
}
