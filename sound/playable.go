// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ik5/audroute/graph"
	"github.com/ik5/audroute/timing"
)

// Player is the scheduling contract shared by units, samplers and layers.
// Times are context seconds.
type Player interface {
	Play() error
	PlayAt(t float64) error
	PlayIn(seconds float64) error
	PlayFor(seconds float64) error
	PlayInAndStopAfter(in, seconds float64) error
	Stop() error
	StopAt(t float64) error
	StopIn(seconds float64) error
	IsPlaying() bool
}

// Clock reports the native context time.
type Clock interface {
	CurrentTime() float64
}

// Playable schedules a graph's source and publishes whether it is playing.
//
// Every call reads the clock once and schedules both the native start/stop
// and the flag change from that single reading. Nothing scheduled can be
// retracted: a later call adds events, it never cancels earlier ones.
type Playable struct {
	mu          sync.Mutex
	graph       *graph.Graph
	clock       Clock
	timers      timing.Scheduler
	logger      *slog.Logger
	playing     bool
	startedAt   float64
	startOffset float64
	listeners   []func(bool)

	// gen moves on every activation and seek. A scheduled stop clears the
	// offset only if gen has not moved since the stop was queued.
	gen uint64
}

func NewPlayable(clock Clock, g *graph.Graph, opts ...Option) *Playable {
	o := collect(opts)
	return &Playable{
		graph:  g,
		clock:  clock,
		timers: o.timers,
		logger: o.logger,
	}
}

func (p *Playable) Graph() *graph.Graph { return p.graph }

func (p *Playable) Play() error {
	now := p.clock.CurrentTime()
	return p.playAt(now, now)
}

func (p *Playable) PlayAt(t float64) error {
	return p.playAt(p.clock.CurrentTime(), t)
}

func (p *Playable) PlayIn(seconds float64) error {
	now := p.clock.CurrentTime()
	return p.playAt(now, now+seconds)
}

func (p *Playable) PlayFor(seconds float64) error {
	now := p.clock.CurrentTime()
	if err := p.playAt(now, now); err != nil {
		return err
	}
	return p.stopAt(now, now+seconds)
}

func (p *Playable) PlayInAndStopAfter(in, seconds float64) error {
	now := p.clock.CurrentTime()
	if err := p.playAt(now, now+in); err != nil {
		return err
	}
	return p.stopAt(now, now+in+seconds)
}

func (p *Playable) Stop() error {
	now := p.clock.CurrentTime()
	return p.stopAt(now, now)
}

func (p *Playable) StopAt(t float64) error {
	return p.stopAt(p.clock.CurrentTime(), t)
}

func (p *Playable) StopIn(seconds float64) error {
	now := p.clock.CurrentTime()
	return p.stopAt(now, now+seconds)
}

func (p *Playable) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.playing
}

// StartedAt is the scheduled time of the most recent activation.
func (p *Playable) StartedAt() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.startedAt
}

// StartOffset is the seek position in seconds used by the next activation.
func (p *Playable) StartOffset() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.startOffset
}

func (p *Playable) SetStartOffset(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startOffset = seconds
	p.gen++
}

// OnChange registers fn for every playing flag transition.
func (p *Playable) OnChange(fn func(playing bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.listeners = append(p.listeners, fn)
}

func (p *Playable) playAt(now, t float64) error {
	if err := p.graph.Wire(t); err != nil {
		return err
	}

	src, ok := p.graph.Source()
	if !ok {
		return ErrNoSource
	}

	p.mu.Lock()
	offset := p.startOffset
	p.startedAt = t
	p.gen++
	p.mu.Unlock()

	if err := src.Start(t, offset); err != nil {
		return fmt.Errorf("starting source: %w", err)
	}
	p.logger.Debug("play scheduled", "at", t, "offset", offset, "now", now)

	p.flipAt(now, t, true)
	return nil
}

func (p *Playable) stopAt(now, t float64) error {
	src, ok := p.graph.Source()
	if !ok {
		return nil
	}

	if err := src.Stop(t); err != nil {
		return fmt.Errorf("stopping source: %w", err)
	}
	p.logger.Debug("stop scheduled", "at", t, "now", now)

	p.mu.Lock()
	gen := p.gen
	p.mu.Unlock()

	halt := func() {
		p.clearOffset(gen)
		p.setPlaying(false)
	}
	if t <= now {
		halt()
		return nil
	}
	p.timers.After(t-now, halt)
	return nil
}

// clearOffset forgets the seek position once a stop takes effect.
func (p *Playable) clearOffset(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen == gen {
		p.startOffset = 0
	}
}

// flipAt sets the playing flag at t, measured against the same clock reading
// that scheduled the native event.
func (p *Playable) flipAt(now, t float64, playing bool) {
	if t <= now {
		p.setPlaying(playing)
		return
	}
	p.timers.After(t-now, func() { p.setPlaying(playing) })
}

func (p *Playable) setPlaying(v bool) {
	p.mu.Lock()
	changed := p.playing != v
	p.playing = v
	listeners := slices.Clone(p.listeners)
	p.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(v)
	}
}
