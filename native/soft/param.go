// SPDX-License-Identifier: EPL-2.0

package soft

import "math"

// minExp is the smallest magnitude an exponential ramp may start or end at.
const minExp = 1e-4

type eventKind int

const (
	eventSet eventKind = iota
	eventLinear
	eventExp
)

type event struct {
	kind  eventKind
	value float64
	time  float64
}

// Param is a node parameter with an automation timeline. Values between
// events follow the curve of the later event; after the last event the
// value holds.
type Param struct {
	ctx *Context
	// base holds from baseTime until the first event.
	base     float64
	baseTime float64
	events   []event
	min, max float64
}

func newParam(ctx *Context, v, lo, hi float64) *Param {
	return &Param{ctx: ctx, base: v, min: lo, max: hi}
}

func (p *Param) Value() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	return p.valueAt(p.ctx.now())
}

// SetValue takes effect now. Events already due are forgotten; future ones
// still run.
func (p *Param) SetValue(v float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	now := p.ctx.now()
	i := 0
	for i < len(p.events) && p.events[i].time <= now {
		i++
	}
	p.events = p.events[i:]
	p.base, p.baseTime = v, now
}

func (p *Param) SetValueAtTime(v, t float64) { p.insert(event{eventSet, v, t}) }

func (p *Param) LinearRampToValueAtTime(v, t float64) { p.insert(event{eventLinear, v, t}) }

func (p *Param) ExponentialRampToValueAtTime(v, t float64) {
	p.insert(event{eventExp, v, t})
}

func (p *Param) insert(e event) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	i := len(p.events)
	for i > 0 && p.events[i-1].time > e.time {
		i--
	}
	p.events = append(p.events, event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

// valueAt must be called with the context locked.
func (p *Param) valueAt(t float64) float64 {
	prevV, prevT := p.base, p.baseTime
	for _, e := range p.events {
		if e.time <= t {
			prevV, prevT = e.value, e.time
			continue
		}
		return p.clamp(interpolate(e, prevV, prevT, t))
	}
	return p.clamp(prevV)
}

// prune drops events that can no longer affect values at or after t.
func (p *Param) prune(t float64) {
	i := 0
	for i < len(p.events) && p.events[i].time <= t {
		p.base, p.baseTime = p.events[i].value, p.events[i].time
		i++
	}
	p.events = p.events[i:]
}

func (p *Param) clamp(v float64) float64 {
	return math.Max(p.min, math.Min(p.max, v))
}

func interpolate(next event, prevV, prevT, t float64) float64 {
	span := next.time - prevT
	if span <= 0 {
		return next.value
	}
	frac := (t - prevT) / span

	switch next.kind {
	case eventLinear:
		return prevV + (next.value-prevV)*frac
	case eventExp:
		from, to := expEndpoint(prevV), expEndpoint(next.value)
		if from*to < 0 {
			return prevV
		}
		return from * math.Pow(to/from, frac)
	}
	return prevV
}

func expEndpoint(v float64) float64 {
	if math.Abs(v) < minExp {
		if v < 0 {
			return -minExp
		}
		return minExp
	}
	return v
}
