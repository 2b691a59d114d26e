// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"github.com/viterin/vek/vek32"

	"github.com/ik5/audroute/native"
)

// renderer is implemented by every node of a Context.
type renderer interface {
	native.Node
	core() *base
	// process writes frames of stereo output starting at frame start into
	// out, which holds the mixed inputs on entry.
	process(start int64, frames int, out []float32)
}

// startable marks source nodes.
type startable interface {
	renderer
	finished(at int64) bool
}

// base holds what every node shares: its parameters, its inputs and the
// output of the block rendered last, so a node feeding several others is
// computed once per block.
type base struct {
	ctx      *Context
	kind     string
	params   map[string]*Param
	inputs   []renderer
	out      []float32
	cachedAt int64
	self     renderer
}

func (c *Context) newBase(kind string) *base {
	return &base{ctx: c, kind: kind, params: make(map[string]*Param), cachedAt: -1}
}

func (b *base) core() *base  { return b }
func (b *base) Kind() string { return b.kind }

func (b *base) Param(name string) (native.Param, bool) {
	p, ok := b.params[name]
	if !ok {
		return nil, false
	}
	return p, true
}

// pull renders the block starting at start once and returns the cached
// output on later calls for the same block.
func (b *base) pull(start int64, frames int) []float32 {
	if b.cachedAt == start && len(b.out) == frames*Channels {
		return b.out
	}

	n := frames * Channels
	if cap(b.out) < n {
		b.out = make([]float32, n)
	}
	b.out = vek32.Zeros_Into(b.out[:n], n)

	end := start + int64(frames)
	kept := b.inputs[:0]
	for _, in := range b.inputs {
		vek32.Add_Inplace(b.out, in.core().pull(start, frames))
		if s, ok := in.(startable); ok && s.finished(end) {
			continue
		}
		kept = append(kept, in)
	}
	clear(b.inputs[len(kept):])
	b.inputs = kept

	b.self.process(start, frames, b.out)
	b.cachedAt = start

	t := float64(end) / float64(b.ctx.rate)
	for _, p := range b.params {
		p.prune(t)
	}

	return b.out
}

// values samples p once per frame of the block.
func (b *base) values(p *Param, start int64, frames int, dst []float32) []float32 {
	if cap(dst) < frames {
		dst = make([]float32, frames)
	}
	dst = dst[:frames]
	rate := float64(b.ctx.rate)
	for i := range dst {
		dst[i] = float32(p.valueAt(float64(start+int64(i)) / rate))
	}
	return dst
}

// Destination is the context's output. It mixes its inputs unchanged.
type Destination struct {
	*base
}

func newDestination(c *Context) *Destination {
	d := &Destination{base: c.newBase(native.KindDestination)}
	d.self = d
	return d
}

func (d *Destination) process(int64, int, []float32) {}
