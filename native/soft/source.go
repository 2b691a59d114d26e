// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"math"

	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/native"
)

// schedule is the start and stop state shared by one-shot sources.
type schedule struct {
	started    bool
	startFrame int64
	stopFrame  int64 // -1 until Stop is called
	offset     float64
	ended      bool
}

// start arms the source at when. arm, if set, runs under the same lock so a
// render never sees the source started without its read position.
func (s *schedule) start(c *Context, when, offset float64, arm func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	s.startFrame = c.frameAt(when)
	s.offset = max(offset, 0)
	if arm != nil {
		arm()
	}
	return nil
}

// stop schedules the end at when. A later call replaces an earlier one.
func (s *schedule) stop(c *Context, when float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s.stopFrame = c.frameAt(when)
}

// audible reports whether frame f falls inside the scheduled window.
func (s *schedule) audible(f int64) bool {
	if !s.started || s.ended || f < s.startFrame {
		return false
	}
	return s.stopFrame < 0 || f < s.stopFrame
}

func (s *schedule) finished(at int64) bool {
	if !s.started {
		return false
	}
	return s.ended || (s.stopFrame >= 0 && at >= s.stopFrame)
}

// BufferSource plays an audio.Buffer once, or in a loop.
type BufferSource struct {
	*base
	schedule
	buf  *audio.Buffer
	loop bool
	pos  float64 // read position in buffer frames
	rate *Param
	tmp  []float32
}

func newBufferSource(c *Context, buf *audio.Buffer, loop bool) *BufferSource {
	s := &BufferSource{base: c.newBase(native.KindBuffer), buf: buf, loop: loop}
	s.stopFrame = -1
	s.rate = newParam(c, 1, 0, 16)
	s.params["playbackRate"] = s.rate
	s.self = s
	return s
}

func (s *BufferSource) Start(when, offset float64) error {
	return s.start(s.ctx, when, offset, func() {
		s.pos = s.offset * float64(s.buf.Rate)
		if !s.loop && s.pos >= float64(s.buf.Frames()) {
			s.ended = true
		}
	})
}

func (s *BufferSource) Stop(when float64) error {
	s.stop(s.ctx, when)
	return nil
}

func (s *BufferSource) process(start int64, frames int, out []float32) {
	s.tmp = s.values(s.rate, start, frames, s.tmp)
	total := float64(s.buf.Frames())
	step := float64(s.buf.Rate) / float64(s.ctx.rate)

	for i := range frames {
		if !s.audible(start + int64(i)) {
			continue
		}

		idx := int(s.pos)
		frac := float32(s.pos - float64(idx))
		next := idx + 1
		if next >= s.buf.Frames() && s.loop {
			next = 0
		}
		for ch := range Channels {
			a, b := s.buf.Sample(idx, ch), s.buf.Sample(next, ch)
			out[i*Channels+ch] = a + (b-a)*frac
		}

		s.pos += float64(s.tmp[i]) * step
		if s.pos >= total {
			if !s.loop {
				s.ended = true
				continue
			}
			s.pos = math.Mod(s.pos, total)
		}
	}
}

type waveform func(phase float64) float64

var waveforms = map[string]waveform{
	"sine": func(p float64) float64 { return math.Sin(2 * math.Pi * p) },
	"square": func(p float64) float64 {
		if p < 0.5 {
			return 1
		}
		return -1
	},
	"sawtooth": func(p float64) float64 { return 2*p - 1 },
	"triangle": func(p float64) float64 { return 1 - 4*math.Abs(p-0.5) },
}

// Oscillator generates a periodic waveform until stopped.
type Oscillator struct {
	*base
	schedule
	wave   waveform
	phase  float64
	freq   *Param
	detune *Param
	f, d   []float32
}

func newOscillator(c *Context, shape string) *Oscillator {
	o := &Oscillator{base: c.newBase(native.KindOscillator), wave: waveforms[shape]}
	o.stopFrame = -1
	nyquist := float64(c.rate) / 2
	o.freq = newParam(c, 440, -nyquist, nyquist)
	o.detune = newParam(c, 0, -153600, 153600)
	o.params["frequency"] = o.freq
	o.params["detune"] = o.detune
	o.self = o
	return o
}

func (o *Oscillator) Start(when, offset float64) error {
	return o.start(o.ctx, when, offset, nil)
}

func (o *Oscillator) Stop(when float64) error {
	o.stop(o.ctx, when)
	return nil
}

func (o *Oscillator) process(start int64, frames int, out []float32) {
	o.f = o.values(o.freq, start, frames, o.f)
	o.d = o.values(o.detune, start, frames, o.d)
	rate := float64(o.ctx.rate)

	for i := range frames {
		if !o.audible(start + int64(i)) {
			continue
		}
		v := float32(o.wave(o.phase))
		out[i*Channels] = v
		out[i*Channels+1] = v

		hz := float64(o.f[i]) * math.Pow(2, float64(o.d[i])/1200)
		o.phase += hz / rate
		o.phase -= math.Floor(o.phase)
	}
}
