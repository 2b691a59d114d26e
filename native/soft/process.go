// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"math"

	"github.com/viterin/vek/vek32"

	"github.com/ik5/audroute/native"
)

// Gain scales its mixed input per sample.
type Gain struct {
	*base
	gain *Param
	g    []float32
	wide []float32
}

func newGain(c *Context) *Gain {
	g := &Gain{base: c.newBase(native.KindGain)}
	g.gain = newParam(c, 1, -math.MaxFloat32, math.MaxFloat32)
	g.params["gain"] = g.gain
	g.self = g
	return g
}

func (g *Gain) process(start int64, frames int, out []float32) {
	g.g = g.values(g.gain, start, frames, g.g)

	n := frames * Channels
	if cap(g.wide) < n {
		g.wide = make([]float32, n)
	}
	g.wide = g.wide[:n]
	for i, v := range g.g {
		g.wide[i*Channels] = v
		g.wide[i*Channels+1] = v
	}
	vek32.Mul_Inplace(out, g.wide)
}

// Panner is an equal-power stereo panner.
type Panner struct {
	*base
	pan *Param
	p   []float32
}

func newPanner(c *Context) *Panner {
	p := &Panner{base: c.newBase(native.KindPanner)}
	p.pan = newParam(c, 0, -1, 1)
	p.params["pan"] = p.pan
	p.self = p
	return p
}

func (p *Panner) process(start int64, frames int, out []float32) {
	p.p = p.values(p.pan, start, frames, p.p)

	for i, pan := range p.p {
		l, r := out[i*Channels], out[i*Channels+1]
		if pan <= 0 {
			x := float64(pan+1) * math.Pi / 2
			gl, gr := float32(math.Cos(x)), float32(math.Sin(x))
			out[i*Channels] = l + r*gl
			out[i*Channels+1] = r * gr
			continue
		}
		x := float64(pan) * math.Pi / 2
		gl, gr := float32(math.Cos(x)), float32(math.Sin(x))
		out[i*Channels] = l * gl
		out[i*Channels+1] = r + l*gr
	}
}

type filterMode int

const (
	lowpass filterMode = iota
	highpass
	bandpass
	peaking
)

var filterModes = map[string]filterMode{
	"lowpass":  lowpass,
	"highpass": highpass,
	"bandpass": bandpass,
	"peaking":  peaking,
}

// biquad holds normalized coefficients and per-channel history.
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     [Channels]float64
}

// Filter is a second-order filter. Coefficients follow the RBJ cookbook and
// are recomputed once per block.
type Filter struct {
	*base
	mode filterMode
	freq *Param
	q    *Param
	gain *Param
	bq   biquad
}

func newFilter(c *Context, mode string) *Filter {
	f := &Filter{base: c.newBase(native.KindFilter), mode: filterModes[mode]}
	nyquist := float64(c.rate) / 2
	f.freq = newParam(c, 350, 10, nyquist)
	f.q = newParam(c, 1, 1e-4, 1000)
	f.gain = newParam(c, 0, -40, 40)
	f.params["frequency"] = f.freq
	f.params["Q"] = f.q
	f.params["gain"] = f.gain
	f.self = f
	return f
}

func (f *Filter) coefficients(t float64) {
	w0 := 2 * math.Pi * f.freq.valueAt(t) / float64(f.ctx.rate)
	alpha := math.Sin(w0) / (2 * f.q.valueAt(t))
	cos := math.Cos(w0)

	var b0, b1, b2, a0, a1, a2 float64
	switch f.mode {
	case lowpass:
		b0, b1, b2 = (1-cos)/2, 1-cos, (1-cos)/2
		a0, a1, a2 = 1+alpha, -2*cos, 1-alpha
	case highpass:
		b0, b1, b2 = (1+cos)/2, -(1 + cos), (1+cos)/2
		a0, a1, a2 = 1+alpha, -2*cos, 1-alpha
	case bandpass:
		b0, b1, b2 = alpha, 0, -alpha
		a0, a1, a2 = 1+alpha, -2*cos, 1-alpha
	case peaking:
		a := math.Pow(10, f.gain.valueAt(t)/40)
		b0, b1, b2 = 1+alpha*a, -2*cos, 1-alpha*a
		a0, a1, a2 = 1+alpha/a, -2*cos, 1-alpha/a
	}

	f.bq.b0, f.bq.b1, f.bq.b2 = b0/a0, b1/a0, b2/a0
	f.bq.a1, f.bq.a2 = a1/a0, a2/a0
}

func (f *Filter) process(start int64, frames int, out []float32) {
	f.coefficients(float64(start) / float64(f.ctx.rate))
	q := &f.bq

	for i := range frames {
		for ch := range Channels {
			x := float64(out[i*Channels+ch])
			y := q.b0*x + q.b1*q.x1[ch] + q.b2*q.x2[ch] - q.a1*q.y1[ch] - q.a2*q.y2[ch]
			q.x2[ch], q.x1[ch] = q.x1[ch], x
			q.y2[ch], q.y1[ch] = q.y1[ch], y
			out[i*Channels+ch] = float32(y)
		}
	}
}
