// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audroute/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation over a sliding four frame window. Channel count is preserved.
// When downsampling, a one-pole low-pass runs on the input to tame aliasing.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames per output frame
	channels int

	// window[0] = t-1, window[1] = t0, window[2] = t+1, window[3] = t+2
	window [4][]float32
	filled [4]bool
	pos    float64 // fractional position between window[1] and window[2]
	primed bool

	in    []float32
	inLen int
	inPos int
	eof   bool

	filter []float32
	alpha  float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		channels: channels,
		in:       make([]float32, 4096-4096%channels),
		filter:   make([]float32, channels),
	}
	if r.step > 1 {
		r.alpha = 0.5
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// nextFrame copies the next source frame into dst. It reports false once the
// source is drained.
func (r *Resampler) nextFrame(dst []float32, first bool) (bool, error) {
	for r.inPos >= r.inLen {
		if r.eof {
			return false, nil
		}
		n, err := r.src.ReadSamples(r.in)
		r.inLen, r.inPos = n-n%r.channels, 0
		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		} else if n == 0 {
			r.eof = true
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.alpha > 0 {
		for c := range dst {
			if first {
				r.filter[c] = dst[c]
			}
			dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.filter[c]
			r.filter[c] = dst[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.nextFrame(r.window[1], true)
	if err != nil || !ok {
		return err
	}
	copy(r.window[0], r.window[1])
	r.filled[0], r.filled[1] = true, true

	for i := 2; i < 4; i++ {
		ok, err := r.nextFrame(r.window[i], false)
		if err != nil {
			return err
		}
		if !ok {
			// repeat the last real frame so the tail can still interpolate
			copy(r.window[i], r.window[i-1])
		}
		r.filled[i] = ok
	}

	return nil
}

func (r *Resampler) shift() error {
	first := r.window[0]
	copy(r.window[:], r.window[1:])
	r.window[3] = first
	copy(r.filled[:], r.filled[1:])

	ok, err := r.nextFrame(r.window[3], false)
	if err != nil {
		return err
	}
	if !ok {
		copy(r.window[3], r.window[2])
	}
	r.filled[3] = ok

	return nil
}

// ReadSamples produces interleaved samples at the target rate. dst length
// must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written < len(dst) {
		for r.pos >= 1 {
			r.pos--
			if err := r.shift(); err != nil {
				return written, err
			}
		}
		if !r.filled[1] || !r.filled[2] {
			return written, io.EOF
		}

		x := float32(r.pos)
		for c := range r.channels {
			dst[written+c] = utils.CatmullRom(r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], x)
		}
		written += r.channels
		r.pos += r.step
	}

	return written, nil
}
