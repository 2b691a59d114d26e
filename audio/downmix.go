// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Downmixer folds any channel layout into mono or stereo. For stereo output,
// even source channels feed the left side and odd ones the right; a mono
// source is copied to both sides.
type Downmixer struct {
	src Source
	out int
	tmp []float32
}

func NewDownmixer(src Source, channels int) (*Downmixer, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: downmix to %d channels", ErrInvalidLayout, channels)
	}

	return &Downmixer{src: src, out: channels, tmp: make([]float32, 4096)}, nil
}

func (m *Downmixer) SampleRate() int { return m.src.SampleRate() }
func (m *Downmixer) Channels() int   { return m.out }
func (m *Downmixer) BufSize() int    { return m.src.BufSize() }

func (m *Downmixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *Downmixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}

	in := m.src.Channels()
	if in == m.out {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.out
	if frames == 0 {
		return 0, nil
	}
	if cap(m.tmp) < frames*in {
		m.tmp = make([]float32, frames*in)
	}
	tmp := m.tmp[:frames*in]

	n, err := m.src.ReadSamples(tmp)
	got := n / in

	for f := range got {
		frame := tmp[f*in : f*in+in]
		switch {
		case m.out == 1:
			var sum float32
			for _, s := range frame {
				sum += s
			}
			dst[f] = sum / float32(in)
		case in == 1:
			dst[2*f] = frame[0]
			dst[2*f+1] = frame[0]
		default:
			var l, r float32
			var nl, nr int
			for c, s := range frame {
				if c%2 == 0 {
					l += s
					nl++
				} else {
					r += s
					nr++
				}
			}
			dst[2*f] = l / float32(nl)
			dst[2*f+1] = r / float32(nr)
		}
	}

	return got * m.out, err
}
