// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audroute/audio"
)

var ErrNotVorbis = errors.New("not an Ogg Vorbis stream")

// frameReader is the part of oggvorbis.Reader the source uses. Read fills
// whole interleaved frames and reports samples read.
type frameReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec frameReader
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return s.dec.Channels() }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	ch := s.dec.Channels()
	dst = dst[:len(dst)-len(dst)%ch]
	if len(dst) == 0 {
		return 0, audio.ErrInvalidDstSize
	}

	n, err := s.dec.Read(dst)
	if errors.Is(err, io.EOF) {
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	}
	if err != nil {
		return n, fmt.Errorf("decoding vorbis: %w", err)
	}
	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbis, err)
	}

	return &source{dec: dec}, nil
}
