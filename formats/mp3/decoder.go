// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audroute/audio"
)

var ErrNotMP3 = errors.New("not an MP3 stream")

// pcmReader is the part of gomp3.Decoder the source uses.
type pcmReader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// go-mp3 always produces 16-bit little-endian stereo.
const channels = 2

type source struct {
	dec pcmReader
	buf []byte
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	n, err := io.ReadFull(s.dec, s.buf)
	samples := n / 2
	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(s.buf[2*i:]))) / 32768
	}

	switch {
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		if samples == 0 {
			return 0, io.EOF
		}
		return samples, nil
	case err != nil:
		return samples, fmt.Errorf("decoding mp3: %w", err)
	}
	return samples, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3, err)
	}

	return &source{dec: dec, buf: make([]byte, 8192)}, nil
}
