// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer decoders to audio.Source.
package pcm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

var ErrUnsupportedDepth = errors.New("unsupported PCM bit depth")

// Reader is the part of the go-audio wav and aiff decoders a Source needs.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source streams a Reader as float32 samples in [-1,1].
type Source struct {
	dec      Reader
	rate     int
	channels int
	scale    float32
	// bias recenters unsigned 8-bit samples
	bias   int
	intBuf *goaudio.IntBuffer
}

// NewSource wraps dec. unsigned8 marks 8-bit data stored as unsigned bytes,
// as WAV does.
func NewSource(dec Reader, bitDepth int, unsigned8 bool) (*Source, error) {
	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing format", ErrUnsupportedDepth)
	}

	s := &Source{dec: dec, rate: format.SampleRate, channels: format.NumChannels}
	switch bitDepth {
	case 8:
		s.scale = 128
		if unsigned8 {
			s.bias = 128
		}
	case 16:
		s.scale = 32768
	case 24:
		s.scale = 8388608
	case 32:
		s.scale = 2147483648
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDepth, bitDepth)
	}

	return s, nil
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{Data: make([]int, len(dst)), Format: s.dec.Format()}
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("reading pcm: %w", err)
		}
		return 0, io.EOF
	}

	for i, v := range s.intBuf.Data[:n] {
		dst[i] = float32(v-s.bias) / s.scale
	}

	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("reading pcm: %w", err)
	}
	return n, nil
}

// Seekable returns r as an io.ReadSeeker, buffering it in memory when it is
// not one already. The go-audio decoders need to seek between chunks.
func Seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}
	return bytes.NewReader(data), nil
}
