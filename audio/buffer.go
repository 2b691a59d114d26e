// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Buffer is a fully decoded, interleaved PCM clip held in memory. Buffer
// source nodes play from it, and its length is what gives a sound its
// duration.
type Buffer struct {
	Data     []float32
	Rate     int
	Channels int
}

// NewBuffer wraps interleaved samples. It fails when the sample count is not a
// whole number of frames.
func NewBuffer(rate, channels int, data []float32) (*Buffer, error) {
	if rate <= 0 || channels <= 0 || len(data)%channels != 0 {
		return nil, fmt.Errorf("%w: rate=%d channels=%d samples=%d", ErrInvalidLayout, rate, channels, len(data))
	}

	return &Buffer{Data: data, Rate: rate, Channels: channels}, nil
}

// Frames is the number of sample frames in the buffer.
func (b *Buffer) Frames() int {
	if b == nil || b.Channels == 0 {
		return 0
	}
	return len(b.Data) / b.Channels
}

// Duration is the clip length in seconds.
func (b *Buffer) Duration() float64 {
	if b == nil || b.Rate == 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.Rate)
}

// Sample returns channel ch of frame i. Channels past the last one repeat
// the last channel, so a mono clip feeds both sides of a stereo bus.
func (b *Buffer) Sample(i, ch int) float32 {
	if i < 0 || i >= b.Frames() {
		return 0
	}
	if ch >= b.Channels {
		ch = b.Channels - 1
	}
	return b.Data[i*b.Channels+ch]
}

// ReadAll drains src into a Buffer and closes it.
func ReadAll(src Source) (*Buffer, error) {
	defer src.Close()

	size := src.BufSize()
	if size <= 0 {
		size = 4096
	}
	// keep reads frame aligned
	size -= size % src.Channels()
	if size == 0 {
		size = src.Channels()
	}

	buf := make([]float32, size)
	data := make([]float32, 0, size*4)

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
		if n == 0 {
			// a source that neither advances nor reports EOF is finished
			break
		}
	}

	if len(data) == 0 {
		return nil, ErrEmptySource
	}

	// drop a trailing partial frame
	data = data[:len(data)-len(data)%src.Channels()]

	return &Buffer{Data: data, Rate: src.SampleRate(), Channels: src.Channels()}, nil
}
