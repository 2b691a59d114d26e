// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds test doubles: generated PCM sources, a recording
// native context and a manually advanced scheduler.
package audiotest

import (
	"io"
	"math"
)

// MockSource generates PCM from a waveform function. It implements
// audio.Source without importing it.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int // frames to generate
	generated  int
	waveform   func(sample int, channel int) float32
}

// NewMockSource creates a source of frames frames per channel.
func NewMockSource(sampleRate, channels, frames int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(sample int, channel int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 {
		return value
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.generated)
	for frame := range n {
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(m.generated+frame, ch)
		}
	}
	m.generated += n

	if m.generated >= m.frames {
		return n * m.channels, io.EOF
	}

	return n * m.channels, nil
}
