// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audroute/audio"
)

type fakeReader struct {
	channels int
	samples  []float32
	err      error
}

func (f *fakeReader) SampleRate() int { return 48000 }
func (f *fakeReader) Channels() int   { return f.channels }

func (f *fakeReader) Read(p []float32) (int, error) {
	if len(f.samples) == 0 {
		if f.err != nil {
			return 0, f.err
		}
		return 0, io.EOF
	}
	n := copy(p, f.samples)
	n -= n % f.channels
	f.samples = f.samples[n:]
	return n, nil
}

func TestSource_ReadAll(t *testing.T) {
	t.Parallel()

	src := &source{dec: &fakeReader{channels: 2, samples: []float32{0.1, 0.2, 0.3, 0.4}}}
	buf, err := audio.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, 48000, buf.Rate)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, buf.Data)
}

func TestSource_FrameAlignment(t *testing.T) {
	t.Parallel()

	src := &source{dec: &fakeReader{channels: 2, samples: []float32{1, 2, 3, 4}}}

	buf := make([]float32, 3)
	n, err := src.ReadSamples(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = src.ReadSamples(make([]float32, 1))
	require.ErrorIs(t, err, audio.ErrInvalidDstSize)
}

func TestSource_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt page")
	src := &source{dec: &fakeReader{channels: 1, err: boom}}
	_, err := src.ReadSamples(make([]float32, 4))
	require.ErrorIs(t, err, boom)
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(strings.NewReader("OggS but not really"))
	require.ErrorIs(t, err, ErrNotVorbis)
}
