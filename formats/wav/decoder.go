// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/formats/internal/pcm"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

type Decoder struct{}

// Decode reads 8, 16, 24 or 32-bit integer PCM. Input that cannot seek is
// buffered in memory first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.Seekable(r)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedWav, dec.WavAudioFormat)
	}

	src, err := pcm.NewSource(dec, int(dec.SampleBitDepth()), true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWav, err)
	}
	return src, nil
}
