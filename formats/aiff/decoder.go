// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"

	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/formats/internal/pcm"
)

type Decoder struct{}

// Decode reads 8, 16, 24 or 32-bit AIFF. go-audio needs to seek, so a
// reader that cannot is buffered in memory first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.Seekable(r)
	if err != nil {
		return nil, err
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	src, err := pcm.NewSource(dec, int(dec.BitDepth), false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiff, err)
	}
	return src, nil
}
