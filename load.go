// SPDX-License-Identifier: EPL-2.0

package audroute

import (
	"fmt"
	"io"
	"os"

	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/formats"
)

// Prepare builds the pipeline that makes src playable on a context running
// at targetRate: resample when the rates differ, then fold anything wider
// than stereo down to two channels.
func Prepare(src audio.Source, targetRate int) (audio.Source, error) {
	if src.SampleRate() != targetRate {
		src = audio.NewResampler(src, targetRate)
	}
	if src.Channels() > 2 {
		dm, err := audio.NewDownmixer(src, 2)
		if err != nil {
			return nil, err
		}
		src = dm
	}
	return src, nil
}

// Load decodes r as format with the bundled decoders and returns the whole
// clip ready for a buffer source stage.
//
//	buf, err := audroute.Load(file, formats.WAV, ctx.SampleRate())
func Load(r io.Reader, format string, targetRate int) (*audio.Buffer, error) {
	return LoadWith(formats.NewRegistry(), r, format, targetRate)
}

// LoadWith is Load with a caller-supplied registry.
func LoadWith(reg *audio.Registry, r io.Reader, format string, targetRate int) (*audio.Buffer, error) {
	src, err := reg.Decode(format, r)
	if err != nil {
		return nil, err
	}

	src, err = Prepare(src, targetRate)
	if err != nil {
		src.Close()
		return nil, err
	}

	return audio.ReadAll(src)
}

// LoadFile opens path and loads it, picking the format from the extension.
func LoadFile(path string, targetRate int) (*audio.Buffer, error) {
	format, err := formats.ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sample: %w", err)
	}
	defer f.Close()

	buf, err := Load(f, format, targetRate)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return buf, nil
}
