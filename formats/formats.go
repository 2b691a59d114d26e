// SPDX-License-Identifier: EPL-2.0

// Package formats registers every bundled decoder and maps file names to
// format keys.
package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/formats/aiff"
	"github.com/ik5/audroute/formats/mp3"
	"github.com/ik5/audroute/formats/vorbis"
	"github.com/ik5/audroute/formats/wav"
)

// Format keys used with audio.Registry.
const (
	WAV    = "wav"
	AIFF   = "aiff"
	MP3    = "mp3"
	Vorbis = "ogg"
)

var ErrUnknownExtension = errors.New("no format for file extension")

var extensions = map[string]string{
	".wav":  WAV,
	".wave": WAV,
	".aif":  AIFF,
	".aiff": AIFF,
	".mp3":  MP3,
	".ogg":  Vorbis,
	".oga":  Vorbis,
}

// Register adds all bundled decoders to r.
func Register(r *audio.Registry) {
	r.Register(WAV, wav.Decoder{})
	r.Register(AIFF, aiff.Decoder{})
	r.Register(MP3, mp3.Decoder{})
	r.Register(Vorbis, vorbis.Decoder{})
}

// NewRegistry returns a registry with every bundled decoder.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	Register(r)
	return r
}

// ForPath picks the format key from a file name's extension.
func ForPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownExtension, path)
}
