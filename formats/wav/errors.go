// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile      = errors.New("not a WAV file")
	ErrUnsupportedWav  = errors.New("only integer PCM WAV is supported")
	ErrEmptyBuffer     = errors.New("nothing to write")
	ErrWriteIncomplete = errors.New("short write")
)
