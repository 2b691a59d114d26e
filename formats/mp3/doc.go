// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer III streams with
// github.com/hajimehoshi/go-mp3.
//
// Output is always interleaved stereo float32 in [-1,1] at the stream's
// sample rate; mono files are duplicated by the underlying decoder.
package mp3
