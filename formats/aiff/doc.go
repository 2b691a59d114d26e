// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files with github.com/go-audio/aiff.
//
// Integer PCM at 8, 16, 24 and 32 bits is accepted, in any channel layout
// and at any sample rate. Samples come out as interleaved float32 in [-1,1]:
//
//	src, err := aiff.Decoder{}.Decode(file)
package aiff
