// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoded-audio plumbing that feeds buffer source
// stages.
//
// Decoders, the Resampler and the Downmixer all implement Source and wrap
// one another. Samples travel as interleaved float32 in [-1, 1] and a Source
// reports io.EOF when it runs dry.
//
// # Resampling and Channel Layout
//
// The Resampler converts sample rate with cubic interpolation; the Downmixer
// folds any layout down to mono or stereo:
//
//	r := audio.NewResampler(src, 48000)
//	st, _ := audio.NewDownmixer(r, 2)
//
// # Buffers
//
// ReadAll drains a Source into a Buffer. A Buffer knows its frame count and
// duration in seconds, which is where a sound's duration comes from:
//
//	buf, err := audio.ReadAll(st)
//	fmt.Println(buf.Duration())
//
// # Format Registry
//
// The registry maps format keys to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	src, err := registry.Decode("wav", file)
package audio
