// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV files.
//
// Decoding goes through github.com/go-audio/wav and accepts integer PCM at 8,
// 16, 24 and 32 bits, including the extensible header variant. Samples come
// out as interleaved float32 in [-1,1].
//
//	src, err := wav.Decoder{}.Decode(file)
//
// Two writers produce 16-bit PCM from an audio.Buffer. WriteBuffer uses the
// go-audio encoder and needs a seekable destination such as a file.
// WriteStream computes the header in advance and works with any io.Writer,
// e.g. standard output.
package wav
