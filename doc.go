// SPDX-License-Identifier: EPL-2.0

// Package audroute schedules sounds on an audio graph.
//
// Sounds are chains of stages (package graph) that are wired into a native
// audio context (package native) each time they play. Package sound turns a
// chain into something that plays: a Unit with gain, pan and seek, a
// round-robin Sampler, a Layer, and a Transport with a live play head.
// Package sequencer places those on a beat grid at a tempo.
//
// The native layer is an interface. native/soft implements it in pure Go and
// can either feed a sound device through package output or render offline.
//
// This root package loads audio files into buffers a context can play:
//
//	ctx := soft.NewContext(48000)
//	buf, err := audroute.LoadFile("kick.wav", ctx.SampleRate())
//	if err != nil {
//	    // handle
//	}
//	kick, err := sound.NewUnit(ctx, buf)
//	if err != nil {
//	    // handle
//	}
//	kick.PlayIn(0.5)
//
// Supported file formats are WAV, AIFF, MP3 and Ogg Vorbis; see package
// formats.
package audroute
