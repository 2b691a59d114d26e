// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis with github.com/jfreymuth/oggvorbis,
// keeping the stream's own channel count and sample rate.
package vorbis
