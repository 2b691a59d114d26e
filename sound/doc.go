// SPDX-License-Identifier: EPL-2.0

// Package sound turns stage graphs into things that play.
//
// A [Unit] is a decoded clip behind a gain and pan chain. It can be started,
// stopped, seeked, and given per-activation envelopes. A [Sampler]
// round-robins over interchangeable units, a [Layer] fans one call out to
// several players, and a [Transport] adds a live play head with pause and
// resume.
//
// All times are seconds on the native context clock. Start and stop events
// are handed to the native layer immediately. The playing flag follows the
// same schedule through a [timing.Scheduler], so it can be observed without
// polling the engine.
package sound
