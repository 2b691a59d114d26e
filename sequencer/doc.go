// SPDX-License-Identifier: EPL-2.0

// Package sequencer schedules a target on a row of beats at a tempo.
//
// Each [Beat] carries an active flag and two flags a display can follow:
// IsPlaying while the beat sounds and CurrentTimeIsPlaying while the play
// head sits on it. A whole pass is scheduled in one call, with every slot
// handed to the target as a delay from now.
package sequencer
