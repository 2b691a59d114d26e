// SPDX-License-Identifier: EPL-2.0

// Package app runs audroute: it loads samples, builds a voice per sample
// with the rig's effects, schedules the pattern and renders the result to a
// WAV file or the audio device.
package app
