// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ik5/audroute/internal/app"
	"github.com/ik5/audroute/sequencer"
)

// ExitError carries the process exit code for a failure.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Parse reads the command line. It returns the config, whether the program
// should exit cleanly right away (help), or an *ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	fs := flag.NewFlagSet("audroute", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.Usage = func() {
		fmt.Fprint(output, `
audroute - play samples through a routed effect chain on a step pattern.

Usage:
  audroute [options] SAMPLE [SAMPLE...]

Arguments:
  SAMPLE
    A .wav, .aiff, .mp3 or .ogg file. Several samples take turns on each
    hit, or all sound together with -layer.

Without a pattern the first sample is played once.

Options:
`)
		fs.PrintDefaults()
	}

	rig := fs.String("rig", "", "Path to a .yaml or .hcl rig with effect stages and an optional sequence.")
	bpm := fs.Float64("bpm", 120, "Tempo in beats per minute.")
	note := fs.Float64("note", sequencer.Quarter, "Note length of one slot as a fraction of a whole note.")
	pattern := fs.String("pattern", "", "Step pattern, 'x' for a hit and '.' for a rest.")
	bars := fs.Int("bars", 1, "How many times to play the pattern.")
	layer := fs.Bool("layer", false, "Play every sample on each hit instead of taking turns.")
	gain := fs.Float64("gain", 1, "Sample gain within [0,1].")
	pan := fs.Float64("pan", 0, "Stereo position within [-1,1].")
	rate := fs.Int("rate", 48000, "Engine sample rate.")
	bounce := fs.String("bounce", "", "Render to this WAV file instead of the audio device. '-' writes to stdout.")
	latency := fs.Duration("latency", 0, "Audio device buffer length, e.g. 40ms. 0 lets the driver decide.")
	logFormat := fs.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevel := fs.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return nil, true, nil
	}

	format := strings.ToLower(*logFormat)
	if format != "text" && format != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	level := strings.ToLower(*logLevel)
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg, err := app.NewConfig(app.Config{
		Samples:   fs.Args(),
		RigPath:   *rig,
		BPM:       *bpm,
		Note:      *note,
		Pattern:   *pattern,
		Bars:      *bars,
		Layer:     *layer,
		Gain:      *gain,
		Pan:       *pan,
		Rate:      *rate,
		Bounce:    *bounce,
		Latency:   *latency,
		LogFormat: format,
		LogLevel:  level,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return cfg, false, nil
}
