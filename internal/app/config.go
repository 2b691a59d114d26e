// SPDX-License-Identifier: EPL-2.0

package app

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoSamples     = errors.New("no sample files given")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds everything a run needs, already parsed and validated.
type Config struct {
	Samples []string
	RigPath string

	BPM     float64
	Note    float64
	Pattern string
	Bars    int
	Layer   bool

	Gain float64
	Pan  float64

	Rate    int
	Bounce  string // path, "-" for stdout, empty for the audio device
	Latency time.Duration

	LogFormat string
	LogLevel  string
}

// NewConfig validates c and fills in defaults.
func NewConfig(c Config) (*Config, error) {
	if len(c.Samples) == 0 {
		return nil, ErrNoSamples
	}
	if c.Rate <= 0 {
		return nil, fmt.Errorf("%w: rate must be positive, got %d", ErrInvalidConfig, c.Rate)
	}
	if c.Gain < 0 || c.Gain > 1 {
		return nil, fmt.Errorf("%w: gain must be within [0,1], got %g", ErrInvalidConfig, c.Gain)
	}
	if c.Pan < -1 || c.Pan > 1 {
		return nil, fmt.Errorf("%w: pan must be within [-1,1], got %g", ErrInvalidConfig, c.Pan)
	}
	if c.Bars < 0 {
		return nil, fmt.Errorf("%w: bars must not be negative, got %d", ErrInvalidConfig, c.Bars)
	}
	if c.Bars == 0 {
		c.Bars = 1
	}
	if c.Note == 0 {
		c.Note = 0.25
	}

	return &c, nil
}
