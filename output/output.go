// SPDX-License-Identifier: EPL-2.0

// Package output plays a rendered stream through the system audio device
// with github.com/ebitengine/oto/v3.
package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Stream is 16-bit little-endian stereo PCM, e.g. a *soft.Context.
type Stream interface {
	io.Reader
	SampleRate() int
}

type options struct {
	logger  *slog.Logger
	latency time.Duration
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLatency sets the device buffer length. Zero lets oto pick.
func WithLatency(d time.Duration) Option {
	return func(o *options) { o.latency = d }
}

// Device pulls a Stream into the sound card. oto allows one device per
// process.
type Device struct {
	ctx    *oto.Context
	player *oto.Player
	logger *slog.Logger
}

// Open starts the device and begins pulling from s. It blocks until the
// device is ready or ctx ends.
func Open(ctx context.Context, s Stream, opts ...Option) (*Device, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   s.SampleRate(),
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   o.latency,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	select {
	case <-ready:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for audio device: %w", ctx.Err())
	}

	player := otoCtx.NewPlayer(s)
	player.Play()
	o.logger.Info("audio device open", "rate", s.SampleRate(), "latency", o.latency)

	return &Device{ctx: otoCtx, player: player, logger: o.logger}, nil
}

// Err reports a failure of the device since it opened.
func (d *Device) Err() error {
	if err := d.ctx.Err(); err != nil {
		return fmt.Errorf("audio device: %w", err)
	}
	return nil
}

func (d *Device) Suspend() error {
	if err := d.ctx.Suspend(); err != nil {
		return fmt.Errorf("suspending audio device: %w", err)
	}
	return nil
}

func (d *Device) Resume() error {
	if err := d.ctx.Resume(); err != nil {
		return fmt.Errorf("resuming audio device: %w", err)
	}
	return nil
}

// Close stops pulling from the stream.
func (d *Device) Close() error {
	if err := d.player.Close(); err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	d.logger.Info("audio device closed")
	return nil
}
