// SPDX-License-Identifier: EPL-2.0

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/ik5/audroute"
	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/config"
	"github.com/ik5/audroute/formats/wav"
	"github.com/ik5/audroute/native/soft"
	"github.com/ik5/audroute/output"
	"github.com/ik5/audroute/sequencer"
	"github.com/ik5/audroute/sound"
	"github.com/ik5/audroute/timing"
)

const (
	pollEvery  = 50 * time.Millisecond
	watchEvery = 250 * time.Millisecond

	// bounceFrames is how much is rendered between flag timer steps.
	bounceFrames = 1024
)

// App loads samples, schedules them on the software engine and sends the
// result to a WAV file or the audio device.
type App struct {
	cfg    *Config
	stdout io.Writer
	logger *slog.Logger
	timers timing.Scheduler
}

// New wires an App. Logs go to logW, bounced audio for "-" goes to stdout.
func New(stdout, logW io.Writer, cfg *Config) *App {
	return &App{
		cfg:    cfg,
		stdout: stdout,
		logger: NewLogger(cfg.LogLevel, cfg.LogFormat, logW),
	}
}

func (a *App) Run(ctx context.Context) error {
	eng := soft.NewContext(a.cfg.Rate, soft.WithLogger(a.logger))

	// A bounce renders faster than real time, so playing and beat flags step
	// with the rendered clock instead of the wall clock.
	a.timers = timing.Wall{}
	if a.cfg.Bounce != "" {
		a.timers = timing.NewStepped()
	}

	rig, err := a.rig()
	if err != nil {
		return err
	}

	units, err := a.voices(eng, rig)
	if err != nil {
		return err
	}

	seq := a.sequence(rig)
	var (
		total float64
		tr    *sound.Transport
	)
	if seq.Pattern == "" {
		tr = &sound.Transport{Unit: units[0]}
		if err := a.mix(units[:1]); err != nil {
			return err
		}
		if err := tr.Play(); err != nil {
			return err
		}
		total = units[0].Duration().Seconds()
	} else {
		total, err = a.schedule(units, seq)
		if err != nil {
			return err
		}
	}
	a.logger.Info("scheduled", "samples", len(units), "pattern", seq.Pattern, "seconds", total)

	if a.cfg.Bounce != "" {
		return a.bounce(eng, total)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if tr != nil {
		tr.Watch(ctx, watchEvery, func(pos float64) {
			a.logger.Info("position", "at", sound.Duration(pos).String())
		})
	}
	return a.play(ctx, eng, total)
}

func (a *App) rig() (*config.Rig, error) {
	if a.cfg.RigPath == "" {
		return nil, nil
	}

	rig, err := config.Load(a.cfg.RigPath)
	if err != nil {
		return nil, err
	}
	if err := rig.Validate(); err != nil {
		return nil, fmt.Errorf("rig %s: %w", a.cfg.RigPath, err)
	}
	return rig, nil
}

// sequence prefers the rig's sequence over the command line one.
func (a *App) sequence(rig *config.Rig) config.Sequence {
	if rig != nil && rig.Sequence != nil {
		seq := *rig.Sequence
		seq.Note = seq.NoteFraction()
		if seq.Bars == 0 {
			seq.Bars = 1
		}
		return seq
	}
	return config.Sequence{BPM: a.cfg.BPM, Note: a.cfg.Note, Pattern: a.cfg.Pattern, Bars: a.cfg.Bars}
}

// voices builds one unit per sample. Every unit gets its own copy of the
// rig's effect chain.
func (a *App) voices(eng *soft.Context, rig *config.Rig) ([]*sound.Unit, error) {
	units := make([]*sound.Unit, 0, len(a.cfg.Samples))
	for _, path := range a.cfg.Samples {
		buf, err := audroute.LoadFile(path, eng.SampleRate())
		if err != nil {
			return nil, err
		}

		opts := []sound.Option{sound.WithLogger(a.logger), sound.WithScheduler(a.timers)}
		if rig != nil {
			effects, err := rig.Build()
			if err != nil {
				return nil, err
			}
			opts = append(opts, sound.WithEffects(effects...))
		}

		u, err := sound.NewUnit(eng, buf, opts...)
		if err != nil {
			return nil, fmt.Errorf("building voice for %s: %w", path, err)
		}
		a.logger.Debug("voice ready", "path", path, "duration", u.Duration().String())
		units = append(units, u)
	}
	return units, nil
}

// mix applies the configured gain and pan to units directly.
func (a *App) mix(units []*sound.Unit) error {
	for _, u := range units {
		if err := u.ChangeGainTo(a.cfg.Gain).From(sound.Ratio); err != nil {
			return err
		}
		u.ChangePanTo(a.cfg.Pan)
	}
	return nil
}

// schedule queues every bar up front and returns when the last hit ends.
func (a *App) schedule(units []*sound.Unit, seq config.Sequence) (float64, error) {
	var target sequencer.Target
	if a.cfg.Layer {
		if err := a.mix(units); err != nil {
			return 0, err
		}
		layer := sound.NewLayer()
		for _, u := range units {
			layer.Add(u)
		}
		target = layer
	} else {
		s := sound.NewSampler(units, sound.WithLogger(a.logger), sound.WithScheduler(a.timers))
		s.SetGain(a.cfg.Gain)
		s.SetPan(a.cfg.Pan)
		target = s
	}

	sq := sequencer.New(target, len(seq.Pattern), sequencer.WithLogger(a.logger), sequencer.WithScheduler(a.timers))
	if err := sq.SetPattern(seq.Pattern); err != nil {
		return 0, err
	}

	bar, err := sq.BarSeconds(seq.BPM, seq.Note)
	if err != nil {
		return 0, err
	}
	for b := range seq.Bars {
		if err := sq.PlayActiveSlotsIn(float64(b)*bar, seq.BPM, seq.Note); err != nil {
			return 0, fmt.Errorf("bar %d: %w", b+1, err)
		}
	}

	var tail float64
	for _, u := range units {
		tail = max(tail, u.Duration().Seconds())
	}
	return float64(seq.Bars)*bar + tail, nil
}

func (a *App) bounce(eng *soft.Context, total float64) (err error) {
	rate := eng.SampleRate()
	frames := int(math.Ceil(total * float64(rate)))
	data := make([]float32, frames*soft.Channels)

	stepped, _ := a.timers.(*timing.Stepped)
	for done := 0; done < frames; {
		n := min(bounceFrames, frames-done)
		if err := eng.Render(data[done*soft.Channels : (done+n)*soft.Channels]); err != nil {
			return err
		}
		done += n
		if stepped != nil {
			stepped.Advance(float64(n) / float64(rate))
		}
	}

	buf, err := audio.NewBuffer(eng.SampleRate(), soft.Channels, data)
	if err != nil {
		return err
	}

	if a.cfg.Bounce == "-" {
		return wav.WriteStream(a.stdout, buf)
	}

	f, err := os.Create(a.cfg.Bounce)
	if err != nil {
		return fmt.Errorf("creating bounce file: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := wav.WriteBuffer(f, buf); err != nil {
		return err
	}
	a.logger.Info("bounced", "path", a.cfg.Bounce, "frames", frames)
	return nil
}

// play runs the device until the clock passes total or ctx ends.
func (a *App) play(ctx context.Context, eng *soft.Context, total float64) error {
	dev, err := output.Open(ctx, eng, output.WithLogger(a.logger), output.WithLatency(a.cfg.Latency))
	if err != nil {
		return err
	}
	defer dev.Close()

	ticker := time.NewTicker(pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("playback interrupted", "at", eng.CurrentTime())
			return nil
		case <-ticker.C:
			if err := dev.Err(); err != nil {
				return err
			}
			if eng.CurrentTime() >= total {
				a.logger.Info("playback finished", "seconds", total)
				return nil
			}
		}
	}
}
