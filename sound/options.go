// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"log/slog"

	"github.com/ik5/audroute/graph"
	"github.com/ik5/audroute/timing"
)

type options struct {
	logger  *slog.Logger
	timers  timing.Scheduler
	effects []*graph.Stage
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithScheduler replaces the wall clock timers that flip playing flags.
func WithScheduler(s timing.Scheduler) Option {
	return func(o *options) { o.timers = s }
}

// WithEffects inserts stages between the pan stage and the output.
func WithEffects(stages ...*graph.Stage) Option {
	return func(o *options) { o.effects = append(o.effects, stages...) }
}

func collect(opts []Option) options {
	o := options{logger: slog.Default(), timers: timing.Wall{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
