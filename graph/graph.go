// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ik5/audroute/native"
)

// Graph is an ordered chain of stages wired in sequence.
type Graph struct {
	mu     sync.Mutex
	ctx    native.Context
	stages []*Stage
	props  *Properties
	logger *slog.Logger
}

type Option func(*Graph)

func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// WithProperties shares an owner's property bag with the graph.
func WithProperties(p *Properties) Option {
	return func(g *Graph) { g.props = p }
}

// New validates stage names and builds a graph. Nothing is created until the
// first Wire.
func New(ctx native.Context, stages []*Stage, opts ...Option) (*Graph, error) {
	g := &Graph{
		ctx:    ctx,
		stages: stages,
		props:  NewProperties(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	seen := make(map[string]bool, len(stages))
	for i, s := range stages {
		if s == nil || s.Name == "" {
			return nil, configErr(fmt.Sprintf("#%d", i), "stage has no name", nil)
		}
		if seen[s.Name] {
			return nil, configErr(s.Name, "duplicate stage name", nil)
		}
		seen[s.Name] = true
	}

	return g, nil
}

// Wire materializes every stage, applies automation relative to anchor and
// connects each unit to the next one, left to right.
func (g *Graph) Wire(anchor float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, s := range g.stages {
		created, err := s.materialize(g.ctx)
		if err != nil {
			return err
		}
		if created {
			g.logger.Debug("stage created", "stage", s.Name, "kind", s.Command.Kind, "policy", s.Policy.String())
		}

		if err := s.automate(anchor, g.props); err != nil {
			return err
		}

		if i == 0 {
			continue
		}
		prev := g.stages[i-1]
		if err := g.ctx.Connect(prev.unit, s.unit); err != nil {
			return fmt.Errorf("connecting %s to %s: %w", prev.Name, s.Name, err)
		}
		g.logger.Debug("stage connected", "from", prev.Name, "to", s.Name)
	}

	return nil
}

// Source is the chain's first unit when it is a startable source.
func (g *Graph) Source() (native.Source, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.stages) == 0 || g.stages[0].unit == nil {
		return nil, false
	}
	src, ok := g.stages[0].unit.(native.Source)
	return src, ok
}

func (g *Graph) Stage(name string) (*Stage, bool) {
	for _, s := range g.stages {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

func (g *Graph) Stages() []*Stage {
	return append([]*Stage(nil), g.stages...)
}

func (g *Graph) Properties() *Properties { return g.props }

// Param returns the live native parameter addressed by "stage.param".
func (g *Graph) Param(path string) (native.Param, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	stage, param, ok := strings.Cut(path, ".")
	if !ok {
		return nil, false
	}
	s, ok := g.Stage(stage)
	if !ok || s.unit == nil {
		return nil, false
	}
	return s.unit.Param(param)
}

// Update stores a new property value and pushes it straight into every live
// parameter bound to that property.
func (g *Graph) Update(property string, v float64) {
	g.props.Set(property, v)

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, s := range g.stages {
		if s.unit == nil {
			continue
		}
		for _, a := range s.Automation {
			if a.Source != property {
				continue
			}
			if p, ok := s.unit.Param(a.Param); ok {
				p.SetValue(v)
			}
		}
	}
}

// Automate appends entries to the stage named by the "stage.param" path.
// The entries apply from the next activation on.
func (g *Graph) Automate(path string, entries ...Automation) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	stage, param, ok := strings.Cut(path, ".")
	if !ok || param == "" {
		return fmt.Errorf("%w: %q is not stage.param", ErrUnknownStage, path)
	}
	s, ok := g.Stage(stage)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}

	for _, e := range entries {
		e.Param = param
		s.Automation = append(s.Automation, e)
	}
	return nil
}
