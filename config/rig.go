// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/audroute/graph"
	"github.com/ik5/audroute/native"
)

// Rig is a declarative effect chain plus an optional sequence to play
// through it. The same structure decodes from YAML and HCL.
type Rig struct {
	Sequence *Sequence `hcl:"sequence,block" yaml:"sequence,omitempty"`
	Stages   []*Stage  `hcl:"stage,block" yaml:"stages,omitempty"`
}

type Sequence struct {
	BPM     float64 `hcl:"bpm" yaml:"bpm"`
	Note    float64 `hcl:"note,optional" yaml:"note,omitempty"`
	Pattern string  `hcl:"pattern" yaml:"pattern"`
	Bars    int     `hcl:"bars,optional" yaml:"bars,omitempty"`
}

type Stage struct {
	Name       string            `hcl:"name,label" yaml:"name"`
	Kind       string            `hcl:"kind,optional" yaml:"kind,omitempty"`
	Policy     string            `hcl:"policy,optional" yaml:"policy,omitempty"`
	Path       string            `hcl:"path,optional" yaml:"path,omitempty"`
	Options    map[string]string `hcl:"options,optional" yaml:"options,omitempty"`
	Automation []*Automation     `hcl:"automation,block" yaml:"automation,omitempty"`
}

type Automation struct {
	Param  string  `hcl:"param" yaml:"param"`
	Value  float64 `hcl:"value,optional" yaml:"value,omitempty"`
	Source string  `hcl:"source,optional" yaml:"source,omitempty"`
	Kind   string  `hcl:"kind,optional" yaml:"kind,omitempty"`
	Offset float64 `hcl:"offset,optional" yaml:"offset,omitempty"`
}

var nodeKinds = map[string]bool{
	native.KindBuffer:     true,
	native.KindOscillator: true,
	native.KindGain:       true,
	native.KindPanner:     true,
	native.KindFilter:     true,
}

// Load reads a rig file, choosing the syntax from its extension: .yaml and
// .yml for YAML, .hcl for HCL.
func Load(path string) (*Rig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rig: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".hcl":
		return ParseHCL(data, path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// NoteFraction is the sequence's note length, a quarter when unset.
func (s *Sequence) NoteFraction() float64 {
	if s.Note == 0 {
		return 0.25
	}
	return s.Note
}

// Validate checks what decoding cannot: names, kinds, policies and the
// sequence's tempo and pattern.
func (r *Rig) Validate() error {
	if s := r.Sequence; s != nil {
		if s.BPM <= 0 || s.NoteFraction() <= 0 || s.Bars < 0 {
			return fmt.Errorf("%w: bpm=%g note=%g bars=%d", ErrInvalidSequence, s.BPM, s.Note, s.Bars)
		}
		if s.Pattern == "" || strings.Trim(s.Pattern, "x.") != "" {
			return fmt.Errorf("%w: pattern %q", ErrInvalidSequence, s.Pattern)
		}
	}

	_, err := r.Build()
	return err
}

// Build converts the stages into graph stages in file order.
func (r *Rig) Build() ([]*graph.Stage, error) {
	seen := make(map[string]bool, len(r.Stages))
	out := make([]*graph.Stage, 0, len(r.Stages))

	for i, s := range r.Stages {
		st, err := s.build()
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		if seen[st.Name] {
			return nil, fmt.Errorf("stage %d: %w: duplicate name %q", i, ErrInvalidStage, st.Name)
		}
		seen[st.Name] = true
		out = append(out, st)
	}

	return out, nil
}

func (s *Stage) build() (*graph.Stage, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidStage)
	}

	policy, err := graph.ParsePolicy(s.Policy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}

	st := &graph.Stage{Name: s.Name, Policy: policy}
	switch {
	case policy == graph.External:
		if s.Path == "" {
			return nil, fmt.Errorf("%w: %s: external stage needs a path", ErrInvalidStage, s.Name)
		}
		st.Path = s.Path
	case !nodeKinds[s.Kind]:
		return nil, fmt.Errorf("%w: %s: %q", ErrUnknownKind, s.Name, s.Kind)
	default:
		st.Command = native.Command{Kind: s.Kind, Options: s.Options}
	}

	for _, a := range s.Automation {
		kind, err := graph.ParseKind(a.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.Name, a.Param, err)
		}
		if a.Param == "" {
			return nil, fmt.Errorf("%w: %s: automation without param", ErrInvalidStage, s.Name)
		}
		st.Automation = append(st.Automation, graph.Automation{
			Param:  a.Param,
			Value:  a.Value,
			Source: a.Source,
			Kind:   kind,
			Offset: a.Offset,
		})
	}

	return st, nil
}
