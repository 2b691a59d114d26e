// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"fmt"

	"github.com/ik5/audroute/native"
)

// Policy decides where a stage's unit comes from.
type Policy int

const (
	Persistent Policy = iota
	PerActivation
	External
)

var policyNames = map[Policy]string{
	Persistent:    "persistent",
	PerActivation: "per-activation",
	External:      "external",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts the names printed by Policy.String. An empty string
// means Persistent.
func ParsePolicy(s string) (Policy, error) {
	if s == "" {
		return Persistent, nil
	}
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Factory creates native nodes. A native.Context is a Factory.
type Factory interface {
	Create(cmd native.Command) (native.Node, error)
}

// Stage is one link of a processing chain.
type Stage struct {
	Name    string
	Policy  Policy
	Command native.Command
	// Path is a fixed external node path, resolved instead of creating.
	Path string
	// Factory overrides the graph's context for creation when set.
	Factory    Factory
	Automation []Automation

	unit native.Node
}

// NewStage builds a persistent stage created from cmd.
func NewStage(name string, cmd native.Command, automation ...Automation) *Stage {
	return &Stage{Name: name, Policy: Persistent, Command: cmd, Automation: automation}
}

// NewPerActivationStage builds a stage whose unit is recreated on every
// activation.
func NewPerActivationStage(name string, cmd native.Command, automation ...Automation) *Stage {
	return &Stage{Name: name, Policy: PerActivation, Command: cmd, Automation: automation}
}

// NewExternalStage builds a stage bound to a node the context already owns.
func NewExternalStage(name, path string) *Stage {
	return &Stage{Name: name, Policy: External, Path: path}
}

// NewStageWithUnit builds a stage around a node supplied by the caller.
func NewStageWithUnit(name string, unit native.Node, automation ...Automation) *Stage {
	return &Stage{Name: name, Policy: External, Automation: automation, unit: unit}
}

// Unit is the materialized node, nil until the stage is first wired.
func (s *Stage) Unit() native.Node { return s.unit }

// materialize resolves or creates the unit and reports whether a new node was
// created.
func (s *Stage) materialize(ctx native.Context) (bool, error) {
	if s.unit != nil && s.Policy != PerActivation {
		return false, nil
	}

	if s.Path != "" {
		n, ok := ctx.Lookup(s.Path)
		if !ok {
			return false, configErr(s.Name, fmt.Sprintf("fixed path %q does not resolve", s.Path), nil)
		}
		s.unit = n
		return false, nil
	}

	if s.Policy == External {
		return false, configErr(s.Name, "external stage has no unit or fixed path", nil)
	}

	if s.Command.Kind == "" {
		return false, configErr(s.Name, "no unit, creation command or fixed path", nil)
	}

	var factory Factory = ctx
	if s.Factory != nil {
		factory = s.Factory
	}

	n, err := factory.Create(s.Command)
	if err != nil {
		return false, configErr(s.Name, fmt.Sprintf("cannot create %q unit", s.Command.Kind), err)
	}
	s.unit = n

	return true, nil
}

func (s *Stage) automate(anchor float64, props *Properties) error {
	for _, a := range s.Automation {
		p, ok := s.unit.Param(a.Param)
		if !ok {
			return configErr(s.Name, fmt.Sprintf("%s unit has no parameter %q", s.unit.Kind(), a.Param), nil)
		}
		a.apply(p, anchor, props)
	}
	return nil
}
