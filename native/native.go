// SPDX-License-Identifier: EPL-2.0

// Package native describes the audio primitive layer the router sits on: a
// context that creates processing nodes, connects them in series, starts and
// stops sources at scheduled times, automates parameters and reports a
// monotonic clock in seconds.
//
// native/soft is a pure Go implementation. Any other backend only needs to
// satisfy these interfaces.
package native

import "github.com/ik5/audroute/audio"

// Well known node kinds.
const (
	KindBuffer      = "buffer"
	KindOscillator  = "oscillator"
	KindGain        = "gain"
	KindPanner      = "panner"
	KindFilter      = "filter"
	KindDestination = "destination"
)

// Destination is the fixed path of the context's output node.
const Destination = "destination"

// Context is the factory, router and clock of a native audio graph.
type Context interface {
	// CurrentTime is the monotonic context clock in seconds.
	CurrentTime() float64
	SampleRate() int
	Create(cmd Command) (Node, error)
	Connect(from, to Node) error
	// Lookup resolves a fixed path to a node the context already owns.
	Lookup(path string) (Node, bool)
}

// Command asks a Context for a new node.
type Command struct {
	Kind    string
	Options map[string]string
	// Buffer is the clip played by buffer sources.
	Buffer *audio.Buffer
}

type Node interface {
	Kind() string
	Param(name string) (Param, bool)
}

// Source is a node that produces signal between a start and a stop time.
type Source interface {
	Node
	// Start begins playback at context time when, offset seconds into the
	// underlying sound.
	Start(when, offset float64) error
	Stop(when float64) error
}

// Param is an automatable node parameter. Times are context times in seconds.
type Param interface {
	Value() float64
	SetValue(v float64)
	SetValueAtTime(v, t float64)
	LinearRampToValueAtTime(v, t float64)
	ExponentialRampToValueAtTime(v, t float64)
}
