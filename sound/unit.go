// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"fmt"

	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/graph"
	"github.com/ik5/audroute/native"
	"github.com/ik5/audroute/utils"
)

// Stage names and owner properties of the standard unit chain.
const (
	SourceStage = "source"
	GainStage   = "gain"
	PanStage    = "pan"
	OutputStage = "output"

	GainProperty = "gain"
	PanProperty  = "pan"
)

// Unit is the base playable sound: a Playable over a graph with gain, pan,
// seek and duration.
type Unit struct {
	*Playable
	duration Duration
}

// NewUnit builds the standard chain for buf:
//
//	source (per-activation buffer) -> gain -> pan -> [effects] -> output
//
// gain and pan follow the unit's gain and pan properties.
func NewUnit(ctx native.Context, buf *audio.Buffer, opts ...Option) (*Unit, error) {
	o := collect(opts)

	stages := []*graph.Stage{
		graph.NewPerActivationStage(SourceStage, native.Command{Kind: native.KindBuffer, Buffer: buf}),
		graph.NewStage(GainStage, native.Command{Kind: native.KindGain}, graph.Bind("gain", GainProperty, 1)),
		graph.NewStage(PanStage, native.Command{Kind: native.KindPanner}, graph.Bind("pan", PanProperty, 0)),
	}
	stages = append(stages, o.effects...)
	stages = append(stages, graph.NewExternalStage(OutputStage, native.Destination))

	g, err := graph.New(ctx, stages, graph.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}

	return NewUnitWithGraph(ctx, g, Duration(buf.Duration()), opts...), nil
}

// NewUnitWithGraph wraps a caller-built graph, e.g. a synthesized voice with
// an oscillator source.
func NewUnitWithGraph(clock Clock, g *graph.Graph, d Duration, opts ...Option) *Unit {
	return &Unit{Playable: NewPlayable(clock, g, opts...), duration: d}
}

func (u *Unit) Duration() Duration { return u.duration }

// Gain is the gain in effect: the live gain parameter when the gain stage
// is materialized, otherwise the gain property.
func (u *Unit) Gain() float64 {
	if p, ok := u.graph.Param(GainStage + ".gain"); ok {
		return p.Value()
	}
	if v, ok := u.graph.Properties().Get(GainProperty); ok {
		return v
	}
	return 1
}

func (u *Unit) PercentGain() float64 { return u.Gain() * 100 }

// Pan is the pan position in [-1,1].
func (u *Unit) Pan() float64 {
	if p, ok := u.graph.Param(PanStage + ".pan"); ok {
		return p.Value()
	}
	v, _ := u.graph.Properties().Get(PanProperty)
	return v
}

// Update sets an owner property and pushes it into any live parameter bound
// to it.
func (u *Unit) Update(property string, v float64) {
	u.graph.Update(property, v)
}

type GainChange struct {
	u     *Unit
	value float64
}

// ChangeGainTo starts a gain change; From picks the scale of value.
func (u *Unit) ChangeGainTo(value float64) GainChange {
	return GainChange{u: u, value: value}
}

// From applies the change clamped to [0,1].
func (c GainChange) From(s Scale) error {
	g, err := s.fraction(c.value)
	if err != nil {
		return err
	}
	c.u.Update(GainProperty, utils.WithinRange(g, 0, 1))
	return nil
}

// ChangePanTo sets pan clamped to [-1,1].
func (u *Unit) ChangePanTo(value float64) {
	u.Update(PanProperty, utils.WithinRange(value, -1, 1))
}

type SeekRequest struct {
	u      *Unit
	amount float64
}

func (u *Unit) Seek(amount float64) SeekRequest {
	return SeekRequest{u: u, amount: amount}
}

func (r SeekRequest) From(s Scale) error {
	return r.u.SeekTo(r.amount, s)
}

// SeekTo moves the start offset, clamped to [0, duration]. A playing unit
// restarts from the new offset; an idle one only remembers it.
func (u *Unit) SeekTo(amount float64, s Scale) error {
	total := u.duration.Seconds()

	offset := amount
	if s != Seconds {
		f, err := s.fraction(amount)
		if err != nil {
			return err
		}
		offset = f * total
	}
	offset = utils.WithinRange(offset, 0, total)

	if !u.IsPlaying() {
		u.SetStartOffset(offset)
		return nil
	}

	if err := u.Stop(); err != nil {
		return err
	}
	u.SetStartOffset(offset)
	return u.Play()
}

// SetBuilder schedules a pinned or ramped value for every activation.
type SetBuilder struct {
	u     *Unit
	path  string
	value float64
}

// OnPlaySet targets a "stage.param" path, e.g. "gain.gain".
func (u *Unit) OnPlaySet(path string) SetBuilder {
	return SetBuilder{u: u, path: path}
}

func (b SetBuilder) To(v float64) SetBuilder {
	b.value = v
	return b
}

// At pins the value t seconds after each activation starts.
func (b SetBuilder) At(t float64) error {
	return b.u.graph.Automate(b.path, graph.At("", b.value, t))
}

// EndingAt reaches the value by t seconds after each activation starts,
// along a linear or exponential curve.
func (b SetBuilder) EndingAt(t float64, curve graph.Kind) error {
	if curve != graph.LinearRamp && curve != graph.ExponentialRamp {
		return fmt.Errorf("%w: %s is not a curve", graph.ErrUnknownKind, curve)
	}
	return b.u.graph.Automate(b.path, graph.RampTo("", b.value, t, curve))
}

// RampBuilder adds an envelope applied on every activation.
type RampBuilder struct {
	u        *Unit
	path     string
	from, to float64
	curve    graph.Kind
}

func (u *Unit) OnPlayRamp(path string) RampBuilder {
	return RampBuilder{u: u, path: path, curve: graph.LinearRamp}
}

func (b RampBuilder) From(v float64) RampBuilder {
	b.from = v
	return b
}

func (b RampBuilder) To(v float64) RampBuilder {
	b.to = v
	return b
}

// Exponential switches the envelope to an exponential curve.
func (b RampBuilder) Exponential() RampBuilder {
	b.curve = graph.ExponentialRamp
	return b
}

func (b RampBuilder) In(seconds float64) error {
	return b.u.graph.Automate(b.path, graph.Ramp("", b.from, b.to, seconds, b.curve)...)
}
