// SPDX-License-Identifier: EPL-2.0

package graph_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/ik5/audroute/graph"
	"github.com/ik5/audroute/internal/audiotest"
	"github.com/ik5/audroute/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(n int) []*graph.Stage {
	stages := []*graph.Stage{
		graph.NewPerActivationStage("source", native.Command{Kind: native.KindBuffer}),
	}
	for i := 1; i < n-1; i++ {
		stages = append(stages, graph.NewStage(string(rune('a'+i)), native.Command{Kind: native.KindGain}))
	}
	return append(stages, graph.NewExternalStage("out", native.Destination))
}

func connects(ctx *audiotest.Context) [][2]string {
	var out [][2]string
	for _, c := range ctx.Calls("connect") {
		out = append(out, [2]string{c.Node, c.To})
	}
	return out
}

func TestWire_ConnectsAdjacentPairsInOrder(t *testing.T) {
	t.Parallel()

	for _, n := range []int{2, 3, 5, 8} {
		ctx := audiotest.NewContext()
		g, err := graph.New(ctx, chain(n))
		require.NoError(t, err)

		require.NoError(t, g.Wire(0))

		got := connects(ctx)
		require.Len(t, got, n-1, "n=%d", n)

		stages := g.Stages()
		for i, pair := range got {
			from := stages[i].Unit().(interface{ ID() string }).ID()
			to := stages[i+1].Unit()
			assert.Equal(t, from, pair[0])
			if to.Kind() == native.KindDestination {
				assert.Equal(t, native.Destination, pair[1])
			} else {
				assert.Equal(t, to.(interface{ ID() string }).ID(), pair[1])
			}
		}
	}
}

func TestWire_PolicyMaterialization(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	g, err := graph.New(ctx, chain(3))
	require.NoError(t, err)

	require.NoError(t, g.Wire(0))
	src1, ok := g.Source()
	require.True(t, ok)
	gain, _ := g.Stage("b")
	gain1 := gain.Unit()

	require.NoError(t, g.Wire(1))
	src2, _ := g.Source()

	assert.NotSame(t, src1, src2, "per-activation stage must get a fresh unit")
	assert.Same(t, gain1, gain.Unit(), "persistent stage must be reused")

	// two sources and one gain, destination is never created
	want := []audiotest.Call{
		{Op: "create", Node: "buffer#1"},
		{Op: "create", Node: "gain#2"},
		{Op: "create", Node: "buffer#3"},
	}
	if diff := cmp.Diff(want, ctx.Calls("create")); diff != "" {
		t.Errorf("create calls mismatch (-want +got):\n%s", diff)
	}

	// rewiring repeats the connects
	assert.Len(t, connects(ctx), 4)
}

func TestWire_ConfigurationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stage *graph.Stage
	}{
		{"no command", &graph.Stage{Name: "broken"}},
		{"unknown path", graph.NewExternalStage("broken", "nowhere")},
		{"external with only a command", &graph.Stage{Name: "broken", Policy: graph.External, Command: native.Command{Kind: native.KindGain}}},
		{"per-activation without command", &graph.Stage{Name: "broken", Policy: graph.PerActivation}},
		{"unknown param", graph.NewStage("broken", native.Command{Kind: native.KindGain}, graph.Set("cutoff", 1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := audiotest.NewContext()
			stages := []*graph.Stage{
				graph.NewPerActivationStage("source", native.Command{Kind: native.KindBuffer}),
				graph.NewStage("gain", native.Command{Kind: native.KindGain}),
				tt.stage,
			}
			g, err := graph.New(ctx, stages)
			require.NoError(t, err)

			err = g.Wire(0)
			require.ErrorIs(t, err, graph.ErrConfiguration)

			var cfg *graph.ConfigurationError
			require.True(t, errors.As(err, &cfg))
			assert.Equal(t, "broken", cfg.Stage)

			// the connection made before the failing stage stays
			assert.Len(t, connects(ctx), 1)
		})
	}
}

func TestWire_CreateFailure(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	ctx.FailKinds[native.KindFilter] = true
	g, err := graph.New(ctx, []*graph.Stage{
		graph.NewStage("filter", native.Command{Kind: native.KindFilter}),
	})
	require.NoError(t, err)

	err = g.Wire(0)
	assert.ErrorIs(t, err, graph.ErrConfiguration)
	assert.ErrorIs(t, err, audiotest.ErrCreateFailed)
}

func TestWire_PreSuppliedUnit(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	unit, err := ctx.Create(native.Command{Kind: native.KindGain})
	require.NoError(t, err)
	ctx.Reset()

	g, err := graph.New(ctx, []*graph.Stage{
		graph.NewStageWithUnit("given", unit, graph.Set("gain", 0.5)),
		graph.NewExternalStage("out", native.Destination),
	})
	require.NoError(t, err)
	require.NoError(t, g.Wire(0))

	assert.Empty(t, ctx.Calls("create"))
	p, _ := unit.Param("gain")
	assert.Equal(t, 0.5, p.Value())
}

func TestNew_RejectsBadNames(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	_, err := graph.New(ctx, []*graph.Stage{
		graph.NewStage("gain", native.Command{Kind: native.KindGain}),
		graph.NewStage("gain", native.Command{Kind: native.KindGain}),
	})
	assert.ErrorIs(t, err, graph.ErrConfiguration)

	_, err = graph.New(ctx, []*graph.Stage{{}})
	assert.ErrorIs(t, err, graph.ErrConfiguration)
}

func TestAutomation_AppliedAtAnchor(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	entries := append([]graph.Automation{graph.Set("gain", 0.9)},
		graph.Ramp("gain", 1, 0.01, 0.3, graph.ExponentialRamp)...)
	entries = append(entries,
		graph.At("gain", 0.4, 0.1),
		graph.RampTo("gain", 0.2, 0.2, graph.LinearRamp),
	)
	g, err := graph.New(ctx, []*graph.Stage{
		graph.NewStage("amp", native.Command{Kind: native.KindGain}, entries...),
	})
	require.NoError(t, err)

	require.NoError(t, g.Wire(2))

	want := []audiotest.Call{
		{Op: "set", Node: "gain#1", Param: "gain", Value: 0.9, Time: 0},
		{Op: "setAt", Node: "gain#1", Param: "gain", Value: 1, Time: 2},
		{Op: "exp", Node: "gain#1", Param: "gain", Value: 0.01, Time: 2.3},
		{Op: "setAt", Node: "gain#1", Param: "gain", Value: 0.4, Time: 2.1},
		{Op: "linear", Node: "gain#1", Param: "gain", Value: 0.2, Time: 2.2},
	}
	got := ctx.Calls("set", "setAt", "linear", "exp")
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("automation mismatch (-want +got):\n%s", diff)
	}
}

func TestAutomation_SourcePathAndUpdate(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	props := graph.NewProperties()
	g, err := graph.New(ctx, []*graph.Stage{
		graph.NewStage("amp", native.Command{Kind: native.KindGain}, graph.Bind("gain", "volume", 0.7)),
	}, graph.WithProperties(props))
	require.NoError(t, err)

	// property unset: falls back to the literal
	require.NoError(t, g.Wire(0))
	p, ok := g.Param("amp.gain")
	require.True(t, ok)
	assert.Equal(t, 0.7, p.Value())

	props.Set("volume", 0.3)
	require.NoError(t, g.Wire(0))
	assert.Equal(t, 0.3, p.Value())

	// live update reaches the bound param without rewiring
	g.Update("volume", 0.55)
	assert.Equal(t, 0.55, p.Value())
	v, _ := props.Get("volume")
	assert.Equal(t, 0.55, v)

	_, ok = g.Param("amp.missing")
	assert.False(t, ok)
	_, ok = g.Param("amp")
	assert.False(t, ok)
}

func TestAutomate(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	g, err := graph.New(ctx, []*graph.Stage{
		graph.NewStage("amp", native.Command{Kind: native.KindGain}),
	})
	require.NoError(t, err)

	require.NoError(t, g.Automate("amp.gain", graph.At("", 0.25, 0.5)))
	require.NoError(t, g.Wire(1))

	got := ctx.Calls("setAt")
	require.Len(t, got, 1)
	assert.Equal(t, 1.5, got[0].Time)
	assert.Equal(t, "gain", got[0].Param)

	assert.ErrorIs(t, g.Automate("nope.gain", graph.Set("", 1)), graph.ErrUnknownStage)
	assert.ErrorIs(t, g.Automate("amp", graph.Set("", 1)), graph.ErrUnknownStage)
}

func TestSource_NotASource(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	g, err := graph.New(ctx, []*graph.Stage{
		graph.NewStage("amp", native.Command{Kind: native.KindGain}),
	})
	require.NoError(t, err)

	_, ok := g.Source()
	assert.False(t, ok, "unwired graph has no source")

	require.NoError(t, g.Wire(0))
	_, ok = g.Source()
	assert.False(t, ok, "gain is not startable")
}

func TestParseKindAndPolicy(t *testing.T) {
	t.Parallel()

	for _, k := range []graph.Kind{graph.SetImmediately, graph.SetAtTime, graph.LinearRamp, graph.ExponentialRamp} {
		got, err := graph.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := graph.ParseKind("cubic")
	assert.ErrorIs(t, err, graph.ErrUnknownKind)

	for _, p := range []graph.Policy{graph.Persistent, graph.PerActivation, graph.External} {
		got, err := graph.ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err = graph.ParsePolicy("sometimes")
	assert.ErrorIs(t, err, graph.ErrUnknownPolicy)
}
