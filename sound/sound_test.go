// SPDX-License-Identifier: EPL-2.0

package sound_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/graph"
	"github.com/ik5/audroute/internal/audiotest"
	"github.com/ik5/audroute/native"
	"github.com/ik5/audroute/sound"
)

// clip is a silent mono buffer at 100 Hz, which keeps long durations cheap.
func clip(t *testing.T, seconds float64) *audio.Buffer {
	t.Helper()

	buf, err := audio.NewBuffer(100, 1, make([]float32, int(seconds*100)))
	require.NoError(t, err)
	return buf
}

func newUnit(t *testing.T, ctx *audiotest.Context, seconds float64, opts ...sound.Option) *sound.Unit {
	t.Helper()

	opts = append([]sound.Option{sound.WithScheduler(ctx.Timers)}, opts...)
	u, err := sound.NewUnit(ctx, clip(t, seconds), opts...)
	require.NoError(t, err)
	return u
}

func TestUnit_GainIsClamped(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	u := newUnit(t, ctx, 1)

	require.NoError(t, u.ChangeGainTo(1.5).From(sound.Ratio))
	assert.InDelta(t, 1.0, u.Gain(), 1e-9)

	require.NoError(t, u.ChangeGainTo(-0.2).From(sound.Ratio))
	assert.InDelta(t, 0.0, u.Gain(), 1e-9)

	require.NoError(t, u.ChangeGainTo(25).From(sound.Percent))
	assert.InDelta(t, 25.0, u.PercentGain(), 1e-9)

	require.NoError(t, u.ChangeGainTo(0.25).From(sound.InverseRatio))
	assert.InDelta(t, 0.75, u.Gain(), 1e-9)

	err := u.ChangeGainTo(3).From(sound.Seconds)
	require.ErrorIs(t, err, sound.ErrUnsupportedScale)
}

func TestUnit_GainReachesLiveParam(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	u := newUnit(t, ctx, 1)

	require.NoError(t, u.ChangeGainTo(0.4).From(sound.Ratio))
	require.NoError(t, u.Play())

	p, ok := u.Graph().Param(sound.GainStage + ".gain")
	require.True(t, ok)
	assert.InDelta(t, 0.4, p.Value(), 1e-9)

	u.ChangePanTo(-3)
	assert.InDelta(t, -1.0, u.Pan(), 1e-9)
}

func TestUnit_PlayInFlipsFlagLater(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	u := newUnit(t, ctx, 4)

	require.NoError(t, u.PlayIn(1))
	assert.False(t, u.IsPlaying())

	starts := ctx.Calls("start")
	require.Len(t, starts, 1)
	assert.InDelta(t, 1.0, starts[0].Time, 1e-9)

	ctx.Advance(0.5)
	assert.False(t, u.IsPlaying())

	ctx.Advance(0.5)
	assert.True(t, u.IsPlaying())
	assert.InDelta(t, 1.0, u.StartedAt(), 1e-9)
}

func TestUnit_PlayForAndStopAfter(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	u := newUnit(t, ctx, 10)

	var changes []bool
	u.OnChange(func(playing bool) { changes = append(changes, playing) })

	require.NoError(t, u.PlayFor(2))
	assert.True(t, u.IsPlaying())

	ctx.Advance(2)
	assert.False(t, u.IsPlaying())

	require.NoError(t, u.PlayInAndStopAfter(1, 3))
	ctx.Advance(1)
	assert.True(t, u.IsPlaying())
	ctx.Advance(3)
	assert.False(t, u.IsPlaying())

	assert.Equal(t, []bool{true, false, true, false}, changes)

	var times []float64
	for _, c := range ctx.Calls("start", "stop") {
		times = append(times, c.Time)
	}
	if diff := cmp.Diff([]float64{0, 2, 3, 6}, times, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("start/stop times mismatch (-want +got):\n%s", diff)
	}
}

func TestUnit_EachActivationGetsFreshSource(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	u := newUnit(t, ctx, 1)

	require.NoError(t, u.Play())
	require.NoError(t, u.Play())

	starts := ctx.Calls("start")
	require.Len(t, starts, 2)
	assert.NotEqual(t, starts[0].Node, starts[1].Node)

	// gain and pan are persistent: one buffer per play, one gain and one
	// panner overall
	assert.Len(t, ctx.Calls("create"), 4)
}

func TestUnit_StopWithoutPlayIsNoop(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	u := newUnit(t, ctx, 1)

	require.NoError(t, u.Stop())
	assert.Empty(t, ctx.Calls("stop"))
	assert.False(t, u.IsPlaying())
}

func TestUnit_SeekWhileIdle(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	u := newUnit(t, ctx, 65)

	assert.Equal(t, "01:05", u.Duration().String())

	require.NoError(t, u.Seek(0.5).From(sound.Ratio))
	assert.InDelta(t, 32.5, u.StartOffset(), 1e-9)

	// repeating is harmless and schedules nothing
	require.NoError(t, u.Seek(0.5).From(sound.Ratio))
	assert.InDelta(t, 32.5, u.StartOffset(), 1e-9)
	assert.Empty(t, ctx.Calls("start", "stop"))

	require.NoError(t, u.SeekTo(90, sound.Seconds))
	assert.InDelta(t, 65.0, u.StartOffset(), 1e-9)

	require.NoError(t, u.SeekTo(-1, sound.Seconds))
	assert.InDelta(t, 0.0, u.StartOffset(), 1e-9)
}

func TestUnit_SeekWhilePlayingRestarts(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	u := newUnit(t, ctx, 10)

	require.NoError(t, u.Play())
	require.NoError(t, u.Seek(50).From(sound.Percent))

	calls := ctx.Calls("start", "stop")
	require.Len(t, calls, 3)
	assert.Equal(t, "stop", calls[1].Op)
	assert.Equal(t, "start", calls[2].Op)
	assert.InDelta(t, 5.0, calls[2].Value, 1e-9)
	assert.True(t, u.IsPlaying())

	// stopping resets the offset for the next play
	require.NoError(t, u.Stop())
	assert.InDelta(t, 0.0, u.StartOffset(), 1e-9)
}

func TestUnit_OffsetHeldUntilStopFires(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	u := newUnit(t, ctx, 10)

	require.NoError(t, u.SeekTo(4, sound.Seconds))
	require.NoError(t, u.Play())
	require.NoError(t, u.StopIn(3))

	assert.InDelta(t, 4.0, u.StartOffset(), 1e-9)
	ctx.Advance(2)
	assert.InDelta(t, 4.0, u.StartOffset(), 1e-9)
	assert.True(t, u.IsPlaying())

	ctx.Advance(1)
	assert.InDelta(t, 0.0, u.StartOffset(), 1e-9)
	assert.False(t, u.IsPlaying())
}

func TestUnit_StaleStopKeepsNewerSeek(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	u := newUnit(t, ctx, 10)

	require.NoError(t, u.PlayInAndStopAfter(1, 5))
	require.NoError(t, u.Stop())
	require.NoError(t, u.SeekTo(6, sound.Seconds))

	ctx.Advance(10)
	assert.InDelta(t, 6.0, u.StartOffset(), 1e-9)
	assert.False(t, u.IsPlaying())
}

func TestUnit_OnPlayEnvelopes(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	u := newUnit(t, ctx, 4)

	require.NoError(t, u.OnPlayRamp("gain.gain").From(0).To(1).In(0.5))
	require.NoError(t, u.OnPlaySet("pan.pan").To(0.5).At(1))
	require.Error(t, u.OnPlaySet("gain.gain").To(1).EndingAt(1, graph.SetAtTime))
	require.ErrorIs(t, u.OnPlaySet("nope.gain").To(1).At(1), graph.ErrUnknownStage)

	ctx.Advance(2)
	require.NoError(t, u.Play())

	type timed struct {
		Op    string
		Param string
		Value float64
		Time  float64
	}
	var got []timed
	for _, c := range ctx.Calls("setAt", "linear") {
		got = append(got, timed{c.Op, c.Param, c.Value, c.Time})
	}
	want := []timed{
		{"setAt", "gain", 0, 2},
		{"linear", "gain", 1, 2.5},
		{"setAt", "pan", 0.5, 3},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("automation mismatch (-want +got):\n%s", diff)
	}
}

func TestUnit_EffectsSitBeforeOutput(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	lp := graph.NewStage("lp", native.Command{Kind: native.KindFilter, Options: map[string]string{"type": "lowpass"}})
	u := newUnit(t, ctx, 1, sound.WithEffects(lp))

	require.NoError(t, u.Play())

	connects := ctx.Calls("connect")
	require.Len(t, connects, 4)
	assert.Equal(t, native.Destination, connects[3].To)
	assert.Contains(t, connects[3].Node, native.KindFilter)
}

func TestDuration_Split(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    sound.Duration
		want string
	}{
		{0, "00:00"},
		{59.9, "00:59"},
		{65, "01:05"},
		{3600, "60:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.String())
	}
}
