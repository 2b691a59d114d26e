// SPDX-License-Identifier: EPL-2.0

package sound_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audroute/internal/audiotest"
	"github.com/ik5/audroute/sound"
)

func TestTransport_PauseResume(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	tr, err := sound.NewTransport(ctx, clip(t, 10), sound.WithScheduler(ctx.Timers))
	require.NoError(t, err)

	require.NoError(t, tr.Play())
	ctx.Advance(2)
	assert.InDelta(t, 2.0, tr.Position(), 1e-9)

	require.NoError(t, tr.Pause())
	assert.False(t, tr.IsPlaying())
	assert.InDelta(t, 2.0, tr.Position(), 1e-9)

	ctx.Advance(5)
	require.NoError(t, tr.Resume())
	starts := ctx.Calls("start")
	require.Len(t, starts, 2)
	assert.InDelta(t, 2.0, starts[1].Value, 1e-9)

	ctx.Advance(30)
	assert.InDelta(t, 10.0, tr.Position(), 1e-9)
}

func TestTransport_PauseWithStopQueued(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	tr, err := sound.NewTransport(ctx, clip(t, 60), sound.WithScheduler(ctx.Timers))
	require.NoError(t, err)

	require.NoError(t, tr.SeekTo(30, sound.Seconds))
	require.NoError(t, tr.PlayFor(10))
	ctx.Advance(2)

	assert.True(t, tr.IsPlaying())
	assert.InDelta(t, 30.0, tr.StartOffset(), 1e-9)
	assert.InDelta(t, 32.0, tr.Position(), 1e-9)

	require.NoError(t, tr.Pause())
	assert.False(t, tr.IsPlaying())
	assert.InDelta(t, 32.0, tr.StartOffset(), 1e-9)

	// the stop queued by PlayFor must not wipe the paused play head
	ctx.Advance(10)
	assert.InDelta(t, 32.0, tr.Position(), 1e-9)

	require.NoError(t, tr.Resume())
	starts := ctx.Calls("start")
	require.Len(t, starts, 2)
	assert.InDelta(t, 32.0, starts[1].Value, 1e-9)
}

func TestTransport_Watch(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	tr, err := sound.NewTransport(ctx, clip(t, 10), sound.WithScheduler(ctx.Timers))
	require.NoError(t, err)
	require.NoError(t, tr.SeekTo(3, sound.Seconds))

	watchCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan float64, 1)
	tr.Watch(watchCtx, time.Millisecond, func(pos float64) {
		select {
		case got <- pos:
		default:
		}
	})

	select {
	case pos := <-got:
		assert.InDelta(t, 3.0, pos, 1e-9)
	case <-time.After(time.Second):
		t.Fatal("watch never reported")
	}
}

type failing struct {
	sound.Player
	err error
}

func (f failing) Play() error { return f.err }

func TestLayer_FansOut(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext()
	a := newUnit(t, ctx, 10)
	b := newUnit(t, ctx, 10)
	l := sound.NewLayer(a, b)

	require.NoError(t, l.PlayIn(1))
	assert.False(t, l.IsPlaying())
	ctx.Advance(1)
	assert.True(t, a.IsPlaying())
	assert.True(t, b.IsPlaying())

	require.NoError(t, l.SeekTo(0.5, sound.Ratio))
	starts := ctx.Calls("start")
	require.Len(t, starts, 4)
	assert.InDelta(t, 5.0, starts[3].Value, 1e-9)

	require.NoError(t, l.Stop())
	assert.False(t, l.IsPlaying())

	boom := errors.New("boom")
	l.Add(failing{Player: a, err: boom})
	assert.Len(t, l.Members(), 3)
	require.ErrorIs(t, l.Play(), boom)
	assert.True(t, b.IsPlaying())
}
