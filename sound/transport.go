// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"context"
	"time"

	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/native"
	"github.com/ik5/audroute/utils"
)

// Transport is a unit with a live play head that can pause and resume.
type Transport struct {
	*Unit
}

func NewTransport(ctx native.Context, buf *audio.Buffer, opts ...Option) (*Transport, error) {
	u, err := NewUnit(ctx, buf, opts...)
	if err != nil {
		return nil, err
	}
	return &Transport{Unit: u}, nil
}

// Position is the play head in seconds, clamped to the duration.
func (t *Transport) Position() float64 {
	t.mu.Lock()
	playing, startedAt, offset := t.playing, t.startedAt, t.startOffset
	t.mu.Unlock()

	if !playing {
		return offset
	}
	elapsed := t.clock.CurrentTime() - startedAt
	return utils.WithinRange(offset+max(elapsed, 0), 0, t.duration.Seconds())
}

// Pause stops playback and keeps the play head for Resume.
func (t *Transport) Pause() error {
	pos := t.Position()
	if err := t.Stop(); err != nil {
		return err
	}
	t.SetStartOffset(pos)
	return nil
}

// Resume plays from the stored play head.
func (t *Transport) Resume() error {
	return t.Play()
}

// Watch publishes the play head every interval until ctx is done. It
// returns immediately.
func (t *Transport) Watch(ctx context.Context, every time.Duration, fn func(position float64)) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(t.Position())
			}
		}
	}()
}
