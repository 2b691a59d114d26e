// SPDX-License-Identifier: EPL-2.0

package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeconds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1500*time.Millisecond, Seconds(1.5))
	assert.Equal(t, 250*time.Millisecond, Seconds(0.25))
}

func TestWall_ImmediateRunsInline(t *testing.T) {
	t.Parallel()

	ran := false
	Wall{}.After(0, func() { ran = true })
	assert.True(t, ran)
}

func TestWall_Deferred(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	Wall{}.After(0.01, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("deferred callback never ran")
	}
}

func TestStepped_RunsDueInOrder(t *testing.T) {
	t.Parallel()

	s := NewStepped()
	var got []string

	s.After(2, func() { got = append(got, "b") })
	s.After(1, func() {
		got = append(got, "a")
		// lands before b within the same Advance
		s.After(0.5, func() { got = append(got, "a+") })
	})
	s.After(2, func() { got = append(got, "c") })
	s.After(0, func() { got = append(got, "now") })

	s.Advance(1.9)
	assert.Equal(t, []string{"now", "a", "a+"}, got)
	assert.Equal(t, 2, s.Pending())
	assert.InDelta(t, 1.9, s.Now(), 1e-12)

	s.Advance(0.1)
	assert.Equal(t, []string{"now", "a", "a+", "b", "c"}, got)
	assert.Zero(t, s.Pending())
}
