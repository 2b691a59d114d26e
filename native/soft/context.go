// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"

	"github.com/ik5/audroute/native"
	"github.com/ik5/audroute/utils"
)

// blockFrames is how many frames are rendered between parameter prunes and
// finished source cleanups.
const blockFrames = 128

// Channels is the output layout: interleaved stereo.
const Channels = 2

type Option func(*Context)

func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// Context is a software audio engine. Its clock only moves while it renders,
// so time is exactly frames rendered divided by the sample rate.
type Context struct {
	mu     sync.Mutex
	rate   int
	frame  int64
	dest   *Destination
	scrap  []float32
	logger *slog.Logger
}

func NewContext(rate int, opts ...Option) *Context {
	c := &Context{rate: rate, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.dest = newDestination(c)

	return c
}

func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now()
}

func (c *Context) now() float64 {
	return float64(c.frame) / float64(c.rate)
}

func (c *Context) SampleRate() int { return c.rate }

// frameAt converts a context time to the first frame at or after it, never
// earlier than the current frame.
func (c *Context) frameAt(t float64) int64 {
	f := int64(math.Ceil(t*float64(c.rate) - 1e-6))
	return max(f, c.frame)
}

func (c *Context) Create(cmd native.Command) (native.Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := c.create(cmd)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("node created", "kind", cmd.Kind, "time", c.now())

	return n, nil
}

func (c *Context) create(cmd native.Command) (native.Node, error) {
	switch cmd.Kind {
	case native.KindBuffer:
		if cmd.Buffer == nil || cmd.Buffer.Frames() == 0 {
			return nil, ErrMissingBuffer
		}
		loop, err := boolOption(cmd.Options, "loop")
		if err != nil {
			return nil, err
		}
		return newBufferSource(c, cmd.Buffer, loop), nil

	case native.KindOscillator:
		shape := cmd.Options["type"]
		if shape == "" {
			shape = "sine"
		}
		if _, ok := waveforms[shape]; !ok {
			return nil, fmt.Errorf("%w: oscillator type %q", ErrInvalidOption, shape)
		}
		return newOscillator(c, shape), nil

	case native.KindGain:
		return newGain(c), nil

	case native.KindPanner:
		return newPanner(c), nil

	case native.KindFilter:
		mode := cmd.Options["type"]
		if mode == "" {
			mode = "lowpass"
		}
		if _, ok := filterModes[mode]; !ok {
			return nil, fmt.Errorf("%w: filter type %q", ErrInvalidOption, mode)
		}
		return newFilter(c, mode), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cmd.Kind)
}

func boolOption(opts map[string]string, name string) (bool, error) {
	s, ok := opts[name]
	if !ok || s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidOption, name, s)
	}
	return v, nil
}

// Connect routes from into to. Connecting the same pair twice is a no-op.
func (c *Context) Connect(from, to native.Node) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, ok := from.(renderer)
	if !ok || src.core().ctx != c {
		return fmt.Errorf("%w: %s", ErrForeignNode, from.Kind())
	}
	dst, ok := to.(renderer)
	if !ok || dst.core().ctx != c {
		return fmt.Errorf("%w: %s", ErrForeignNode, to.Kind())
	}
	if _, ok := to.(startable); ok {
		return fmt.Errorf("%w: %s", ErrNoInput, to.Kind())
	}

	b := dst.core()
	for _, in := range b.inputs {
		if in == src {
			return nil
		}
	}
	b.inputs = append(b.inputs, src)
	c.logger.Debug("nodes connected", "from", from.Kind(), "to", to.Kind(), "inputs", len(b.inputs))

	return nil
}

// Lookup resolves fixed paths. Only native.Destination exists.
func (c *Context) Lookup(path string) (native.Node, bool) {
	if path == native.Destination {
		return c.dest, true
	}
	return nil, false
}

// Render fills dst with interleaved stereo frames and advances the clock.
func (c *Context) Render(dst []float32) error {
	if len(dst)%Channels != 0 {
		return fmt.Errorf("%w: %d samples", ErrOddRender, len(dst))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for len(dst) > 0 {
		frames := min(len(dst)/Channels, blockFrames)
		out := c.dest.pull(c.frame, frames)
		copy(dst, out)
		dst = dst[frames*Channels:]

		c.frame += int64(frames)
	}

	return nil
}

// Read renders 16-bit little-endian stereo PCM, the format output devices
// pull. It never returns an error.
func (c *Context) Read(p []byte) (int, error) {
	frames := len(p) / (2 * Channels)
	if frames == 0 {
		return 0, nil
	}

	n := frames * Channels
	if cap(c.scrap) < n {
		c.scrap = make([]float32, n)
	}
	buf := c.scrap[:n]
	if err := c.Render(buf); err != nil {
		return 0, err
	}

	return utils.PutInt16LE(p, buf), nil
}
