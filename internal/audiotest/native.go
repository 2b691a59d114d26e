// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ik5/audroute/native"
)

var ErrCreateFailed = errors.New("audiotest: create failed")

// Call is one recorded native operation.
type Call struct {
	Op    string // create, connect, start, stop, set, setAt, linear, exp
	Node  string
	To    string
	Param string
	Value float64
	Time  float64
}

// Context records every native call against a settable clock. Its Timers
// advance together with the clock.
type Context struct {
	mu     sync.Mutex
	now    float64
	nextID int
	calls  []Call
	fixed  map[string]*Node

	// FailKinds makes Create fail for the listed kinds.
	FailKinds map[string]bool
	Timers    *Scheduler
}

func NewContext() *Context {
	c := &Context{
		fixed:     make(map[string]*Node),
		FailKinds: make(map[string]bool),
		Timers:    NewScheduler(),
	}
	c.fixed[native.Destination] = c.newNode(native.KindDestination, native.Destination)

	return c
}

func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *Context) SampleRate() int { return 48000 }

// Advance moves the context clock and the timers forward together.
func (c *Context) Advance(seconds float64) {
	c.mu.Lock()
	c.now += seconds
	c.mu.Unlock()

	c.Timers.Advance(seconds)
}

var paramsByKind = map[string][]string{
	native.KindBuffer:     {"playbackRate"},
	native.KindOscillator: {"frequency", "detune"},
	native.KindGain:       {"gain"},
	native.KindPanner:     {"pan"},
	native.KindFilter:     {"frequency", "Q", "gain"},
}

var defaults = map[string]float64{"playbackRate": 1, "gain": 1, "frequency": 440, "Q": 1}

func (c *Context) newNode(kind, id string) *Node {
	n := &Node{ctx: c, id: id, kind: kind, params: make(map[string]*Param)}
	for _, name := range paramsByKind[kind] {
		n.params[name] = &Param{node: n, name: name, value: defaults[name]}
	}
	return n
}

func (c *Context) Create(cmd native.Command) (native.Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.FailKinds[cmd.Kind] {
		return nil, fmt.Errorf("%w: %s", ErrCreateFailed, cmd.Kind)
	}

	c.nextID++
	n := c.newNode(cmd.Kind, fmt.Sprintf("%s#%d", cmd.Kind, c.nextID))
	c.calls = append(c.calls, Call{Op: "create", Node: n.id})

	if cmd.Kind == native.KindBuffer || cmd.Kind == native.KindOscillator {
		return &SourceNode{Node: n}, nil
	}
	return n, nil
}

func (c *Context) Connect(from, to native.Node) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, Call{Op: "connect", Node: idOf(from), To: idOf(to)})
	return nil
}

func (c *Context) Lookup(path string) (native.Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.fixed[path]
	return n, ok
}

func (c *Context) record(call Call) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, call)
}

// Calls returns the recorded operations, optionally filtered by op.
func (c *Context) Calls(ops ...string) []Call {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(ops) == 0 {
		return append([]Call(nil), c.calls...)
	}
	var out []Call
	for _, call := range c.calls {
		for _, op := range ops {
			if call.Op == op {
				out = append(out, call)
			}
		}
	}
	return out
}

// Reset forgets recorded calls.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = nil
}

func idOf(n native.Node) string {
	switch v := n.(type) {
	case *Node:
		return v.id
	case *SourceNode:
		return v.id
	}
	return n.Kind()
}

type Node struct {
	ctx    *Context
	id     string
	kind   string
	params map[string]*Param
}

func (n *Node) ID() string   { return n.id }
func (n *Node) Kind() string { return n.kind }

func (n *Node) Param(name string) (native.Param, bool) {
	p, ok := n.params[name]
	if !ok {
		return nil, false
	}
	return p, true
}

type SourceNode struct {
	*Node
}

func (s *SourceNode) Start(when, offset float64) error {
	s.ctx.record(Call{Op: "start", Node: s.id, Time: when, Value: offset})
	return nil
}

func (s *SourceNode) Stop(when float64) error {
	s.ctx.record(Call{Op: "stop", Node: s.id, Time: when})
	return nil
}

// Param records automation and keeps the last assigned value.
type Param struct {
	mu    sync.Mutex
	node  *Node
	name  string
	value float64
}

func (p *Param) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.value
}

func (p *Param) set(op string, v, t float64) {
	p.mu.Lock()
	p.value = v
	p.mu.Unlock()

	p.node.ctx.record(Call{Op: op, Node: p.node.id, Param: p.name, Value: v, Time: t})
}

func (p *Param) SetValue(v float64)                        { p.set("set", v, p.node.ctx.CurrentTime()) }
func (p *Param) SetValueAtTime(v, t float64)               { p.set("setAt", v, t) }
func (p *Param) LinearRampToValueAtTime(v, t float64)      { p.set("linear", v, t) }
func (p *Param) ExponentialRampToValueAtTime(v, t float64) { p.set("exp", v, t) }
