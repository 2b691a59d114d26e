// SPDX-License-Identifier: EPL-2.0

package graph

import "sync"

// Properties are the owner's named values that automation entries read
// through their Source path.
type Properties struct {
	mu     sync.RWMutex
	values map[string]float64
}

func NewProperties() *Properties {
	return &Properties{values: make(map[string]float64)}
}

func (p *Properties) Get(name string) (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v, ok := p.values[name]
	return v, ok
}

func (p *Properties) Set(name string, v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.values[name] = v
}
