// Package status holds runtime counters shared between the scheduler,
// services and entities. Writers cache metric pointers once and update the
// atomics directly; readers take a sorted snapshot.
package status

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Metrics is a lazily populated set of named metrics of one kind
type Metrics[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

func newMetrics[T any]() *Metrics[T] {
	return &Metrics[T]{items: make(map[string]*T)}
}

// Get returns the metric for key, allocating it on first use
func (m *Metrics[T]) Get(key string) *T {
	m.mu.RLock()
	p, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		return p
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.items[key]; ok {
		return p
	}
	p = new(T)
	m.items[key] = p
	return p
}

func (m *Metrics[T]) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key]
	return ok
}

// Range visits metrics in key order
func (m *Metrics[T]) Range(fn func(key string, p *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(k, m.items[k])
	}
}

func (m *Metrics[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Registry groups counters, gauges and labels
type Registry struct {
	Ints   *Metrics[atomic.Int64]
	Floats *Metrics[Float]
	Labels *Metrics[Label]
}

func NewRegistry() *Registry {
	return &Registry{
		Ints:   newMetrics[atomic.Int64](),
		Floats: newMetrics[Float](),
		Labels: newMetrics[Label](),
	}
}

func (r *Registry) Len() int {
	return r.Ints.Len() + r.Floats.Len() + r.Labels.Len()
}

// Snapshot flattens every metric into key=value strings sorted by key
func (r *Registry) Snapshot() []string {
	var out []string
	r.Ints.Range(func(k string, p *atomic.Int64) {
		out = append(out, fmt.Sprintf("%s=%d", k, p.Load()))
	})
	r.Floats.Range(func(k string, p *Float) {
		out = append(out, fmt.Sprintf("%s=%.2f", k, p.Load()))
	})
	r.Labels.Range(func(k string, p *Label) {
		out = append(out, fmt.Sprintf("%s=%s", k, p.Load()))
	})
	sort.Strings(out)
	return out
}
