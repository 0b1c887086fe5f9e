// Package service orders and drives the lifecycle of the game's
// infrastructure services
package service

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrDuplicate  = errors.New("service already registered")
	ErrUnknownDep = errors.New("unregistered dependency")
	ErrCycle      = errors.New("circular service dependency")
)

// Hub owns service instances and runs them in dependency order
type Hub struct {
	mu          sync.Mutex
	log         *zap.Logger
	services    map[string]Service
	sorted      []string // topological order, computed on InitAll
	initialized []string
	started     []string
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:      log.Named("hub"),
		services: make(map[string]Service),
	}
}

func (h *Hub) Register(svc Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, ok := h.services[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	h.services[name] = svc
	h.sorted = nil
	return nil
}

func (h *Hub) Get(name string) (Service, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	svc, ok := h.services[name]
	return svc, ok
}

// InitAll initializes every service in dependency order
// On failure the already initialized services are stopped in reverse
func (h *Hub) InitAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sorted == nil {
		order, err := h.topologicalSort()
		if err != nil {
			return err
		}
		h.sorted = order
	}

	h.initialized = h.initialized[:0]
	for _, name := range h.sorted {
		if err := h.services[name].Init(); err != nil {
			h.stopReverse(h.initialized)
			h.initialized = nil
			return fmt.Errorf("service %s init: %w", name, err)
		}
		h.initialized = append(h.initialized, name)
		h.log.Debug("service initialized", zap.String("service", name))
	}
	return nil
}

// StartAll starts services in the order they were initialized
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.started = h.started[:0]
	for _, name := range h.sorted {
		if err := h.services[name].Start(); err != nil {
			h.stopReverse(h.initialized)
			h.initialized = nil
			h.started = nil
			return fmt.Errorf("service %s start: %w", name, err)
		}
		h.started = append(h.started, name)
		h.log.Debug("service started", zap.String("service", name))
	}
	return nil
}

// StopAll stops every initialized service in reverse order and reports
// all failures together
func (h *Hub) StopAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	err := h.stopReverse(h.initialized)
	h.initialized = nil
	h.started = nil
	return err
}

func (h *Hub) stopReverse(names []string) error {
	var errs error
	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]
		if err := h.services[name].Stop(); err != nil {
			h.log.Warn("service stop failed", zap.String("service", name), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("service %s stop: %w", name, err))
		}
	}
	return errs
}

// topologicalSort orders services with Kahn's algorithm, ties broken by name
func (h *Hub) topologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(h.services))
	dependents := make(map[string][]string)

	for name := range h.services {
		inDegree[name] = 0
	}
	for name, svc := range h.services {
		for _, dep := range svc.Dependencies() {
			if _, ok := h.services[dep]; !ok {
				return nil, fmt.Errorf("%w: %s needs %s", ErrUnknownDep, name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var queue []string
	for name, d := range inDegree {
		if d == 0 {
			queue = append(queue, name)
		}
	}
	slices.Sort(queue)

	result := make([]string, 0, len(h.services))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		result = append(result, name)

		var ready []string
		for _, dep := range dependents[name] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
		slices.Sort(ready)
		queue = append(queue, ready...)
	}

	if len(result) != len(h.services) {
		return nil, ErrCycle
	}
	return result, nil
}

// Order returns the resolved initialization order, empty before InitAll
func (h *Hub) Order() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.sorted...)
}
