// Package catalog is the read-only contract to the external event catalog.
// The cart core looks events up here and never mutates them.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fjod/moment_cart/internal/domain"
)

var ErrEventNotFound = errors.New("event not found in catalog")

type Provider interface {
	Event(ctx context.Context, id string) (domain.Event, error)
}

// MemoryProvider serves a fixed event set, loaded at startup or seeded by
// tests.
type MemoryProvider struct {
	m      sync.RWMutex
	events map[string]domain.Event
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{events: make(map[string]domain.Event)}
}

func (p *MemoryProvider) Put(event domain.Event) {
	p.m.Lock()
	defer p.m.Unlock()
	p.events[event.ID] = event
}

func (p *MemoryProvider) Event(_ context.Context, id string) (domain.Event, error) {
	p.m.RLock()
	defer p.m.RUnlock()
	event, ok := p.events[id]
	if !ok {
		return domain.Event{}, ErrEventNotFound
	}
	return event, nil
}

// LoadFile fills the provider from a JSON file containing an event array.
func (p *MemoryProvider) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}
	var events []domain.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return fmt.Errorf("failed to parse catalog file: %w", err)
	}
	for _, e := range events {
		p.Put(e)
	}
	return nil
}
