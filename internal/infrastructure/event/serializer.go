package event

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/billing/backend/internal/domain/shared"
)

// EventSerializer encodes domain events as JSON.
// Only registered event types are serialized.
type EventSerializer struct {
	mu       sync.RWMutex
	registry map[string]struct{}
}

// NewEventSerializer creates a new event serializer
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{registry: make(map[string]struct{})}
}

// Register marks eventType as serializable
func (s *EventSerializer) Register(eventTypes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range eventTypes {
		s.registry[t] = struct{}{}
	}
}

// Serialize encodes event as JSON. It fails for unregistered event types.
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	if !s.IsRegistered(event.EventType()) {
		return nil, fmt.Errorf("unknown event type: %s", event.EventType())
	}
	return json.Marshal(event)
}

// IsRegistered reports whether eventType can be serialized
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.registry[eventType]
	return ok
}
