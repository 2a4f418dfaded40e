package events

import (
	"context"
	"sync"
)

// NoopPublisher is a Publisher that does nothing (used when NATS is not configured).
type NoopPublisher struct{}

// Publish implements Publisher.
func (n *NoopPublisher) Publish(context.Context, string, any) error {
	return nil
}

// Close implements Publisher.
func (n *NoopPublisher) Close() error {
	return nil
}

// Message is one event captured by MemoryPublisher.
type Message struct {
	Subject string
	Event   any
}

// MemoryPublisher keeps published events in memory, for tests and dev mode.
type MemoryPublisher struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

// Publish implements Publisher.
func (m *MemoryPublisher) Publish(_ context.Context, subject string, event any) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages, Message{Subject: subject, Event: event})

	return nil
}

// Messages returns a copy of the captured events.
func (m *MemoryPublisher) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Message(nil), m.messages...)
}

// Close implements Publisher.
func (m *MemoryPublisher) Close() error {
	return nil
}
