package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

// MockAuditEventPublisher implements ports.AuditEventPublisher for testing.
// It lets the outbox relay run without a RabbitMQ connection.
type MockAuditEventPublisher struct {
	mu sync.RWMutex

	// Track published events for verification
	PublishedEvents []ports.AuditEvent

	// Error injection for testing error scenarios
	PublishError error
	// FailIDs makes publishing fail only for the listed event ids.
	FailIDs map[string]bool

	// Track number of calls
	PublishCallCount int
}

// Ensure MockAuditEventPublisher implements ports.AuditEventPublisher at compile time.
var _ ports.AuditEventPublisher = (*MockAuditEventPublisher)(nil)

func NewMockAuditEventPublisher() *MockAuditEventPublisher {
	return &MockAuditEventPublisher{
		PublishedEvents: make([]ports.AuditEvent, 0),
		FailIDs:         make(map[string]bool),
	}
}

func (m *MockAuditEventPublisher) PublishAuditEvent(ctx context.Context, evt ports.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++

	if m.PublishError != nil {
		return m.PublishError
	}
	if m.FailIDs[evt.ID] {
		return errPublishRejected
	}

	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns all events that were published.
func (m *MockAuditEventPublisher) GetPublishedEvents() []ports.AuditEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.AuditEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

// GetPublishCount returns the number of times PublishAuditEvent was called.
func (m *MockAuditEventPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}

// Reset clears all tracking data.
func (m *MockAuditEventPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishedEvents = make([]ports.AuditEvent, 0)
	m.PublishError = nil
	m.FailIDs = make(map[string]bool)
	m.PublishCallCount = 0
}
