package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

// MockSessionStore implements ports.SessionStore in memory.
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session

	DeleteCalls []string

	CreateError error
	GetError    error
}

var _ ports.SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]*domain.Session)}
}

func (m *MockSessionStore) Create(ctx context.Context, sess *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	cp := *sess
	m.sessions[sess.ID] = &cp
	return nil
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	delete(m.sessions, id)
	return nil
}

// Count returns the number of live sessions.
func (m *MockSessionStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// MockPasswordHasher stores passwords as "hash:<password>".
type MockPasswordHasher struct {
	HashError error
}

var _ ports.PasswordHasher = (*MockPasswordHasher)(nil)

const mockHashPrefix = "hash:"

// MockHash is the value MockPasswordHasher stores for password.
func MockHash(password string) string { return mockHashPrefix + password }

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashError != nil {
		return "", m.HashError
	}
	return MockHash(password), nil
}

func (m *MockPasswordHasher) Verify(hash, password string) bool {
	return hash == MockHash(password)
}

// SentMail is one message captured by MockMailer.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// MockMailer implements ports.Mailer and keeps every message.
type MockMailer struct {
	mu   sync.Mutex
	sent []SentMail

	SendError error
}

var _ ports.Mailer = (*MockMailer)(nil)

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendError != nil {
		return m.SendError
	}
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *MockMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}
