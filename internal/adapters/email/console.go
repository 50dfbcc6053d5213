package email

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// ConsoleMailer prints messages instead of sending them. It is used when no
// SendGrid key is configured.
type ConsoleMailer struct {
	from string
	out  io.Writer

	mu   sync.Mutex
	sent []Message
}

var _ ports.Mailer = (*ConsoleMailer)(nil)

func NewConsoleMailer(from string) *ConsoleMailer {
	return &ConsoleMailer{from: from, out: os.Stdout}
}

// NewSilentConsoleMailer records messages without printing them.
func NewSilentConsoleMailer(from string) *ConsoleMailer {
	return &ConsoleMailer{from: from, out: io.Discard}
}

func (m *ConsoleMailer) Send(_ context.Context, to, subject, body string) error {
	b := new(strings.Builder)
	_, _ = fmt.Fprintf(b, "From: %s\r\n", m.from)
	_, _ = fmt.Fprintf(b, "To: %s\r\n", to)
	_, _ = fmt.Fprintf(b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprintf(b, "Subject: [%s] %s\r\n\r\n", appName, subject)
	_, _ = fmt.Fprintf(b, "%s\r\n", body)
	if _, err := io.WriteString(m.out, b.String()); err != nil {
		return err
	}

	m.mu.Lock()
	m.sent = append(m.sent, Message{To: to, Subject: subject, Body: body})
	m.mu.Unlock()
	return nil
}

func (m *ConsoleMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
