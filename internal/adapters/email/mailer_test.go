package email

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleMailer(t *testing.T) {
	var out bytes.Buffer
	m := &ConsoleMailer{from: "noreply@school.test", out: &out}

	require.NoError(t, m.Send(context.Background(), "alice@school.test", "Password reset", "click the link"))

	assert.Contains(t, out.String(), "To: alice@school.test")
	assert.Contains(t, out.String(), "Subject: [School Portal] Password reset")
	sent := m.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "click the link", sent[0].Body)
}

func TestSendgridMailer(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	restore := host
	host = srv.URL
	defer func() { host = restore }()

	m := NewSendgridMailer("SG.test", "noreply@school.test")
	require.NoError(t, m.Send(context.Background(), "alice@school.test", "Password reset", "click the link"))

	assert.Equal(t, "Bearer SG.test", auth)
	personalizations := got["personalizations"].([]any)
	require.Len(t, personalizations, 1)
	p := personalizations[0].(map[string]any)
	assert.Equal(t, "[School Portal] Password reset", p["subject"])
}

func TestSendgridMailer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	restore := host
	host = srv.URL
	defer func() { host = restore }()

	err := NewSendgridMailer("bad", "noreply@school.test").Send(context.Background(), "a@b.test", "s", "b")
	assert.Error(t, err)
}
