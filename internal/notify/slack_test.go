package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zhezzma/hf-spaces-monitor/internal/domain"
)

func TestSlack_OK(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		got = payload["text"]
		w.WriteHeader(200)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	if s == nil {
		t.Fatal("expected slack client")
	}
	if err := s.Send(context.Background(), "Title", "Hello"); err != nil {
		t.Fatalf("send err: %v", err)
	}
	if got == "" || got[0] != '*' { // starts with "*Title*"
		t.Fatalf("payload not as expected: %q", got)
	}
}

func TestSlack_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	err := NewSlack(ts.URL).Send(context.Background(), "X", "Y")
	if err == nil {
		t.Fatalf("expected error on non-2xx")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("error should carry the response status, got %q", err)
	}
}

func TestFailureSummary(t *testing.T) {
	outcomes := []domain.CheckOutcome{
		{Space: "up-app", Succeeded: domain.Bool(true)},
		{Space: "down-app", Succeeded: domain.Bool(false), Kind: domain.ErrTimeout, RecoveryAttempted: true, Duration: 612.3},
		{Space: "bad name", Kind: domain.ErrInvalidName}, // not attempted, not a failure
	}

	title, text, ok := FailureSummary("alice", outcomes)
	if !ok {
		t.Fatal("expected a summary for a run with failures")
	}
	if !strings.Contains(title, "1 space(s)") {
		t.Fatalf("unexpected title: %q", title)
	}
	if !strings.Contains(text, "alice/down-app") || !strings.Contains(text, "rebuild failed") {
		t.Fatalf("unexpected text: %q", text)
	}
	if strings.Contains(text, "up-app") || strings.Contains(text, "bad name") {
		t.Fatalf("summary must only list explicit failures: %q", text)
	}

	if _, _, ok := FailureSummary("alice", outcomes[:1]); ok {
		t.Fatal("all-green run must not produce a summary")
	}
}
