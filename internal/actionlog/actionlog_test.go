package actionlog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"evinstallers_backend/platform/logger"
)

type fakeStore struct {
	entries []Entry
	err     error
}

func (f *fakeStore) insert(_ context.Context, entry Entry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func newTestRecorder(store inserter) *Recorder {
	return &Recorder{store: store, log: logger.New("test")}
}

func TestLogRecordsEntry(t *testing.T) {
	store := &fakeStore{}
	rec := newTestRecorder(store)

	rec.Log(context.Background(), AgentLeadPipeline, "lead_processed", StatusSuccess, map[string]any{
		"leadId":  "abc",
		"matched": 3,
	})

	if len(store.entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(store.entries))
	}
	entry := store.entries[0]
	if entry.AgentName != AgentLeadPipeline || entry.Status != StatusSuccess {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	var details map[string]any
	if err := json.Unmarshal(entry.Details, &details); err != nil {
		t.Fatalf("details not valid JSON: %v", err)
	}
	if details["matched"] != float64(3) {
		t.Fatalf("details lost: %v", details)
	}
}

func TestLogSwallowsInsertFailure(t *testing.T) {
	rec := newTestRecorder(&fakeStore{err: errors.New("table dropped")})

	// Must not panic or propagate.
	rec.Log(context.Background(), AgentAuditor, "site_check", StatusError, nil)
}

func TestLogSurvivesCancelledContext(t *testing.T) {
	store := &fakeStore{}
	rec := newTestRecorder(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec.Log(ctx, AgentPromoter, "outreach_sent", StatusInfo, nil)

	if len(store.entries) != 1 {
		t.Fatalf("entry dropped on cancelled request context")
	}
}
