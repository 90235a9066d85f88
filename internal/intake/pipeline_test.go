package intake

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/user/calltriage/internal/state"
	"github.com/user/calltriage/internal/types"
	"github.com/user/calltriage/internal/vapi"
)

// mockClassifier returns a fixed result and records the transcript it saw.
type mockClassifier struct {
	result         types.TriageResult
	lastTranscript string
	calls          int
}

func (m *mockClassifier) Classify(ctx context.Context, transcript string) types.TriageResult {
	m.lastTranscript = transcript
	m.calls++
	return m.result
}

func decodePayload(t *testing.T, raw string) *vapi.Payload {
	t.Helper()
	var p vapi.Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return &p
}

func TestHandleSkipsOtherEventTypes(t *testing.T) {
	classifier := &mockClassifier{}
	calls := state.NewCallStore()
	pipeline := New(classifier, calls)

	for _, raw := range []string{
		`{"message":{"type":"status-update"}}`,
		`{"message":{"type":""}}`,
		`{}`,
	} {
		result := pipeline.Handle(context.Background(), decodePayload(t, raw))
		if result.Status != StatusSkipped {
			t.Errorf("%s: expected skipped, got %q", raw, result.Status)
		}
	}

	if classifier.calls != 0 {
		t.Error("classifier called for skipped event")
	}
	if got := len(calls.List()); got != 0 {
		t.Errorf("expected no records, got %d", got)
	}
}

func TestHandleStoresRecord(t *testing.T) {
	classifier := &mockClassifier{result: types.TriageResult{
		Summary:  "Patient has a fever.",
		Urgency:  types.UrgencyPriority,
		Category: "General",
	}}
	calls := state.NewCallStore()
	pipeline := New(classifier, calls)

	payload := decodePayload(t, `{
		"message":{
			"type":"end-of-call-report",
			"callId":"call-789",
			"duration":72,
			"transcript":[
				{"role":"assistant","content":"Clinic, how can I help?"},
				{"role":"user","content":"My son has a fever"}
			]
		},
		"call":{"customer":{"number":"+15559876"}}
	}`)

	result := pipeline.Handle(context.Background(), payload)
	if result.Status != StatusSuccess {
		t.Fatalf("expected success, got %q", result.Status)
	}

	rec := result.Record
	if rec.ID != "call-789" {
		t.Errorf("expected id from callId, got %q", rec.ID)
	}
	if rec.Phone != "+15559876" {
		t.Errorf("unexpected phone %q", rec.Phone)
	}
	wantTranscript := "assistant: Clinic, how can I help?\nuser: My son has a fever"
	if rec.Transcript != wantTranscript {
		t.Errorf("unexpected transcript %q", rec.Transcript)
	}
	if classifier.lastTranscript != wantTranscript {
		t.Errorf("classifier saw %q", classifier.lastTranscript)
	}
	if rec.Summary != "Patient has a fever." || rec.Urgency != types.UrgencyPriority || rec.Category != "General" {
		t.Errorf("triage fields not applied: %+v", rec)
	}
	if rec.Duration != 72 {
		t.Errorf("unexpected duration %v", rec.Duration)
	}
	if rec.CalledBack {
		t.Error("new record must not be called back")
	}
	if _, err := time.Parse(types.TimestampLayout, rec.Timestamp); err != nil {
		t.Errorf("timestamp %q not in layout %q: %v", rec.Timestamp, types.TimestampLayout, err)
	}

	stored := calls.List()
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(stored))
	}
	if stored[0].ID != "call-789" {
		t.Errorf("stored record id %q", stored[0].ID)
	}
}

func TestHandleAssignsIDWithoutCallID(t *testing.T) {
	classifier := &mockClassifier{}
	calls := state.NewCallStore()
	pipeline := New(classifier, calls)

	payload := decodePayload(t, `{"message":{"type":"end-of-call-report","transcript":"hi"}}`)

	first := pipeline.Handle(context.Background(), payload)
	second := pipeline.Handle(context.Background(), decodePayload(t, `{"message":{"type":"end-of-call-report","transcript":"hi"}}`))

	if first.Record.ID != "1" || second.Record.ID != "2" {
		t.Errorf("expected ids 1 and 2, got %q and %q", first.Record.ID, second.Record.ID)
	}
	if first.Record.Phone != types.UnknownPhone {
		t.Errorf("expected unknown phone, got %q", first.Record.Phone)
	}
}

func TestHandleEmergencyCallback(t *testing.T) {
	classifier := &mockClassifier{result: types.TriageResult{Urgency: types.UrgencyEmergency}}
	calls := state.NewCallStore()

	var alerted *types.CallRecord
	pipeline := New(classifier, calls, WithOnEmergency(func(rec *types.CallRecord) {
		alerted = rec
	}))

	pipeline.Handle(context.Background(), decodePayload(t, `{"message":{"type":"end-of-call-report"}}`))
	if alerted == nil {
		t.Fatal("emergency callback not invoked")
	}

	// Routine calls must not alert.
	alerted = nil
	classifier.result = types.TriageResult{Urgency: types.UrgencyRoutine}
	pipeline.Handle(context.Background(), decodePayload(t, `{"message":{"type":"end-of-call-report"}}`))
	if alerted != nil {
		t.Error("routine call triggered emergency callback")
	}
}
