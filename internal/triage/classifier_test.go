package triage

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/user/calltriage/internal/types"
	"github.com/user/calltriage/pkg/llm"
)

// mockProvider returns a canned response or error and records the last request.
type mockProvider struct {
	content      string
	err          error
	lastMessages []llm.Message
	block        bool
}

func (m *mockProvider) Complete(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
	m.lastMessages = messages
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llm.Response{Content: m.content}, nil
}

func newGateway(t *testing.T, provider llm.Provider, keyConfigured bool) *Gateway {
	t.Helper()
	return New(provider, Options{
		KeyConfigured: keyConfigured,
		Timeout:       time.Second,
	})
}

func TestClassifyNoKeyFallback(t *testing.T) {
	mock := &mockProvider{content: `{"summary":"never used"}`}
	gw := newGateway(t, mock, false)

	want := types.TriageResult{Summary: "AI Key Missing", Urgency: types.UrgencyRoutine, Category: "General"}
	for _, transcript := range []string{"", "chest pain", "anything at all"} {
		if got := gw.Classify(context.Background(), transcript); got != want {
			t.Errorf("transcript %q: expected %+v, got %+v", transcript, want, got)
		}
	}
	if mock.lastMessages != nil {
		t.Error("provider must not be called without a key")
	}
}

func TestClassifySuccess(t *testing.T) {
	mock := &mockProvider{content: `{"summary":"Patient reports chest pain.","urgency":"EMERGENCY","category":"Cardiology"}`}
	gw := newGateway(t, mock, true)

	got := gw.Classify(context.Background(), "I have chest pain")
	want := types.TriageResult{
		Summary:  "Patient reports chest pain.",
		Urgency:  types.UrgencyEmergency,
		Category: "Cardiology",
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	if len(mock.lastMessages) != 2 {
		t.Fatalf("expected system + user message, got %d", len(mock.lastMessages))
	}
	if mock.lastMessages[0].Role != "system" {
		t.Errorf("expected system role first, got %q", mock.lastMessages[0].Role)
	}
	if !strings.Contains(mock.lastMessages[1].Content, "I have chest pain") {
		t.Errorf("transcript missing from user message: %q", mock.lastMessages[1].Content)
	}
}

func TestClassifyToleratesExtraFields(t *testing.T) {
	mock := &mockProvider{content: `{"summary":"ok","urgency":"ROUTINE","category":"General","confidence":0.93}`}
	gw := newGateway(t, mock, true)

	got := gw.Classify(context.Background(), "hello")
	if got.Summary != "ok" || got.Urgency != types.UrgencyRoutine || got.Category != "General" {
		t.Errorf("extra fields should be ignored, got %+v", got)
	}
}

func TestClassifyToleratesMissingFields(t *testing.T) {
	mock := &mockProvider{content: `{"summary":"partial"}`}
	gw := newGateway(t, mock, true)

	got := gw.Classify(context.Background(), "hello")
	if got.Summary != "partial" {
		t.Errorf("expected parsed summary, got %+v", got)
	}
	if got.Urgency != "" || got.Category != "" {
		t.Errorf("missing fields should stay absent, got %+v", got)
	}
}

func TestClassifyProviderErrorFallback(t *testing.T) {
	mock := &mockProvider{err: fmt.Errorf("connection refused")}
	gw := newGateway(t, mock, true)

	got := gw.Classify(context.Background(), "hello")
	want := types.TriageResult{Summary: "Analysis failed", Urgency: types.UrgencyRoutine, Category: "Unknown"}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestClassifyUnparsableOutputFallback(t *testing.T) {
	mock := &mockProvider{content: "I'm sorry, I can't produce JSON today."}
	gw := newGateway(t, mock, true)

	got := gw.Classify(context.Background(), "hello")
	want := types.TriageResult{Summary: "Analysis failed", Urgency: types.UrgencyRoutine, Category: "Unknown"}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestClassifyTimeoutFallback(t *testing.T) {
	mock := &mockProvider{block: true}
	gw := New(mock, Options{
		KeyConfigured: true,
		Timeout:       20 * time.Millisecond,
	})

	start := time.Now()
	got := gw.Classify(context.Background(), "hello")
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("timeout not applied, took %v", elapsed)
	}

	want := types.TriageResult{Summary: "Analysis failed", Urgency: types.UrgencyRoutine, Category: "Unknown"}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
