// Package intake orchestrates webhook payloads into stored call records:
// filter by event type, normalize the transcript, classify, store.
package intake

import (
	"context"
	"log/slog"
	"time"

	"github.com/user/calltriage/internal/types"
	"github.com/user/calltriage/internal/vapi"
)

// Statuses reported to the webhook caller.
const (
	StatusSkipped = "skipped"
	StatusSuccess = "success"
)

// Result is the pipeline's terminal outcome for one payload.
type Result struct {
	Status string
	Record *types.CallRecord
}

// Option configures optional pipeline behavior.
type Option func(*Pipeline)

// WithOnEmergency sets a callback invoked after an EMERGENCY-urgency record
// is stored. Delivery is best-effort and runs on the request goroutine.
func WithOnEmergency(fn func(*types.CallRecord)) Option {
	return func(p *Pipeline) { p.onEmergency = fn }
}

// Pipeline wires the transcript normalizer, classifier, and call store.
type Pipeline struct {
	classifier  types.Classifier
	calls       types.CallStore
	onEmergency func(*types.CallRecord)
}

// New creates a Pipeline.
func New(classifier types.Classifier, calls types.CallStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		classifier: classifier,
		calls:      calls,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle processes one webhook payload. Payloads whose message type is not
// the end-of-call report are skipped without creating a record. Otherwise a
// record is always stored: classification failures degrade to fallback triage
// data inside the classifier, never abort the pipeline. No store lock is held
// while the classification call is in flight.
func (p *Pipeline) Handle(ctx context.Context, payload *vapi.Payload) Result {
	if payload.Message.Type != vapi.EndOfCallReport {
		return Result{Status: StatusSkipped}
	}

	phone := payload.Phone()
	transcript := payload.Message.Transcript.Flatten()

	slog.Info("analyzing call", "phone", phone)
	triage := p.classifier.Classify(ctx, transcript)

	rec := p.calls.Insert(&types.CallRecord{
		ID:         payload.Message.CallID,
		Phone:      phone,
		Transcript: transcript,
		Summary:    triage.Summary,
		Urgency:    triage.Urgency,
		Category:   triage.Category,
		Duration:   float64(payload.Message.Duration),
		Timestamp:  time.Now().Format(types.TimestampLayout),
	})

	slog.Info("call stored", "id", rec.ID, "urgency", rec.Urgency, "category", rec.Category)

	if rec.Urgency == types.UrgencyEmergency && p.onEmergency != nil {
		p.onEmergency(rec)
	}

	return Result{Status: StatusSuccess, Record: rec}
}
