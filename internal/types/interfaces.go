// internal/types/interfaces.go
package types

import "context"

type CallStore interface {
	Insert(rec *CallRecord) *CallRecord
	List() []*CallRecord
	MarkCalledBack(id string) bool
	Unresolved() []*CallRecord
}

type AppointmentStore interface {
	Create(req *AppointmentRequest) (*AppointmentRecord, error)
	List() []*AppointmentRecord
}

// Classifier converts a transcript into a triage result. Implementations
// never fail: unavailable or broken backends degrade to a fixed fallback.
type Classifier interface {
	Classify(ctx context.Context, transcript string) TriageResult
}
