// internal/state/appointments.go
package state

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/user/calltriage/internal/types"
)

// AppointmentStore is an in-memory, append-only store of callback
// appointments. Creating an appointment cross-updates the originating call
// record when a call id is supplied.
type AppointmentStore struct {
	mu      sync.RWMutex
	records []types.AppointmentRecord
	calls   types.CallStore
}

// NewAppointmentStore creates an empty AppointmentStore wired to the given
// call store for callback cross-updates.
func NewAppointmentStore(calls types.CallStore) *AppointmentStore {
	return &AppointmentStore{calls: calls}
}

// Create validates the request, appends an appointment with the next
// positional id, and best-effort marks the referenced call as called back.
// A call id that matches no record is silently ignored. No record is created
// when a required field is missing.
func (s *AppointmentStore) Create(req *types.AppointmentRequest) (*types.AppointmentRecord, error) {
	if req.Phone == "" || req.Date == "" || req.Time == "" {
		return nil, fmt.Errorf("phone, date and time are required")
	}

	s.mu.Lock()
	rec := types.AppointmentRecord{
		ID:      strconv.Itoa(len(s.records) + 1),
		Title:   "Callback: " + req.Phone,
		Start:   req.Date + "T" + req.Time,
		Patient: req.Phone,
		Notes:   req.Notes,
		Type:    "callback",
	}
	s.records = append(s.records, rec)
	s.mu.Unlock()

	// Non-atomic with the append above: a crash in between leaves the
	// appointment stored and the call unmarked, which is accepted.
	if req.CallID != "" {
		s.calls.MarkCalledBack(req.CallID)
	}

	return &rec, nil
}

// List returns a snapshot of all appointments in insertion order.
func (s *AppointmentStore) List() []*types.AppointmentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.AppointmentRecord, len(s.records))
	for i := range s.records {
		rec := s.records[i]
		out[i] = &rec
	}
	return out
}
