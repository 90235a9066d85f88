// internal/state/calls.go
package state

import (
	"strconv"
	"sync"

	"github.com/user/calltriage/internal/types"
)

// CallStore is an in-memory, append-only store of call records. It lives for
// the lifetime of the process; there is no persistence.
type CallStore struct {
	mu      sync.RWMutex
	records []types.CallRecord
}

// NewCallStore creates an empty CallStore.
func NewCallStore() *CallStore {
	return &CallStore{}
}

// Insert appends a record. When rec.ID is empty, the next positional id
// (size+1, as a string) is assigned; values already taken by an externally
// supplied id are skipped so ids stay unique. The size read and the append
// happen under one lock, so concurrent inserts never share an id.
// The stored copy is returned.
func (s *CallStore) Insert(rec *types.CallRecord) *types.CallRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		n := len(s.records) + 1
		for s.taken(strconv.Itoa(n)) {
			n++
		}
		rec.ID = strconv.Itoa(n)
	}

	s.records = append(s.records, *rec)
	stored := s.records[len(s.records)-1]
	return &stored
}

// taken reports whether any record already carries the given id.
// Caller must hold the lock.
func (s *CallStore) taken(id string) bool {
	for i := range s.records {
		if s.records[i].ID == id {
			return true
		}
	}
	return false
}

// List returns a snapshot of all records in insertion order. The snapshot is
// a copy, unaffected by concurrent inserts or callback updates.
func (s *CallStore) List() []*types.CallRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.CallRecord, len(s.records))
	for i := range s.records {
		rec := s.records[i]
		out[i] = &rec
	}
	return out
}

// MarkCalledBack sets called_back on the record with the given id and
// reports whether a match was found. The flag only ever moves false to true.
func (s *CallStore) MarkCalledBack(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].CalledBack = true
			return true
		}
	}
	return false
}

// Unresolved returns a snapshot of records not yet called back.
func (s *CallStore) Unresolved() []*types.CallRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*types.CallRecord
	for i := range s.records {
		if s.records[i].CalledBack {
			continue
		}
		rec := s.records[i]
		out = append(out, &rec)
	}
	return out
}
