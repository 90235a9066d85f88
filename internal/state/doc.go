// Package state provides the process-lifetime in-memory stores.
package state

import "github.com/user/calltriage/internal/types"

// Compile-time interface compliance checks.
var _ types.CallStore = (*CallStore)(nil)
var _ types.AppointmentStore = (*AppointmentStore)(nil)
