// internal/types/models.go
package types

// Urgency is the triage priority assigned to a call.
type Urgency string

const (
	UrgencyEmergency Urgency = "EMERGENCY"
	UrgencyPriority  Urgency = "PRIORITY"
	UrgencyRoutine   Urgency = "ROUTINE"
)

// TriageResult is the three-field classification produced for a transcript.
type TriageResult struct {
	Summary  string  `json:"summary"`
	Urgency  Urgency `json:"urgency"`
	Category string  `json:"category"`
}

// CallRecord is a completed call with its triage classification.
type CallRecord struct {
	ID         string  `json:"id"`
	Phone      string  `json:"phone"`
	Transcript string  `json:"transcript"`
	Summary    string  `json:"summary"`
	Urgency    Urgency `json:"urgency"`
	Category   string  `json:"category"`
	Duration   float64 `json:"duration"`
	Timestamp  string  `json:"timestamp"`
	CalledBack bool    `json:"called_back"`
}

// AppointmentRecord is a scheduled return call.
type AppointmentRecord struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Start   string `json:"start"`
	Patient string `json:"patient"`
	Notes   string `json:"notes"`
	Type    string `json:"type"`
}

// AppointmentRequest is the caller-supplied input for creating an appointment.
// CallID optionally references the call being scheduled for a callback.
type AppointmentRequest struct {
	Phone  string `json:"phone"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Notes  string `json:"notes"`
	CallID string `json:"call_id"`
}

// UnknownPhone is the placeholder used when a payload carries no customer number.
const UnknownPhone = "Unknown"

// TimestampLayout is the human-readable local format stamped onto call records.
const TimestampLayout = "2006-01-02 15:04:05"
