// Package vapi models the webhook payload delivered by the voice-call
// platform at the end of a call. Payload shapes in the wild are loose, so
// decoding degrades to zero values instead of failing.
package vapi

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/user/calltriage/internal/types"
)

// EndOfCallReport is the message type that carries a finished call's report.
// Every other message type is ignored by the intake pipeline.
const EndOfCallReport = "end-of-call-report"

// Payload is the webhook envelope.
type Payload struct {
	Message Message `json:"message"`
	Call    Call    `json:"call"`
}

// Message describes the call event itself.
type Message struct {
	Type       string     `json:"type"`
	CallID     string     `json:"callId"`
	Transcript Transcript `json:"transcript"`
	Duration   Seconds    `json:"duration"`
}

// Call carries caller metadata.
type Call struct {
	Customer Customer `json:"customer"`
}

// Customer holds the caller's phone number under one of two field names,
// depending on the platform version that produced the payload.
type Customer struct {
	Number      string `json:"number"`
	PhoneNumber string `json:"phoneNumber"`
}

// Phone returns the customer's number, preferring "number" over
// "phoneNumber" and falling back to the Unknown placeholder.
func (p *Payload) Phone() string {
	if p.Call.Customer.Number != "" {
		return p.Call.Customer.Number
	}
	if p.Call.Customer.PhoneNumber != "" {
		return p.Call.Customer.PhoneNumber
	}
	return types.UnknownPhone
}

// Turn is one message of a structured transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript is the tagged union behind the payload's transcript field:
// either an ordered list of role/content turns or a single scalar.
// The zero value renders as an empty string.
type Transcript struct {
	turns  []Turn
	text   string
	isList bool
}

// UnmarshalJSON accepts a JSON array of turns, a string, or a bare scalar.
// Malformed input decodes to an empty transcript rather than returning an error.
func (t *Transcript) UnmarshalJSON(data []byte) error {
	*t = Transcript{}

	var turns []Turn
	if err := json.Unmarshal(data, &turns); err == nil {
		t.turns = turns
		t.isList = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.text = s
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		t.text = strconv.FormatFloat(n, 'f', -1, 64)
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		t.text = strconv.FormatBool(b)
		return nil
	}

	return nil
}

// Flatten renders the transcript as a single string. Structured transcripts
// become newline-joined "role: content" lines in original order; missing
// role or content render as empty tokens.
func (t Transcript) Flatten() string {
	if !t.isList {
		return t.text
	}
	lines := make([]string, len(t.turns))
	for i, turn := range t.turns {
		lines[i] = turn.Role + ": " + turn.Content
	}
	return strings.Join(lines, "\n")
}

// Seconds is a call duration that tolerates being encoded as a JSON number
// or a numeric string. Anything else decodes to zero.
type Seconds float64

func (s *Seconds) UnmarshalJSON(data []byte) error {
	*s = 0

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*s = Seconds(n)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if n, err := strconv.ParseFloat(str, 64); err == nil {
			*s = Seconds(n)
		}
	}
	return nil
}
