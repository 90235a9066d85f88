// internal/triage/prompt.go
package triage

import "github.com/user/calltriage/pkg/llm"

// systemPrompt defines the strict three-field JSON schema the classification
// service must return for every transcript.
const systemPrompt = `You are a medical triage AI. Analyze this patient call transcript.
Return ONLY a JSON object with these 3 fields:
1. "summary": A 1-sentence medical summary of the patient's issue.
2. "urgency": One of ["EMERGENCY", "PRIORITY", "ROUTINE"].
   - EMERGENCY: Life-threatening (chest pain, breathing issues, stroke symptoms).
   - PRIORITY: Urgent but stable (fever, fracture, severe pain).
   - ROUTINE: Checkups, mild symptoms, inquiries.
3. "category": A 1-2 word tag (e.g., "Cardiology", "General", "Pediatrics").`

// buildMessages assembles the fixed instruction prompt plus the transcript.
func buildMessages(transcript string) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: "Transcript: " + transcript},
	}
}
