// internal/notify/alert.go
package notify

import (
	"fmt"

	"github.com/user/calltriage/internal/types"
)

// EmergencyAlert renders the operator message for a freshly stored
// EMERGENCY-urgency call record.
func EmergencyAlert(rec *types.CallRecord) string {
	return fmt.Sprintf("EMERGENCY call #%s from %s (%s): %s",
		rec.ID, rec.Phone, rec.Category, rec.Summary)
}
