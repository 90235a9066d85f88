// internal/scheduler/digest.go
package scheduler

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/user/calltriage/internal/types"
)

// Notify delivers a digest reminder to the operator channel.
type Notify func(message string) error

// Digest periodically summarizes calls that have not been called back yet.
// It logs the counts on every run and, when EMERGENCY calls are outstanding,
// routes a reminder through the notify callback.
type Digest struct {
	calls    types.CallStore
	schedule string
	notify   Notify
	cron     *cron.Cron
}

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates a Digest for the given call store and cron schedule. notify
// may be nil, in which case the digest only logs.
func New(calls types.CallStore, schedule string, notify Notify) *Digest {
	return &Digest{
		calls:    calls,
		schedule: schedule,
		notify:   notify,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the digest job and starts the cron ticker.
func (d *Digest) Start() error {
	if _, err := d.cron.AddFunc(d.schedule, d.Run); err != nil {
		return fmt.Errorf("register digest schedule %q: %w", d.schedule, err)
	}
	d.cron.Start()
	return nil
}

// Stop stops the cron ticker. Running jobs finish on their own.
func (d *Digest) Stop() {
	d.cron.Stop()
}

// Run computes and emits one digest. Exposed for tests and manual triggers.
func (d *Digest) Run() {
	pending := d.calls.Unresolved()

	var emergency, priority, routine int
	for _, rec := range pending {
		switch rec.Urgency {
		case types.UrgencyEmergency:
			emergency++
		case types.UrgencyPriority:
			priority++
		default:
			routine++
		}
	}

	slog.Info("callback digest",
		"pending", len(pending),
		"emergency", emergency,
		"priority", priority,
		"routine", routine,
	)

	if emergency > 0 && d.notify != nil {
		msg := fmt.Sprintf("Callback reminder: %d EMERGENCY call(s) still awaiting callback (%d pending total)",
			emergency, len(pending))
		if err := d.notify(msg); err != nil {
			slog.Error("digest delivery failed", "error", err)
		}
	}
}
