// Package triage wraps the external classification call. It never fails:
// a missing credential, a broken service, or unparsable output all degrade
// to a fixed fallback result so the intake pipeline can always store a record.
package triage

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/user/calltriage/internal/types"
	"github.com/user/calltriage/pkg/llm"
)

// Fallback results for the two failure modes. Both are deterministic.
var (
	keyMissingResult = types.TriageResult{
		Summary:  "AI Key Missing",
		Urgency:  types.UrgencyRoutine,
		Category: "General",
	}
	analysisFailedResult = types.TriageResult{
		Summary:  "Analysis failed",
		Urgency:  types.UrgencyRoutine,
		Category: "Unknown",
	}
)

// Options configures a Gateway.
type Options struct {
	// KeyConfigured is false when no classification credential was supplied;
	// every Classify call then short-circuits to the key-missing fallback.
	KeyConfigured bool

	// Timeout bounds a single classification call.
	Timeout time.Duration

	// MaxConcurrent caps in-flight classification calls across all requests.
	MaxConcurrent int64

	// Model selects the tokenizer for transcript budgeting.
	Model string

	// MaxTranscriptTokens is the token budget for the transcript itself.
	MaxTranscriptTokens int
}

// Compile-time interface compliance check.
var _ types.Classifier = (*Gateway)(nil)

// Gateway classifies transcripts through an llm.Provider.
type Gateway struct {
	provider  llm.Provider
	budget    *budget
	semaphore *semaphore.Weighted
	timeout   time.Duration
	hasKey    bool
}

// New creates a Gateway. A tokenizer failure disables transcript budgeting
// but is not fatal; classification proceeds with untruncated transcripts.
func New(provider llm.Provider, opts Options) *Gateway {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 4
	}
	if opts.MaxTranscriptTokens <= 0 {
		opts.MaxTranscriptTokens = 6000
	}

	b, err := newBudget(opts.Model, opts.MaxTranscriptTokens)
	if err != nil {
		slog.Warn("transcript budgeting disabled", "error", err)
		b = nil
	}

	return &Gateway{
		provider:  provider,
		budget:    b,
		semaphore: semaphore.NewWeighted(opts.MaxConcurrent),
		timeout:   opts.Timeout,
		hasKey:    opts.KeyConfigured,
	}
}

// Classify sends the transcript plus the fixed instruction prompt to the
// classification service and returns the parsed three-field result. An empty
// transcript is legal. Every failure path returns a fallback result instead
// of an error.
func (g *Gateway) Classify(ctx context.Context, transcript string) types.TriageResult {
	if !g.hasKey {
		slog.Warn("no classification credential configured, using fallback")
		return keyMissingResult
	}

	if err := g.semaphore.Acquire(ctx, 1); err != nil {
		slog.Error("classification slot unavailable", "error", err)
		return analysisFailedResult
	}
	defer g.semaphore.Release(1)

	if g.budget != nil {
		transcript = g.budget.truncate(transcript)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.provider.Complete(ctx, buildMessages(transcript))
	if err != nil {
		slog.Error("classification call failed", "error", err)
		return analysisFailedResult
	}

	var result types.TriageResult
	if err := json.Unmarshal([]byte(resp.Content), &result); err != nil {
		slog.Error("classification output unparsable", "error", err, "content", resp.Content)
		return analysisFailedResult
	}
	return result
}
