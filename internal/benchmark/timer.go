// internal/benchmark/timer.go
package benchmark

import (
	"context"
	"time"

	"github.com/mwiater/llmbench/internal/logging"
	"github.com/mwiater/llmbench/internal/providers"
)

// Meter measures streaming requests against a single provider.
type Meter struct {
	provider providers.ChatProvider
	now      Clock
	timeout  time.Duration
}

// NewMeter binds a Meter to provider. A nil clock uses time.Now; a zero timeout
// leaves requests unbounded.
func NewMeter(provider providers.ChatProvider, now Clock, timeout time.Duration) *Meter {
	if now == nil {
		now = time.Now
	}
	return &Meter{provider: provider, now: now, timeout: timeout}
}

// MeasureOnce streams one completion for prompt and returns its TTFT and TPS.
// Errors from the provider are returned unchanged and nothing is retried.
func (m *Meter) MeasureOnce(ctx context.Context, providerName, model, prompt string) (RunResult, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	req := providers.StreamRequest{
		Model:        model,
		History:      []providers.ChatMessage{{Role: "user", Content: prompt}},
		IncludeUsage: true,
	}

	startTime := m.now()
	var firstTokenTime time.Time
	gotFirstToken := false
	totalTokens := 0
	var completed providers.StreamMetadata

	callbacks := providers.StreamCallbacks{
		OnChunk: func(chunk providers.Chunk) error {
			if !gotFirstToken && chunk.HasContent() {
				firstTokenTime = m.now()
				gotFirstToken = true
				logging.LogDebug("First token received for model %s on %s after %s", model, providerName, firstTokenTime.Sub(startTime))
			}
			// Last usage wins; providers that stream running totals end on the final count.
			if chunk.Usage != nil {
				totalTokens = chunk.Usage.CompletionTokens
			}
			return nil
		},
		OnComplete: func(meta providers.StreamMetadata) error {
			completed = meta
			logging.LogDebug("Stream for model %s on %s complete: served by %q in %d chunks", model, providerName, meta.Model, meta.Chunks)
			return nil
		},
	}

	if err := m.provider.Stream(ctx, req, callbacks); err != nil {
		return RunResult{}, err
	}
	endTime := m.now()

	var ttft float64
	if gotFirstToken {
		ttft = firstTokenTime.Sub(startTime).Seconds()
	}
	result := computeResult(ttft, totalTokens, endTime.Sub(startTime))
	result.ServedModel = completed.Model
	result.Chunks = completed.Chunks
	return result, nil
}

// computeResult applies the TPS rule: tokens over total seconds, or 0 when
// either side is not positive.
func computeResult(ttft float64, totalTokens int, total time.Duration) RunResult {
	result := RunResult{TTFT: ttft, CompletionTokens: totalTokens, Total: total}
	if seconds := total.Seconds(); seconds > 0 && totalTokens > 0 {
		result.TPS = float64(totalTokens) / seconds
	}
	return result
}
