// internal/benchmark/track.go
package benchmark

import "github.com/mwiater/llmbench/internal/progress"

// Track runs measure and advances tracker exactly once when it returns, whether
// it succeeded, failed or panicked. The result and error pass through untouched.
func Track(tracker progress.Tracker, measure func() (Aggregate, error)) (Aggregate, error) {
	if tracker != nil {
		defer tracker.Advance()
	}
	return measure()
}
