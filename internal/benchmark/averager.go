// internal/benchmark/averager.go
package benchmark

import (
	"context"
	"fmt"

	"github.com/mwiater/llmbench/internal/logging"
)

// MeasureN runs req.NumRuns measurements one after another and averages them.
// The first failing run aborts the pair and its error is returned unchanged;
// no aggregate is ever computed over fewer runs than requested.
func (m *Meter) MeasureN(ctx context.Context, req Request) (Aggregate, error) {
	if req.NumRuns < 1 {
		return Aggregate{}, fmt.Errorf("num_runs must be at least 1, got %d", req.NumRuns)
	}

	ttfts := make([]float64, 0, req.NumRuns)
	tpss := make([]float64, 0, req.NumRuns)
	for i := 0; i < req.NumRuns; i++ {
		logging.LogEvent("Running iteration %d of %d for model %s on %s...", i+1, req.NumRuns, req.Model, req.Provider.Name)
		result, err := m.MeasureOnce(ctx, req.Provider.Name, req.Model, req.Prompt)
		if err != nil {
			return Aggregate{}, err
		}
		logging.LogEvent("Iteration %d for model %s on %s complete: ttft=%.3fs tps=%.2f tokens=%d chunks=%d total=%s",
			i+1, req.Model, req.Provider.Name, result.TTFT, result.TPS, result.CompletionTokens, result.Chunks, result.Total)
		ttfts = append(ttfts, result.TTFT)
		tpss = append(tpss, result.TPS)
	}

	return Aggregate{AvgTTFT: mean(ttfts), AvgTPS: mean(tpss)}, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
