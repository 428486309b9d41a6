// internal/benchmark/types.go
package benchmark

import (
	"time"

	"github.com/mwiater/llmbench/internal/appconfig"
)

// Request is one (provider, model) pair to measure.
type Request struct {
	Provider appconfig.Provider
	Model    string
	Prompt   string
	NumRuns  int
}

// RunResult holds the measurements of a single streaming request.
type RunResult struct {
	// TTFT is seconds from request start to the first chunk with content, or 0.
	TTFT float64 `json:"ttft"`
	// TPS is completion tokens divided by total wall-clock seconds, or 0.
	TPS              float64       `json:"tps"`
	CompletionTokens int           `json:"completionTokens"`
	Total            time.Duration `json:"total"`
	// ServedModel and Chunks describe the completed stream as the provider reported it.
	ServedModel string `json:"servedModel,omitempty"`
	Chunks      int    `json:"chunks"`
}

// Aggregate is the arithmetic mean over every run of one pair.
type Aggregate struct {
	AvgTTFT float64 `json:"avgTTFT"`
	AvgTPS  float64 `json:"avgTPS"`
}

// Outcome is the result of one pair. Err is nil exactly when Result is valid.
type Outcome struct {
	ProviderName string
	Model        string
	Result       Aggregate
	Err          error
}

// Succeeded reports whether the pair produced an aggregate.
func (o Outcome) Succeeded() bool { return o.Err == nil }

// Clock returns the current time. Tests substitute a deterministic one.
type Clock func() time.Time

// BuildRequests expands the configuration into one Request per (provider, model)
// pair, in provider declaration order and then model order.
func BuildRequests(cfg *appconfig.Config) []Request {
	if cfg == nil {
		return nil
	}
	requests := make([]Request, 0, cfg.TotalPairs())
	for _, provider := range cfg.OrderedProviders() {
		for _, model := range provider.Models {
			requests = append(requests, Request{
				Provider: provider,
				Model:    model,
				Prompt:   cfg.Prompt,
				NumRuns:  cfg.NumRuns,
			})
		}
	}
	return requests
}
