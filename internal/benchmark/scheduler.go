// internal/benchmark/scheduler.go
package benchmark

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mwiater/llmbench/internal/appconfig"
	"github.com/mwiater/llmbench/internal/logging"
	"github.com/mwiater/llmbench/internal/progress"
	"github.com/mwiater/llmbench/internal/providerfactory"
	"github.com/mwiater/llmbench/internal/providers"
)

var newChatProvider = providerfactory.NewChatProvider

// Runner fans requests out to one goroutine each and gathers every outcome.
type Runner struct {
	// NewProvider builds the chat provider for a request; defaults to the provider factory.
	NewProvider func(appconfig.Provider, bool) (providers.ChatProvider, error)
	Clock       Clock
	// Timeout bounds each streaming request; zero means no limit.
	Timeout time.Duration
	// MaxConcurrency caps simultaneously running pairs; zero means unlimited.
	MaxConcurrency int
	Debug          bool
}

// NewRunner configures a Runner from the application configuration.
func NewRunner(cfg *appconfig.Config) *Runner {
	r := &Runner{NewProvider: newChatProvider, Clock: time.Now}
	if cfg != nil {
		r.Timeout = cfg.RequestTimeout()
		r.MaxConcurrency = cfg.MaxConcurrency
		r.Debug = cfg.Debug
	}
	return r
}

// Run starts every request without waiting for earlier ones and returns one
// Outcome per request, aligned with the order of requests. A failing request
// never cancels or affects another; its error is kept as a value.
func (r *Runner) Run(ctx context.Context, requests []Request, tracker progress.Tracker) []Outcome {
	outcomes := make([]Outcome, len(requests))
	if len(requests) == 0 {
		return outcomes
	}

	var labels []string
	for _, req := range requests {
		labels = append(labels, req.Provider.Name+"/"+req.Model)
	}
	logging.LogEvent("Running benchmark with %d pairs: %s", len(requests), strings.Join(labels, ", "))

	// A plain Group rather than WithContext: no task may be cancelled because
	// another failed, and every task returns nil.
	var g errgroup.Group
	if r.MaxConcurrency > 0 {
		g.SetLimit(r.MaxConcurrency)
	}
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			outcomes[i] = r.runTask(ctx, req, tracker)
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			succeeded++
		}
	}
	logging.LogEvent("Benchmark finished: %d of %d pairs succeeded", succeeded, len(outcomes))
	return outcomes
}

// runTask measures one pair. Provider construction happens inside Track so a
// bad provider still counts as a finished task.
func (r *Runner) runTask(ctx context.Context, req Request, tracker progress.Tracker) (outcome Outcome) {
	outcome = Outcome{ProviderName: req.Provider.Name, Model: req.Model}
	defer func() {
		if p := recover(); p != nil {
			outcome.Result = Aggregate{}
			outcome.Err = fmt.Errorf("benchmark of %s/%s panicked: %v", req.Provider.Name, req.Model, p)
			logging.Logger().WithField("model", req.Model).Errorf("%v", outcome.Err)
		}
	}()

	result, err := Track(tracker, func() (Aggregate, error) {
		newProvider := r.NewProvider
		if newProvider == nil {
			newProvider = newChatProvider
		}
		provider, err := newProvider(req.Provider, r.Debug)
		if err != nil {
			return Aggregate{}, err
		}
		defer provider.Close()
		return NewMeter(provider, r.Clock, r.Timeout).MeasureN(ctx, req)
	})
	if err != nil {
		logging.Logger().WithField("provider", req.Provider.Name).WithField("model", req.Model).Warnf("benchmark failed: %v", err)
		outcome.Err = err
		return outcome
	}
	logging.LogEvent("Model %s on %s: avg ttft=%.3fs avg tps=%.2f", req.Model, req.Provider.Name, result.AvgTTFT, result.AvgTPS)
	outcome.Result = result
	return outcome
}
