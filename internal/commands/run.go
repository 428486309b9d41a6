// internal/commands/run.go
package llmbench

import (
	"fmt"
	"io"

	"github.com/mwiater/llmbench/internal/appconfig"
	"github.com/mwiater/llmbench/internal/benchmark"
	"github.com/mwiater/llmbench/internal/progress"
	"github.com/mwiater/llmbench/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	progressTitle       = "Benchmarking LLM providers..."
	benchmarkAnnotation = "llmbench/benchmark"
)

// runFlags maps each benchmark flag to the config key it overrides.
var runFlags = map[string]string{
	"num-runs":    "num_runs",
	"prompt":      "prompt",
	"format":      "format",
	"no-progress": "no_progress",
}

// newRunner is swapped in tests to point the runner at fake providers.
var newRunner = benchmark.NewRunner

// runCmd implements 'run', which is also what the bare root command does.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark every configured (provider, model) pair",
	Long: `Stream the configured prompt to every model of every provider at the same time,
num_runs times per pair, and print the mean time to first token (seconds) and
tokens per second for each pair. A failing pair is reported in its row and never
stops the others.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{benchmarkAnnotation: "true"},
	RunE:        runBenchmark,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Int("num-runs", appconfig.DefaultNumRuns, "number of runs averaged per pair")
	cmd.Flags().String("prompt", "", "prompt sent to every model (overrides the config file)")
	cmd.Flags().String("format", "table", "output format: table or json")
	cmd.Flags().Bool("no-progress", false, "disable the progress indicator")
}

// bindRunFlags binds the benchmark flags of cmd to viper. Root and run each own
// a copy of these flags, so binding happens for the command actually invoked.
func bindRunFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := runFlags[f.Name]; ok {
			_ = viper.BindPFlag(key, f)
		}
	})
}

func isBenchmarkCommand(cmd *cobra.Command) bool {
	return cmd.Annotations[benchmarkAnnotation] == "true"
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	requests := benchmark.BuildRequests(cfg)
	out := cmd.OutOrStdout()

	// JSON output stays machine-readable; progress moves to stderr.
	progressOut := out
	if cfg.Format == "json" {
		progressOut = cmd.ErrOrStderr()
	}
	renderer := progress.Select(progressOut, progressTitle, len(requests), !cfg.NoProgress)
	renderer.Start()
	counter := progress.NewCounter(len(requests), renderer)

	outcomes := newRunner(cfg).Run(cmd.Context(), requests, counter)
	renderer.Stop()

	return writeReport(out, cfg.Format, cfg.NumRuns, outcomes)
}

func writeReport(out io.Writer, format string, numRuns int, outcomes []benchmark.Outcome) error {
	rows := report.Rows(outcomes)
	title := fmt.Sprintf("LLM provider performance (mean of %d runs per model)", numRuns)
	if err := report.Write(out, format, title, rows); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
