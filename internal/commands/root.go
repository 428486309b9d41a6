// internal/commands/root.go
package llmbench

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwiater/llmbench/internal/appconfig"
	"github.com/mwiater/llmbench/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
// Without a subcommand it runs the benchmark.
var rootCmd = &cobra.Command{
	Use:   "llmbench",
	Short: "llmbench measures time to first token and tokens per second across LLM providers",
	Long: `llmbench sends the same prompt to every model of every configured OpenAI-compatible
provider, streams the responses concurrently and reports the mean time to first
token and tokens per second for each (provider, model) pair.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	Annotations:  map[string]string{benchmarkAnnotation: "true"},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsConfig(cmd) {
			return nil
		}
		if err := appconfig.LoadDotEnv(); err != nil {
			return err
		}
		if isBenchmarkCommand(cmd) {
			bindRunFlags(cmd)
		}

		cfg, err := appconfig.FromViper(viper.GetViper())
		if err != nil {
			return err
		}
		currentConfig = cfg

		if err := logging.Init(currentConfig.LogFilePath(), currentConfig.Debug); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.LogEvent("Loaded configuration from %s: %d providers, %d pairs, %d runs each",
			cfg.ConfigPath, len(cfg.Providers), cfg.TotalPairs(), cfg.NumRuns)
		return nil
	},
	RunE: runBenchmark,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// SIGINT and SIGTERM cancel the context every command runs with.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = versionString()
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (YAML or JSON)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging, including request payloads")
	rootCmd.PersistentFlags().String("log-file", "", "path to the log file (default llmbench.log)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))

	addRunFlags(rootCmd)
}

// initConfig points viper at the config file named by --config.
func initConfig() {
	if cfgFile == "" {
		cfgFile = appconfig.DefaultConfigPath
	}
	viper.SetConfigFile(cfgFile)
}

// needsConfig is false for cobra's built-in help and completion commands.
func needsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
	rootCmd.Version = versionString()
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)
}
