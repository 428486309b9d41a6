// internal/commands/show_config.go
package llmbench

import (
	"github.com/mwiater/llmbench/internal/appconfig"
	"github.com/spf13/cobra"
)

// showConfigCmd implements 'show-config', which prints the resolved configuration
// after file, environment and flag values are merged. API keys are masked.
var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Show the resolved configuration with API keys redacted",
	Long: `Show the configuration llmbench would run with, after the config file, LLMBENCH_*
environment variables, .env values and flags are merged. Provider order matches the
order the benchmark submits pairs in.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return appconfig.ShowConfig(cmd.OutOrStdout(), GetConfig(), format)
	},
}

func init() {
	showConfigCmd.Flags().String("format", "yaml", "output format: yaml or pp")
	rootCmd.AddCommand(showConfigCmd)
}
