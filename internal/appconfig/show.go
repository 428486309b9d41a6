package appconfig

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp"
	"gopkg.in/yaml.v3"
)

// ShowConfig prints the resolved configuration with every API key masked.
// format is "yaml" (default) or "pp" for a colorized Go-value dump.
func ShowConfig(out io.Writer, cfg *Config, format string) error {
	if cfg == nil {
		fmt.Fprintln(out, "No configuration loaded.")
		return nil
	}
	if cfg.ConfigPath != "" {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	redacted := cfg.Redacted()
	switch format {
	case "", "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(redacted); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		return enc.Close()
	case "pp":
		_, err := pp.Fprintln(out, redacted)
		return err
	default:
		return fmt.Errorf("unsupported show-config format %q", format)
	}
}
