// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config.yml"
	// DefaultNumRuns is how many times each model is measured when the config omits num_runs.
	DefaultNumRuns = 3
	// defaultLogFile is where log output goes when log_file is not configured.
	defaultLogFile = "llmbench.log"
	// EnvPrefix is the prefix viper uses for environment overrides (LLMBENCH_NUM_RUNS, ...).
	EnvPrefix = "LLMBENCH"
)

// Config represents the top-level application configuration.
type Config struct {
	Prompt         string              `mapstructure:"prompt" yaml:"prompt" json:"prompt"`
	NumRuns        int                 `mapstructure:"num_runs" yaml:"num_runs" json:"num_runs"`
	TimeoutSeconds int                 `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	MaxConcurrency int                 `mapstructure:"max_concurrency" yaml:"max_concurrency" json:"max_concurrency"`
	LogFile        string              `mapstructure:"log_file" yaml:"log_file,omitempty" json:"log_file,omitempty"`
	Debug          bool                `mapstructure:"debug" yaml:"debug" json:"debug"`
	Format         string              `mapstructure:"format" yaml:"format,omitempty" json:"format,omitempty"`
	NoProgress     bool                `mapstructure:"no_progress" yaml:"no_progress" json:"no_progress"`
	Providers      map[string]Provider `mapstructure:"providers" yaml:"providers" json:"providers"`
	// ProviderOrder lists provider IDs in the order they are declared in the file.
	ProviderOrder []string `mapstructure:"-" yaml:"-" json:"-"`
	ConfigPath    string   `mapstructure:"-" yaml:"-" json:"-"`
}

// Provider is one OpenAI-compatible endpoint and the models to benchmark on it.
type Provider struct {
	ID      string   `mapstructure:"-" yaml:"-" json:"-"`
	Name    string   `mapstructure:"name" yaml:"name" json:"name"`
	Type    string   `mapstructure:"type" yaml:"type,omitempty" json:"type,omitempty"`
	BaseURL string   `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
	APIKey  string   `mapstructure:"api_key" yaml:"api_key" json:"api_key"`
	Models  []string `mapstructure:"models" yaml:"models" json:"models"`
}

// RequestTimeout returns the per-request timeout. Streams are unbounded unless
// timeout is set to a positive number of seconds.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// OrderedProviders returns the configured providers in declaration order.
func (c Config) OrderedProviders() []Provider {
	out := make([]Provider, 0, len(c.Providers))
	for _, id := range c.ProviderOrder {
		if p, ok := c.Providers[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// TotalPairs counts the (provider, model) pairs declared in the configuration.
func (c Config) TotalPairs() int {
	total := 0
	for _, p := range c.Providers {
		total += len(p.Models)
	}
	return total
}

// Redacted returns a copy of the configuration with every API key masked.
func (c Config) Redacted() Config {
	out := c
	out.Providers = make(map[string]Provider, len(c.Providers))
	for id, p := range c.Providers {
		out.Providers[id] = p.Redacted()
	}
	return out
}

// Redacted returns a copy of the provider with its API key masked.
func (p Provider) Redacted() Provider {
	p.APIKey = MaskSecret(p.APIKey)
	return p
}

// MaskSecret keeps at most the first four characters of a secret.
func MaskSecret(secret string) string {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****"
}

// SetDefaults registers the application defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("num_runs", DefaultNumRuns)
	v.SetDefault("timeout", 0)
	v.SetDefault("max_concurrency", 0)
	v.SetDefault("debug", false)
	v.SetDefault("no_progress", false)
	v.SetDefault("format", "table")
}

// LoadDotEnv loads a .env file from the working directory when one exists.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads the configuration file at path into a fresh viper instance.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	v := viper.New()
	v.SetConfigFile(path)
	return FromViper(v)
}

// FromViper reads the config file registered on v and materializes the merged
// configuration (flags > env > file > defaults). Every validation failure is
// reported as a ConfigurationError.
func FromViper(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigurationError{Field: "config", Reason: fmt.Sprintf("no configuration file found at %q", v.ConfigFileUsed())}
		}
		return nil, &ConfigurationError{Field: "config", Reason: err.Error()}
	}

	doc, err := readDocument(v.ConfigFileUsed())
	if err != nil {
		return nil, err
	}
	if err := validateSettings(doc.settings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigurationError{Field: "config", Reason: fmt.Sprintf("unmarshal: %v", err)}
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	providers, order, ok, err := doc.declaredProviders()
	if err != nil {
		return nil, err
	}
	if ok {
		cfg.Providers = providers
	}
	cfg.finalize(order)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize fills provider IDs, expands ${VAR} references and fixes the provider order.
func (c *Config) finalize(declared []string) {
	if strings.TrimSpace(c.Format) == "" {
		c.Format = "table"
	}

	for id, p := range c.Providers {
		p.ID = id
		p.BaseURL = strings.TrimRight(os.ExpandEnv(strings.TrimSpace(p.BaseURL)), "/")
		p.APIKey = os.ExpandEnv(strings.TrimSpace(p.APIKey))
		c.Providers[id] = p
	}

	seen := make(map[string]bool, len(c.Providers))
	order := make([]string, 0, len(c.Providers))
	for _, id := range declared {
		if _, ok := c.Providers[id]; ok && !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	var rest []string
	for id := range c.Providers {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	c.ProviderOrder = append(order, rest...)
}

// Validate checks the semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Prompt) == "" {
		errs = append(errs, &ConfigurationError{Field: "prompt", Reason: "must not be empty"})
	}
	if c.NumRuns < 1 {
		errs = append(errs, &ConfigurationError{Field: "num_runs", Reason: "must be at least 1"})
	}
	if c.MaxConcurrency < 0 {
		errs = append(errs, &ConfigurationError{Field: "max_concurrency", Reason: "must not be negative"})
	}
	switch c.Format {
	case "table", "json":
	default:
		errs = append(errs, &ConfigurationError{Field: "format", Reason: fmt.Sprintf("unsupported output format %q", c.Format)})
	}
	if len(c.Providers) == 0 {
		errs = append(errs, &ConfigurationError{Field: "providers", Reason: "config must contain at least one provider"})
	}
	for _, id := range c.ProviderOrder {
		p := c.Providers[id]
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, &ConfigurationError{Field: "providers." + id + ".name", Reason: "is required"})
		}
		if p.BaseURL == "" {
			errs = append(errs, &ConfigurationError{Field: "providers." + id + ".base_url", Reason: "is required"})
		}
		for i, model := range p.Models {
			if strings.TrimSpace(model) == "" {
				errs = append(errs, &ConfigurationError{Field: fmt.Sprintf("providers.%s.models[%d]", id, i), Reason: "must not be empty"})
			}
		}
	}
	return errors.Join(errs...)
}
