// internal/providerfactory/factory.go
package providerfactory

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mwiater/llmbench/internal/appconfig"
	"github.com/mwiater/llmbench/internal/providers"
	"github.com/mwiater/llmbench/internal/providers/openai"
)

// NewChatProvider builds the chat provider for one configured endpoint. Each
// call returns an independent client so concurrent pairs never share state.
func NewChatProvider(provider appconfig.Provider, debug bool) (providers.ChatProvider, error) {
	providerType, err := normalizeType(provider.Type)
	if err != nil {
		return nil, err
	}
	if err := validateBaseURL(provider.BaseURL); err != nil {
		return nil, fmt.Errorf("provider %q: %w", provider.Name, err)
	}

	switch providerType {
	case "openai":
		return openai.New(provider, openai.Options{Debug: debug}), nil
	default:
		return nil, fmt.Errorf("no provider registered for type %q", provider.Type)
	}
}

// normalizeType maps configured provider types onto registered implementations.
// Every OpenAI-compatible server (vLLM, llama.cpp, Ollama's /v1, hosted APIs)
// goes through the openai implementation.
func normalizeType(providerType string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(providerType))
	switch normalized {
	case "", "openai", "openai-compatible", "vllm", "llama.cpp", "llamacpp", "ollama":
		return "openai", nil
	default:
		return "", fmt.Errorf("unsupported provider type %q", providerType)
	}
}

func validateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("base_url is empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", raw)
	}
	return nil
}
