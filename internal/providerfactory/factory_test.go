// internal/providerfactory/factory_test.go
package providerfactory

import (
	"testing"

	"github.com/mwiater/llmbench/internal/appconfig"
	"github.com/mwiater/llmbench/internal/providers/openai"
)

func TestNormalizeTypeDefaultsToOpenAI(t *testing.T) {
	for _, input := range []string{"", "OpenAI", " vllm ", "llama.cpp", "ollama"} {
		got, err := normalizeType(input)
		if err != nil {
			t.Fatalf("normalizeType(%q) returned error: %v", input, err)
		}
		if got != "openai" {
			t.Fatalf("normalizeType(%q) = %q, want openai", input, got)
		}
	}
}

func TestNormalizeTypeRejectsUnsupported(t *testing.T) {
	if _, err := normalizeType("grpc"); err == nil {
		t.Fatal("expected error for unsupported provider type")
	}
}

func TestNewChatProviderRejectsBadBaseURL(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"no scheme":  "localhost:8080/v1",
		"ftp scheme": "ftp://example.com",
		"no host":    "http:///v1",
	}
	for name, baseURL := range cases {
		if _, err := NewChatProvider(appconfig.Provider{Name: "p", BaseURL: baseURL}, false); err == nil {
			t.Fatalf("%s: expected error for base_url %q", name, baseURL)
		}
	}
}

func TestNewChatProviderDefaultsToOpenAI(t *testing.T) {
	provider, err := NewChatProvider(appconfig.Provider{
		Name:    "Test",
		BaseURL: "http://localhost:8080/v1",
		Models:  []string{"model.gguf"},
	}, false)
	if err != nil {
		t.Fatalf("NewChatProvider returned error: %v", err)
	}
	if _, ok := provider.(*openai.Provider); !ok {
		t.Fatalf("expected openai.Provider, got %T", provider)
	}
}
