// internal/providers/openai/provider.go
// Package openai provides a ChatProvider backed by any OpenAI-compatible
// chat completions endpoint.
package openai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	oai "github.com/sashabaranov/go-openai"

	"github.com/mwiater/llmbench/internal/appconfig"
	"github.com/mwiater/llmbench/internal/logging"
	"github.com/mwiater/llmbench/internal/providers"
)

// Provider implements providers.ChatProvider on top of go-openai's streaming client.
type Provider struct {
	client *oai.Client
	name   string
	debug  bool
}

// Options tunes the HTTP client shared by every request of one Provider.
type Options struct {
	HTTPClient *http.Client
	Debug      bool
}

// New constructs a Provider for one configured endpoint. The API key is sent as
// a bearer token; an empty key is allowed for local servers.
func New(cfg appconfig.Provider, opts Options) *Provider {
	clientConfig := oai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL
	if opts.HTTPClient != nil {
		clientConfig.HTTPClient = opts.HTTPClient
	} else {
		clientConfig.HTTPClient = &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment, ForceAttemptHTTP2: true},
		}
	}
	return &Provider{
		client: oai.NewClientWithConfig(clientConfig),
		name:   providerIdentifier(cfg),
		debug:  opts.Debug,
	}
}

// Stream opens a streaming chat completion and forwards every chunk, in the
// order the transport delivers them, to callbacks.
func (p *Provider) Stream(ctx context.Context, req providers.StreamRequest, callbacks providers.StreamCallbacks) error {
	request := oai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: toOpenAIMessages(req.History),
		Stream:   true,
	}
	if req.IncludeUsage {
		request.StreamOptions = &oai.StreamOptions{IncludeUsage: true}
	}
	if p.debug {
		logging.LogRequest("LLMBENCH->LLM", p.name, req.Model, request)
	}

	stream, err := p.client.CreateChatCompletionStream(ctx, request)
	if err != nil {
		return &providers.TransportError{Provider: p.name, Model: req.Model, Op: "open stream", Err: err}
	}
	defer stream.Close()

	var finalModel string
	chunks := 0
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &providers.TransportError{Provider: p.name, Model: req.Model, Op: "read stream", Err: err}
		}
		chunks++
		if p.debug {
			logging.LogRequest("LLM->LLMBENCH", p.name, req.Model, resp)
		}
		if resp.Model != "" {
			finalModel = resp.Model
		}
		if callbacks.OnChunk != nil {
			if err := callbacks.OnChunk(toChunk(resp)); err != nil {
				return err
			}
		}
	}

	if callbacks.OnComplete != nil {
		modelName := finalModel
		if modelName == "" {
			modelName = req.Model
		}
		meta := providers.StreamMetadata{
			Model:     modelName,
			CreatedAt: time.Now(),
			Chunks:    chunks,
		}
		if err := callbacks.OnComplete(meta); err != nil {
			return err
		}
	}
	return nil
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	return nil
}

func toChunk(resp oai.ChatCompletionStreamResponse) providers.Chunk {
	var chunk providers.Chunk
	if len(resp.Choices) > 0 {
		delta := resp.Choices[0].Delta
		chunk.Content = delta.Content
		chunk.ToolCalls = len(delta.ToolCalls)
		if delta.FunctionCall != nil {
			chunk.ToolCalls++
		}
	}
	if resp.Usage != nil {
		chunk.Usage = &providers.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return chunk
}

func toOpenAIMessages(messages []providers.ChatMessage) []oai.ChatCompletionMessage {
	out := make([]oai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		role := strings.TrimSpace(msg.Role)
		if role == "" {
			role = oai.ChatMessageRoleUser
		}
		out = append(out, oai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	return out
}

// providerIdentifier returns a string identifier for a provider, preferring the name over the URL.
func providerIdentifier(cfg appconfig.Provider) string {
	if name := strings.TrimSpace(cfg.Name); name != "" {
		return name
	}
	if url := strings.TrimSpace(cfg.BaseURL); url != "" {
		return url
	}
	return "openai-compatible"
}
