// internal/providers/provider.go

// Package providers defines the interface for streaming chat completions from an
// inference provider. Benchmarks depend only on this contract: open a stream,
// receive incremental chunks in order, and observe the usage summary.
package providers

import (
	"context"
	"fmt"
	"time"
)

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// Usage is the token accounting a provider reports in the stream.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Chunk is one incremental unit of a streaming response. Content and ToolCalls
// come from choices[0].delta; Usage is nil unless the chunk carries a usage summary.
type Chunk struct {
	Content   string
	ToolCalls int
	Usage     *Usage
}

// HasContent reports whether the chunk carries any visible delta output.
func (c Chunk) HasContent() bool {
	return c.Content != "" || c.ToolCalls > 0
}

// StreamMetadata describes a stream that ran to completion.
type StreamMetadata struct {
	Model     string
	CreatedAt time.Time
	Chunks    int
}

// StreamRequest encapsulates all the information needed to initiate a chat stream.
type StreamRequest struct {
	Model        string
	History      []ChatMessage
	IncludeUsage bool
}

// StreamCallbacks are invoked while a stream is consumed. OnChunk runs once per
// chunk in transport order; OnComplete runs after the stream is exhausted.
// An error returned by a callback aborts the stream and is returned unchanged.
type StreamCallbacks struct {
	OnChunk    func(Chunk) error
	OnComplete func(StreamMetadata) error
}

// ChatProvider is the interface that all model providers must implement.
type ChatProvider interface {
	// Stream opens a streaming chat completion and feeds it to callbacks.
	Stream(ctx context.Context, req StreamRequest, callbacks StreamCallbacks) error
	// Close cleans up any resources used by the provider.
	Close() error
}

// TransportError reports that a stream could not be opened or broke before completion.
type TransportError struct {
	Provider string
	Model    string
	Op       string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Provider, e.Model, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
