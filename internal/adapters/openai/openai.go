// Package openai provides the OpenAI-compatible wire adapter for the
// interview gateway.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"interviewgw/internal/core"
	"interviewgw/internal/llmclient"
	"interviewgw/internal/stream"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// Adapter implements core.Adapter for OpenAI-compatible backends
type Adapter struct {
	client *llmclient.Client
	apiKey string
	model  string
}

// New creates a new OpenAI adapter
func New(apiKey string) *Adapter {
	a := &Adapter{apiKey: apiKey, model: defaultModel}
	a.client = llmclient.New(llmclient.Config{
		Provider: core.ProviderOpenAI,
		BaseURL:  defaultBaseURL,
	}, a.setHeaders)
	return a
}

// NewWithHTTPClient creates a new OpenAI adapter with a custom HTTP client.
// If httpClient is nil, a default client is used.
func NewWithHTTPClient(apiKey string, httpClient *http.Client) *Adapter {
	a := &Adapter{apiKey: apiKey, model: defaultModel}
	a.client = llmclient.NewWithHTTPClient(httpClient, llmclient.Config{
		Provider: core.ProviderOpenAI,
		BaseURL:  defaultBaseURL,
	}, a.setHeaders)
	return a
}

// SetBaseURL allows configuring a custom base URL for the backend
func (a *Adapter) SetBaseURL(url string) {
	a.client.SetBaseURL(url)
}

// SetModel overrides the default model name
func (a *Adapter) SetModel(model string) {
	if model != "" {
		a.model = model
	}
}

// Name returns the provider identity
func (a *Adapter) Name() core.Provider {
	return core.ProviderOpenAI
}

// Streaming reports that this adapter produces an incremental stream
func (a *Adapter) Streaming() bool {
	return true
}

// setHeaders sets the required headers for OpenAI API requests
func (a *Adapter) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
}

// chatRequest is the JSON body sent to the backend
type chatRequest struct {
	Model    string         `json:"model"`
	Messages []core.Message `json:"messages"`
	Stream   bool           `json:"stream"`
}

// streamChunk is one SSE event payload
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Dispatch sends the conversation upstream and returns the normalized
// text stream (caller must close).
func (a *Adapter) Dispatch(ctx context.Context, messages []core.Message, systemPrompt string) (io.ReadCloser, error) {
	wireMessages := make([]core.Message, 0, len(messages)+1)
	wireMessages = append(wireMessages, core.Message{Role: core.RoleSystem, Content: systemPrompt})
	wireMessages = append(wireMessages, messages...)

	body, err := a.client.DoStream(ctx, llmclient.Request{
		Method:   http.MethodPost,
		Endpoint: "/chat/completions",
		Body: chatRequest{
			Model:    a.model,
			Messages: wireMessages,
			Stream:   true,
		},
	})
	if err != nil {
		return nil, err
	}

	return stream.NewNormalizer(body, decodeFrame), nil
}

var (
	dataPrefix   = []byte("data:")
	doneSentinel = []byte("[DONE]")
)

// decodeFrame decodes one SSE line into its delta content. The [DONE]
// sentinel terminates the stream; unparsable payloads are skipped.
func decodeFrame(line []byte) (string, bool) {
	if !bytes.HasPrefix(line, dataPrefix) {
		return "", false
	}
	payload := bytes.TrimSpace(bytes.TrimPrefix(line, dataPrefix))
	if bytes.Equal(payload, doneSentinel) {
		return "", true
	}

	var chunk streamChunk
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return "", false
	}
	if len(chunk.Choices) == 0 {
		return "", false
	}
	return chunk.Choices[0].Delta.Content, false
}
