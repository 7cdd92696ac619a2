// Package anthropic provides the Anthropic-compatible wire adapter for
// the interview gateway.
package anthropic

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
	defaultBaseURL      = "https://api.anthropic.com/v1"
	defaultModel        = "claude-3-5-sonnet-20241022"
	anthropicAPIVersion = "2023-06-01"

	// Anthropic requires max_tokens on every request
	defaultMaxTokens = 1024
)

// Adapter implements core.Adapter for Anthropic-compatible backends
type Adapter struct {
	client *llmclient.Client
	apiKey string
	model  string
}

// New creates a new Anthropic adapter
func New(apiKey string) *Adapter {
	a := &Adapter{apiKey: apiKey, model: defaultModel}
	a.client = llmclient.New(llmclient.Config{
		Provider: core.ProviderAnthropic,
		BaseURL:  defaultBaseURL,
	}, a.setHeaders)
	return a
}

// NewWithHTTPClient creates a new Anthropic adapter with a custom HTTP client.
// If httpClient is nil, a default client is used.
func NewWithHTTPClient(apiKey string, httpClient *http.Client) *Adapter {
	a := &Adapter{apiKey: apiKey, model: defaultModel}
	a.client = llmclient.NewWithHTTPClient(httpClient, llmclient.Config{
		Provider: core.ProviderAnthropic,
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
	return core.ProviderAnthropic
}

// Streaming reports that this adapter produces an incremental stream
func (a *Adapter) Streaming() bool {
	return true
}

// setHeaders sets the required headers for Anthropic API requests
func (a *Adapter) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)
}

// messagesRequest is the JSON body sent to the backend. The system
// prompt travels in a dedicated field, not the message array.
type messagesRequest struct {
	Model     string         `json:"model"`
	MaxTokens int            `json:"max_tokens"`
	System    string         `json:"system,omitempty"`
	Messages  []core.Message `json:"messages"`
	Stream    bool           `json:"stream"`
}

// streamEvent is one SSE event payload. Only events of type
// "content_block_delta" carry text.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Text string `json:"text"`
	} `json:"delta"`
}

// Dispatch sends the conversation upstream and returns the normalized
// text stream (caller must close).
func (a *Adapter) Dispatch(ctx context.Context, messages []core.Message, systemPrompt string) (io.ReadCloser, error) {
	// Anthropic rejects system-role entries in the message array.
	wireMessages := make([]core.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == core.RoleSystem {
			continue
		}
		wireMessages = append(wireMessages, msg)
	}

	body, err := a.client.DoStream(ctx, llmclient.Request{
		Method:   http.MethodPost,
		Endpoint: "/messages",
		Body: messagesRequest{
			Model:     a.model,
			MaxTokens: defaultMaxTokens,
			System:    systemPrompt,
			Messages:  wireMessages,
			Stream:    true,
		},
	})
	if err != nil {
		return nil, err
	}

	return stream.NewNormalizer(body, decodeFrame), nil
}

var dataPrefix = []byte("data:")

// decodeFrame decodes one SSE line into its delta text. Event-name lines
// and events other than content_block_delta carry no content; unparsable
// payloads are skipped.
func decodeFrame(line []byte) (string, bool) {
	if !bytes.HasPrefix(line, dataPrefix) {
		return "", false
	}
	payload := bytes.TrimSpace(bytes.TrimPrefix(line, dataPrefix))

	var event streamEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return "", false
	}
	if event.Type != "content_block_delta" {
		return "", false
	}
	return event.Delta.Text, false
}
