// Package ollama provides the wire adapter for a local/self-hosted
// completion backend speaking the Ollama generate API.
package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"interviewgw/internal/core"
	"interviewgw/internal/llmclient"
	"interviewgw/internal/stream"
)

const defaultModel = "llama3"

// Adapter implements core.Adapter for a local completion backend
type Adapter struct {
	client *llmclient.Client
	model  string
}

// New creates a new Ollama adapter. baseURL is required: its presence is
// the credential signal that selected this backend.
func New(baseURL string) *Adapter {
	a := &Adapter{model: defaultModel}
	a.client = llmclient.New(llmclient.Config{
		Provider: core.ProviderOllama,
		BaseURL:  baseURL,
	}, nil)
	return a
}

// NewWithHTTPClient creates a new Ollama adapter with a custom HTTP client.
// If httpClient is nil, a default client is used.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Adapter {
	a := &Adapter{model: defaultModel}
	a.client = llmclient.NewWithHTTPClient(httpClient, llmclient.Config{
		Provider: core.ProviderOllama,
		BaseURL:  baseURL,
	}, nil)
	return a
}

// SetModel overrides the default model name
func (a *Adapter) SetModel(model string) {
	if model != "" {
		a.model = model
	}
}

// Name returns the provider identity
func (a *Adapter) Name() core.Provider {
	return core.ProviderOllama
}

// Streaming reports that this adapter produces an incremental stream
func (a *Adapter) Streaming() bool {
	return true
}

// generateRequest is the JSON body sent to the backend. The whole
// conversation is flattened into a single prompt string.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateFragment is one newline-delimited JSON completion fragment
type generateFragment struct {
	Response string `json:"response"`
}

// roleLabels maps message roles to the labels used in the flattened prompt
var roleLabels = map[string]string{
	core.RoleSystem:    "System",
	core.RoleUser:      "User",
	core.RoleAssistant: "Assistant",
}

// buildPrompt flattens the system prompt and conversation into a single
// completion prompt, prefixing each message with its role label and
// ending with an open assistant turn.
func buildPrompt(messages []core.Message, systemPrompt string) string {
	var b strings.Builder
	b.WriteString("System: ")
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")

	for _, msg := range messages {
		label, ok := roleLabels[msg.Role]
		if !ok {
			label = msg.Role
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}

	b.WriteString("Assistant:")
	return b.String()
}

// Dispatch sends the conversation upstream and returns the normalized
// text stream (caller must close).
func (a *Adapter) Dispatch(ctx context.Context, messages []core.Message, systemPrompt string) (io.ReadCloser, error) {
	body, err := a.client.DoStream(ctx, llmclient.Request{
		Method:   http.MethodPost,
		Endpoint: "/api/generate",
		Body: generateRequest{
			Model:  a.model,
			Prompt: buildPrompt(messages, systemPrompt),
			Stream: true,
		},
	})
	if err != nil {
		return nil, err
	}

	return stream.NewNormalizer(body, decodeFrame), nil
}

// decodeFrame decodes one NDJSON completion fragment. The stream
// terminates at upstream EOF; unparsable lines are skipped.
func decodeFrame(line []byte) (string, bool) {
	var fragment generateFragment
	if err := json.Unmarshal(line, &fragment); err != nil {
		return "", false
	}
	return fragment.Response, false
}
