// Package huggingface provides the wire adapter for the hosted inference
// backend. This backend does not stream: the generated text comes back
// in full and is forwarded to the caller as a single body.
package huggingface

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"interviewgw/internal/core"
	"interviewgw/internal/llmclient"
)

const (
	defaultBaseURL = "https://api-inference.huggingface.co/models"
	defaultModel   = "mistralai/Mistral-7B-Instruct-v0.2"
)

// Fixed generation parameters for the inference endpoint
const (
	maxNewTokens = 500
	temperature  = 0.7
)

// Adapter implements core.Adapter for the hosted inference backend
type Adapter struct {
	client *llmclient.Client
	apiKey string
	model  string
}

// New creates a new Hugging Face adapter
func New(apiKey string) *Adapter {
	a := &Adapter{apiKey: apiKey, model: defaultModel}
	a.client = llmclient.New(llmclient.Config{
		Provider: core.ProviderHuggingFace,
		BaseURL:  defaultBaseURL,
	}, a.setHeaders)
	return a
}

// NewWithHTTPClient creates a new Hugging Face adapter with a custom
// HTTP client. If httpClient is nil, a default client is used.
func NewWithHTTPClient(apiKey string, httpClient *http.Client) *Adapter {
	a := &Adapter{apiKey: apiKey, model: defaultModel}
	a.client = llmclient.NewWithHTTPClient(httpClient, llmclient.Config{
		Provider: core.ProviderHuggingFace,
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
	return core.ProviderHuggingFace
}

// Streaming reports that this adapter returns the full reply in one body
func (a *Adapter) Streaming() bool {
	return false
}

// setHeaders sets the required headers for inference API requests
func (a *Adapter) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
}

// inferenceRequest is the JSON body sent to the inference endpoint
type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

// buildInputs wraps the system prompt and conversation in the
// instruction markers the hosted instruct models expect.
func buildInputs(messages []core.Message, systemPrompt string) string {
	var b strings.Builder
	b.WriteString("<s>[INST] ")
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")

	for _, msg := range messages {
		switch msg.Role {
		case core.RoleAssistant:
			b.WriteString("Interviewer: ")
		default:
			b.WriteString("Candidate: ")
		}
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}

	b.WriteString(" [/INST]")
	return b.String()
}

// Dispatch sends the conversation upstream and returns the full
// generated text as a single body (caller must close).
func (a *Adapter) Dispatch(ctx context.Context, messages []core.Message, systemPrompt string) (io.ReadCloser, error) {
	raw, err := a.client.DoRaw(ctx, llmclient.Request{
		Method:   http.MethodPost,
		Endpoint: "/" + a.model,
		Body: inferenceRequest{
			Inputs: buildInputs(messages, systemPrompt),
			Parameters: inferenceParameters{
				MaxNewTokens:   maxNewTokens,
				Temperature:    temperature,
				ReturnFullText: false,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return io.NopCloser(strings.NewReader(extractText(raw))), nil
}

// extractText pulls the generated text out of the response, which is
// either a single JSON object or a one-element array of objects.
func extractText(body []byte) string {
	if text := gjson.GetBytes(body, "0.generated_text"); text.Exists() {
		return text.String()
	}
	return gjson.GetBytes(body, "generated_text").String()
}
