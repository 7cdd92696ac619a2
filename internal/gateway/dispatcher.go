// Package gateway implements the request dispatcher: it validates the
// inbound payload, resolves the active provider, synthesizes the system
// prompt, and invokes the matching wire adapter.
package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"interviewgw/config"
	"interviewgw/internal/adapters/anthropic"
	"interviewgw/internal/adapters/huggingface"
	"interviewgw/internal/adapters/ollama"
	"interviewgw/internal/adapters/openai"
	"interviewgw/internal/core"
	"interviewgw/internal/httpclient"
	"interviewgw/internal/observability"
	"interviewgw/internal/prompt"
	"interviewgw/internal/registry"
)

// CredentialSource produces a fresh credential snapshot. The dispatcher
// calls it once per request so runtime credential changes take effect on
// the next request; tests inject a fixed snapshot.
type CredentialSource func() config.Credentials

// Dispatcher is the per-request entry point of the gateway. It holds no
// cross-request mutable state: every dispatch allocates fresh adapter
// and transform state and discards it at stream close.
type Dispatcher struct {
	cfg        *config.Config
	creds      CredentialSource
	httpClient *http.Client
	metrics    *observability.Metrics
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithCredentialSource overrides the default environment snapshot source
func WithCredentialSource(src CredentialSource) Option {
	return func(d *Dispatcher) { d.creds = src }
}

// WithHTTPClient overrides the upstream HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) { d.httpClient = client }
}

// WithMetrics attaches request metrics
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// New creates a Dispatcher for the given configuration
func New(cfg *config.Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cfg:        cfg,
		creds:      config.Snapshot,
		httpClient: httpclient.NewDefaultHTTPClient(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Result is the outcome of a successful dispatch
type Result struct {
	// Provider is the backend the request was dispatched to
	Provider core.Provider

	// Body is the normalized assistant reply (caller must close)
	Body io.ReadCloser

	// Streaming reports whether Body arrives incrementally or is a
	// single full reply
	Streaming bool
}

// Dispatch runs one request through the gateway pipeline:
// validate -> resolve provider -> build prompt -> invoke adapter.
func (d *Dispatcher) Dispatch(ctx context.Context, req *core.ChatRequest) (*Result, error) {
	if req == nil || req.Messages == nil {
		d.metrics.RecordRequest(core.ProviderNone, observability.OutcomeClientError)
		return nil, core.NewInvalidRequestError("messages is required and must be a list", nil)
	}

	creds := d.creds()
	provider := registry.Resolve(creds)
	if provider == core.ProviderNone {
		d.metrics.RecordRequest(core.ProviderNone, observability.OutcomeConfigError)
		return nil, core.NewConfigurationError(fmt.Sprintf(
			"no LLM provider credential configured: set one of %s, %s, %s, or %s",
			config.EnvOpenAIKey, config.EnvAnthropicKey, config.EnvOllamaBaseURL, config.EnvHuggingFaceKey,
		))
	}

	systemPrompt := prompt.Build(req.InterviewConfig())

	adapter, err := d.adapterFor(provider, creds)
	if err != nil {
		d.metrics.RecordRequest(provider, observability.OutcomeConfigError)
		return nil, err
	}

	body, err := adapter.Dispatch(ctx, req.Messages, systemPrompt)
	if err != nil {
		d.metrics.RecordRequest(provider, observability.OutcomeUpstreamError)
		slog.Error("upstream dispatch failed",
			"provider", provider,
			"request_id", core.GetRequestID(ctx),
			"error", err,
		)
		return nil, err
	}

	d.metrics.RecordRequest(provider, observability.OutcomeSuccess)
	return &Result{
		Provider:  provider,
		Body:      body,
		Streaming: adapter.Streaming(),
	}, nil
}

// Health reports the currently resolved provider and the per-provider
// credential availability, from a fresh snapshot.
func (d *Dispatcher) Health() core.HealthResponse {
	creds := d.creds()
	return core.HealthResponse{
		Status:             "ok",
		Provider:           registry.Resolve(creds),
		AvailableProviders: registry.Available(creds),
	}
}

// Metrics returns the attached metrics instance (may be nil)
func (d *Dispatcher) Metrics() *observability.Metrics {
	return d.metrics
}

// adapterFor constructs fresh adapter state for the resolved provider.
// The unknown-provider branch is a defensive path that should be
// unreachable given the registry's closed identity set.
func (d *Dispatcher) adapterFor(provider core.Provider, creds config.Credentials) (core.Adapter, error) {
	switch provider {
	case core.ProviderOpenAI:
		a := openai.NewWithHTTPClient(creds.OpenAIKey, d.httpClient)
		a.SetModel(d.cfg.OpenAI.Model)
		if d.cfg.OpenAI.BaseURL != "" {
			a.SetBaseURL(d.cfg.OpenAI.BaseURL)
		}
		return a, nil
	case core.ProviderAnthropic:
		a := anthropic.NewWithHTTPClient(creds.AnthropicKey, d.httpClient)
		a.SetModel(d.cfg.Anthropic.Model)
		if d.cfg.Anthropic.BaseURL != "" {
			a.SetBaseURL(d.cfg.Anthropic.BaseURL)
		}
		return a, nil
	case core.ProviderOllama:
		a := ollama.NewWithHTTPClient(creds.OllamaBaseURL, d.httpClient)
		a.SetModel(d.cfg.Ollama.Model)
		return a, nil
	case core.ProviderHuggingFace:
		a := huggingface.NewWithHTTPClient(creds.HuggingFaceKey, d.httpClient)
		a.SetModel(d.cfg.HuggingFace.Model)
		if d.cfg.HuggingFace.BaseURL != "" {
			a.SetBaseURL(d.cfg.HuggingFace.BaseURL)
		}
		return a, nil
	default:
		return nil, core.NewInternalError("unknown provider: " + string(provider))
	}
}
