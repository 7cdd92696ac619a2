package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewgw/config"
	"interviewgw/internal/core"
	"interviewgw/internal/gateway"
	"interviewgw/internal/observability"
)

// newTestServer wires a full server around a dispatcher with fixed
// credentials and an optional fake upstream.
func newTestServer(t *testing.T, creds config.Credentials, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	dispatcher := gateway.New(cfg,
		gateway.WithCredentialSource(func() config.Credentials { return creds }),
		gateway.WithMetrics(observability.New()),
	)
	return New(dispatcher, nil)
}

func newFakeUpstream(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestChat_InvalidJSONBody(t *testing.T) {
	srv := newTestServer(t, config.Credentials{OpenAIKey: "sk-1"}, nil)

	rec := doJSON(srv, http.MethodPost, "/chat", `{"messages": not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var payload map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "invalid_request_error", payload["error"]["type"])
}

func TestChat_MissingMessages(t *testing.T) {
	srv := newTestServer(t, config.Credentials{OpenAIKey: "sk-1"}, nil)

	rec := doJSON(srv, http.MethodPost, "/chat", `{"difficulty":"advanced"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var payload map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "invalid_request_error", payload["error"]["type"])
	assert.Contains(t, payload["error"]["message"], "messages")
}

func TestChat_NonSequenceMessages(t *testing.T) {
	srv := newTestServer(t, config.Credentials{OpenAIKey: "sk-1"}, nil)

	rec := doJSON(srv, http.MethodPost, "/chat", `{"messages": "just a string"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_NoCredentialConfigured(t *testing.T) {
	srv := newTestServer(t, config.Credentials{}, nil)

	rec := doJSON(srv, http.MethodPost, "/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var payload map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "configuration_error", payload["error"]["type"])
	assert.Contains(t, payload["error"]["message"], config.EnvOpenAIKey)
}

func TestChat_StreamsPlainText(t *testing.T) {
	upstream := newFakeUpstream(t,
		`data: {"choices":[{"delta":{"content":"Tell me about"}}]}`+"\n\n"+
			`data: {"choices":[{"delta":{"content":" a recent project."}}]}`+"\n\n"+
			"data: [DONE]\n")

	srv := newTestServer(t,
		config.Credentials{OpenAIKey: "sk-1"},
		&config.Config{OpenAI: config.ProviderConfig{BaseURL: upstream.URL}},
	)

	rec := doJSON(srv, http.MethodPost, "/chat", `{"messages":[{"role":"user","content":"hi"}],"interviewTypes":["behavioral"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "Tell me about a recent project.", rec.Body.String())
}

func TestChat_UpstreamFailureBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	t.Cleanup(upstream.Close)

	srv := newTestServer(t,
		config.Credentials{OpenAIKey: "sk-1"},
		&config.Config{OpenAI: config.ProviderConfig{BaseURL: upstream.URL}},
	)

	rec := doJSON(srv, http.MethodPost, "/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var payload map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "provider_error", payload["error"]["type"])
	assert.Equal(t, float64(http.StatusBadGateway), payload["error"]["upstream_status"])
	assert.Equal(t, "upstream exploded", payload["error"]["upstream_body"])
}

func TestChatHealth(t *testing.T) {
	srv := newTestServer(t, config.Credentials{OllamaBaseURL: "http://localhost:11434"}, nil)

	rec := doJSON(srv, http.MethodGet, "/chat", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got core.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, core.ProviderOllama, got.Provider)
	assert.True(t, got.AvailableProviders["ollama"])
	assert.False(t, got.AvailableProviders["openai"])
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, config.Credentials{}, nil)

	rec := doJSON(srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, config.Credentials{}, nil)

	rec := doJSON(srv, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), "a request ID should always be issued")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "caller-supplied", rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := observability.New()
	dispatcher := gateway.New(&config.Config{},
		gateway.WithCredentialSource(func() config.Credentials { return config.Credentials{} }),
		gateway.WithMetrics(metrics),
	)
	srv := New(dispatcher, &Config{Metrics: metrics})

	rec := doJSON(srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "interviewgw_")
}
