package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"interviewgw/internal/core"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestBuildPrompt(t *testing.T) {
	got := buildPrompt([]core.Message{
		{Role: core.RoleUser, Content: "Hello"},
		{Role: core.RoleAssistant, Content: "Hi, ready to start?"},
		{Role: "tool", Content: "noop"},
	}, "You are an interviewer.")

	want := "System: You are an interviewer.\n\n" +
		"User: Hello\n\n" +
		"Assistant: Hi, ready to start?\n\n" +
		"tool: noop\n\n" +
		"Assistant:"
	if got != want {
		t.Errorf("buildPrompt() = %q, want %q", got, want)
	}
}

func TestDispatch_RequestShape(t *testing.T) {
	var got generateRequest
	var gotPath string

	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":"","done":true}` + "\n"))
	})
	a.SetModel("codellama")

	body, err := a.Dispatch(context.Background(), []core.Message{
		{Role: core.RoleUser, Content: "Hello"},
	}, "You are an interviewer.")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	defer body.Close()
	_, _ = io.ReadAll(body)

	if gotPath != "/api/generate" {
		t.Errorf("path = %q, want /api/generate", gotPath)
	}
	if got.Model != "codellama" {
		t.Errorf("model = %q, want the override", got.Model)
	}
	if !got.Stream {
		t.Error("request must set stream: true")
	}
	if !strings.HasPrefix(got.Prompt, "System: You are an interviewer.") {
		t.Errorf("prompt should open with the labeled system prompt, got %q", got.Prompt)
	}
	if !strings.HasSuffix(got.Prompt, "Assistant:") {
		t.Errorf("prompt should end with an open assistant turn, got %q", got.Prompt)
	}
}

func TestDispatch_NormalizesFragmentStream(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(
			`{"model":"llama3","response":"Describe a ","done":false}` + "\n" +
				`{"model":"llama3","response":"project you led.","done":false}` + "\n" +
				`{"model":"llama3","response":"","done":true}` + "\n",
		))
	})

	body, err := a.Dispatch(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}}, "prompt")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	defer body.Close()

	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("reading stream: %v", err)
	}
	if string(got) != "Describe a project you led." {
		t.Errorf("stream = %q, want the concatenated fragments", got)
	}
}

func TestDispatch_SkipsUnparsableLines(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(
			`{"response":"ok"}` + "\n" +
				"garbage line\n" +
				`{"response":" fine"}` + "\n",
		))
	})

	body, err := a.Dispatch(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}}, "prompt")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	defer body.Close()

	got, _ := io.ReadAll(body)
	if string(got) != "ok fine" {
		t.Errorf("stream = %q, want unparsable lines skipped", got)
	}
}

func TestDispatch_UpstreamFailure(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'llama3' not found"}`))
	})

	_, err := a.Dispatch(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}}, "prompt")
	if err == nil {
		t.Fatal("Dispatch() should fail on a non-200 upstream status")
	}

	var gwErr *core.GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("error should be a GatewayError, got %T", err)
	}
	if gwErr.Provider != core.ProviderOllama {
		t.Errorf("provider = %q, want ollama", gwErr.Provider)
	}
	if gwErr.UpstreamStatus != http.StatusNotFound {
		t.Errorf("upstream status = %d, want 404", gwErr.UpstreamStatus)
	}
	if !strings.Contains(gwErr.UpstreamBody, "not found") {
		t.Errorf("upstream body = %q, want it preserved", gwErr.UpstreamBody)
	}
}

func TestAdapterIdentity(t *testing.T) {
	a := New("http://localhost:11434")
	if a.Name() != core.ProviderOllama {
		t.Errorf("Name() = %q, want ollama", a.Name())
	}
	if !a.Streaming() {
		t.Error("Streaming() should be true")
	}
}
