package registry

import (
	"testing"

	"interviewgw/config"
	"interviewgw/internal/core"
)

func TestResolve_Precedence(t *testing.T) {
	tests := []struct {
		name  string
		creds config.Credentials
		want  core.Provider
	}{
		{
			name: "all four credentials set selects openai",
			creds: config.Credentials{
				OpenAIKey:      "sk-1",
				AnthropicKey:   "sk-2",
				OllamaBaseURL:  "http://localhost:11434",
				HuggingFaceKey: "hf-1",
			},
			want: core.ProviderOpenAI,
		},
		{
			name: "anthropic and ollama selects anthropic",
			creds: config.Credentials{
				AnthropicKey:  "sk-2",
				OllamaBaseURL: "http://localhost:11434",
			},
			want: core.ProviderAnthropic,
		},
		{
			name: "ollama only selects ollama",
			creds: config.Credentials{
				OllamaBaseURL: "http://localhost:11434",
			},
			want: core.ProviderOllama,
		},
		{
			name: "huggingface only selects huggingface",
			creds: config.Credentials{
				HuggingFaceKey: "hf-1",
			},
			want: core.ProviderHuggingFace,
		},
		{
			name:  "no credentials selects none",
			creds: config.Credentials{},
			want:  core.ProviderNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.creds); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAvailable(t *testing.T) {
	got := Available(config.Credentials{
		OpenAIKey:     "sk-1",
		OllamaBaseURL: "http://localhost:11434",
	})

	want := map[string]bool{
		"openai":      true,
		"anthropic":   false,
		"ollama":      true,
		"huggingface": false,
	}

	if len(got) != len(want) {
		t.Fatalf("Available() returned %d entries, want %d", len(got), len(want))
	}
	for name, present := range want {
		if got[name] != present {
			t.Errorf("Available()[%q] = %v, want %v", name, got[name], present)
		}
	}
}
