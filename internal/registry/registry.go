// Package registry resolves which LLM backend is active from a snapshot
// of available credentials.
package registry

import (
	"interviewgw/config"
	"interviewgw/internal/core"
)

// Resolve returns exactly one provider identity for the given credential
// snapshot, or ProviderNone when no credential is present.
//
// Precedence when multiple credentials exist:
// openai > anthropic > ollama > huggingface.
// The ordering is a compatibility contract, not a technical constraint.
func Resolve(creds config.Credentials) core.Provider {
	switch {
	case creds.OpenAIKey != "":
		return core.ProviderOpenAI
	case creds.AnthropicKey != "":
		return core.ProviderAnthropic
	case creds.OllamaBaseURL != "":
		return core.ProviderOllama
	case creds.HuggingFaceKey != "":
		return core.ProviderHuggingFace
	default:
		return core.ProviderNone
	}
}

// Available reports, per provider, whether its credential is present.
func Available(creds config.Credentials) map[string]bool {
	return map[string]bool{
		string(core.ProviderOpenAI):      creds.OpenAIKey != "",
		string(core.ProviderAnthropic):   creds.AnthropicKey != "",
		string(core.ProviderOllama):      creds.OllamaBaseURL != "",
		string(core.ProviderHuggingFace): creds.HuggingFaceKey != "",
	}
}
