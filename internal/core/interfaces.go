// Package core defines the shared types, interfaces, and error taxonomy
// for the interview gateway.
package core

import (
	"context"
	"io"
)

// Adapter translates the gateway's canonical (messages, system prompt)
// representation into one backend's wire protocol and decodes that
// backend's response into a plain-text reply stream.
type Adapter interface {
	// Name returns the provider identity this adapter speaks for.
	Name() Provider

	// Streaming reports whether Dispatch returns an incremental stream.
	// Non-streaming backends return the full reply in a single body.
	Streaming() bool

	// Dispatch sends the conversation upstream and returns the normalized
	// reply body (caller must close). A non-success upstream status aborts
	// with an error carrying the upstream status code and body verbatim.
	Dispatch(ctx context.Context, messages []Message, systemPrompt string) (io.ReadCloser, error)
}
