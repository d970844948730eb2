// Package bridge defines the call/response contract between the chat panel
// and the host: a named command with a JSON payload, answered by a single
// reply string. The production implementations call an LLM provider to
// generate CAD API code; tests substitute an in-memory fake.
package bridge

import "context"

// Bridge is the sole wire contract of the exchange protocol.
type Bridge interface {
	Call(ctx context.Context, command string, payload []byte) (string, error)
}

// Func adapts a function to the Bridge interface.
type Func func(ctx context.Context, command string, payload []byte) (string, error)

// Call implements Bridge.
func (f Func) Call(ctx context.Context, command string, payload []byte) (string, error) {
	return f(ctx, command, payload)
}

// Executor runs generated code inside the CAD host and reports the outcome
// as text. The host application provides the implementation; the server runs
// without one unless a sidecar is wired in.
type Executor interface {
	Execute(ctx context.Context, code string) (string, error)
}
