package protocol

import (
	"sync"

	"cadchat/internal/domain"
)

// Turns guards the one-outstanding-request-per-session rule. Begin marks a
// session as awaiting a reply and fails if one is already outstanding; End
// records the outcome and releases the session.
type Turns struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewTurns creates an empty turn tracker.
func NewTurns() *Turns {
	return &Turns{inFlight: make(map[string]struct{})}
}

// Begin transitions a session from Idle to AwaitingReply. A second submit
// while a request is outstanding is rejected, never queued.
func (t *Turns) Begin(sessionID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.inFlight[sessionID]; ok {
		return domain.ErrRequestInFlight
	}
	t.inFlight[sessionID] = struct{}{}
	return nil
}

// End releases the session and returns the terminal state for the turn:
// Failed when the bridge call failed, otherwise RepliedWithCode or
// RepliedPlain depending on the decoded reply.
func (t *Turns) End(sessionID string, reply Reply, failed bool) domain.TurnState {
	t.mu.Lock()
	delete(t.inFlight, sessionID)
	t.mu.Unlock()

	switch {
	case failed:
		return domain.TurnFailed
	case reply.HasCode:
		return domain.TurnRepliedWithCode
	default:
		return domain.TurnRepliedPlain
	}
}

// Awaiting reports whether a request is outstanding for the session.
func (t *Turns) Awaiting(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.inFlight[sessionID]
	return ok
}
