package domain

import "time"

// TurnState tracks where a session is within a conversation turn.
type TurnState string

const (
	// TurnIdle means no request is outstanding.
	TurnIdle TurnState = "idle"
	// TurnAwaitingReply means a request has been submitted to the bridge
	// and no reply has arrived yet. Only one request may be outstanding
	// per session.
	TurnAwaitingReply TurnState = "awaiting_reply"
	// TurnRepliedWithCode means the last reply carried a fenced code block.
	TurnRepliedWithCode TurnState = "replied_with_code"
	// TurnRepliedPlain means the last reply was narrative only.
	TurnRepliedPlain TurnState = "replied_plain"
	// TurnFailed means the last bridge call failed.
	TurnFailed TurnState = "failed"
)

// Session represents a chat session with one CAD panel.
// LastCode is the literal text of the last fenced code block shown to the
// user; it is overwritten, never merged, on each reply that carries code.
type Session struct {
	ID        string    `json:"id"`
	PanelID   string    `json:"panel_id"`
	LastCode  string    `json:"last_code,omitempty"`
	State     TurnState `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message represents a chat message
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// History entry kinds.
const (
	HistoryKindCode  = "code"
	HistoryKindError = "error"
)

// HistoryEntry is a remembered piece of a session's past turns: either a
// generated code block or an execution error. Recent errors are folded back
// into fix-style prompts.
type HistoryEntry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse is the response from a chat message
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
	HasCode   bool   `json:"has_code"`
	// Executed reports that the backend already ran the code server-side;
	// the panel must not offer a manual re-execute action when set.
	Executed bool `json:"executed"`
	// Fixing reports that the backend performed an internal retry/fix cycle.
	Fixing bool `json:"fixing"`
}

// CanOfferExecute reports whether the panel may offer a manual execute
// action for this reply.
func (r *ChatResponse) CanOfferExecute() bool {
	return r.HasCode && !r.Executed
}

// StreamChunk represents a chunk in SSE stream
type StreamChunk struct {
	Type    string `json:"type"` // thinking, fixing, content, done, error
	Content string `json:"content,omitempty"`
}

// Stats represents system statistics
type Stats struct {
	TotalPanels   int `json:"total_panels"`
	TotalSessions int `json:"total_sessions"`
	TotalChats    int `json:"total_chats"`
	DocTopics     int `json:"doc_topics"`
	DocErrorCodes int `json:"doc_error_codes"`
	DocPatterns   int `json:"doc_patterns"`
}
