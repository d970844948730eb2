package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cadchat/internal/bridge"
	"cadchat/internal/config"
	"cadchat/internal/docs"
	"cadchat/internal/domain"
	"cadchat/internal/protocol"
	"cadchat/internal/repository"
)

// fixKeywords mark a message as an attempt to repair a previous failure.
var fixKeywords = []string{"fix", "error", "failed", "issue", "problem", "not working"}

// executePreviousCommand triggers direct execution of the carried-forward
// code block without a round trip to the generator.
const executePreviousCommand = "execute the previous code"

// ChatService orchestrates one conversation turn: it guards the single
// outstanding request per session, carries the last code block forward as
// arg2, and decodes the reply's fences and marker phrases.
type ChatService struct {
	cfg         *config.Config
	panelRepo   *repository.PanelRepository
	sessionRepo *repository.SessionRepository
	historyRepo *repository.HistoryRepository
	bridge      bridge.Bridge
	executor    bridge.Executor
	docs        *docs.Store
	turns       *protocol.Turns
	logger      *zap.Logger
}

// NewChatService creates a new chat service. executor may be nil when no
// host-side code execution is wired in; the docs store may be nil to skip
// error-solution suggestions.
func NewChatService(
	cfg *config.Config,
	panelRepo *repository.PanelRepository,
	sessionRepo *repository.SessionRepository,
	historyRepo *repository.HistoryRepository,
	br bridge.Bridge,
	executor bridge.Executor,
	store *docs.Store,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		cfg:         cfg,
		panelRepo:   panelRepo,
		sessionRepo: sessionRepo,
		historyRepo: historyRepo,
		bridge:      br,
		executor:    executor,
		docs:        store,
		turns:       protocol.NewTurns(),
		logger:      logger,
	}
}

// Chat handles one conversation turn.
func (s *ChatService) Chat(ctx context.Context, panelID string, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	panel, err := s.panelRepo.Get(panelID)
	if err != nil {
		return nil, err
	}
	if panel == nil {
		return nil, domain.ErrNotFound
	}

	session, err := s.resolveSession(panelID, req.SessionID)
	if err != nil {
		return nil, err
	}

	// One outstanding request per session; a second submit is rejected,
	// never queued.
	if err := s.turns.Begin(session.ID); err != nil {
		return nil, err
	}
	_ = s.sessionRepo.UpdateState(session.ID, domain.TurnAwaitingReply)

	if err := s.sessionRepo.CreateMessage(&domain.Message{
		SessionID: session.ID,
		Role:      "user",
		Content:   req.Message,
	}); err != nil {
		s.abortTurn(session.ID)
		return nil, err
	}

	if strings.HasPrefix(strings.ToLower(req.Message), executePreviousCommand) {
		return s.executePrevious(ctx, session)
	}

	userText := req.Message
	if isFixRequest(userText) {
		userText = s.enhanceWithErrorHistory(session.ID, userText)
	}

	payload, err := protocol.EncodeChatPayload(userText, session.LastCode)
	if err != nil {
		s.abortTurn(session.ID)
		return nil, err
	}

	replyText, err := s.callBridge(ctx, payload)
	if err != nil {
		// Recovered locally: the user sees the fixed apology message and
		// LastCode stays intact for the next request.
		s.logger.Warn("bridge call failed",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
		return s.finishTurn(session, domain.BridgeFailureMessage, protocol.Reply{}, true)
	}

	if code := protocol.ExtractCode(replyText); code != "" {
		_ = s.historyRepo.Add(&domain.HistoryEntry{
			SessionID: session.ID,
			Kind:      domain.HistoryKindCode,
			Content:   code,
		})
	}

	reply := protocol.Decode(replyText)

	if s.shouldAutoExecute(panel, reply, req.Message) {
		replyText = s.executeAndAnnotate(ctx, session, replyText)
		reply = protocol.Decode(replyText)
	}

	return s.finishTurn(session, replyText, reply, false)
}

// ChatStream wraps a turn in SSE status chunks so the panel can show
// progress indicators around the single bridge call. Unknown panels and
// already-occupied sessions are rejected before any chunk is emitted, so the
// handler can still answer with a proper status code.
func (s *ChatService) ChatStream(ctx context.Context, panelID string, req *domain.ChatRequest) (<-chan domain.StreamChunk, error) {
	panel, err := s.panelRepo.Get(panelID)
	if err != nil {
		return nil, err
	}
	if panel == nil {
		return nil, domain.ErrNotFound
	}
	if req.SessionID != "" && s.turns.Awaiting(req.SessionID) {
		return nil, domain.ErrRequestInFlight
	}

	ch := make(chan domain.StreamChunk, 8)

	go func() {
		defer close(ch)

		ch <- domain.StreamChunk{Type: "thinking", Content: "Analyzing your request..."}

		resp, err := s.Chat(ctx, panelID, req)
		if err != nil {
			ch <- domain.StreamChunk{Type: "error", Content: err.Error()}
			return
		}

		if resp.Fixing {
			ch <- domain.StreamChunk{Type: "fixing", Content: "Automatically fixing error..."}
		}
		ch <- domain.StreamChunk{Type: "content", Content: resp.Answer}
		ch <- domain.StreamChunk{Type: "done"}
	}()

	return ch, nil
}

// abortTurn releases the in-flight guard and records a terminal state when a
// turn dies before reaching the bridge, so the session row never sticks at
// awaiting_reply.
func (s *ChatService) abortTurn(sessionID string) {
	s.turns.End(sessionID, protocol.Reply{}, true)
	_ = s.sessionRepo.UpdateState(sessionID, domain.TurnFailed)
}

// resolveSession loads an existing session or creates a fresh one.
func (s *ChatService) resolveSession(panelID, sessionID string) (*domain.Session, error) {
	if sessionID != "" {
		session, err := s.sessionRepo.Get(sessionID)
		if err != nil {
			return nil, err
		}
		if session != nil {
			return session, nil
		}
	}

	session := &domain.Session{PanelID: panelID}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// callBridge performs the bridge call under the configured timeout, with a
// single retry on transport failure. The protocol itself specifies no
// timeout; this bound is a deliberate server-side choice.
func (s *ChatService) callBridge(ctx context.Context, payload []byte) (string, error) {
	call := func() (string, error) {
		callCtx := ctx
		if s.cfg.Bridge.TimeoutSeconds > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.cfg.Bridge.Timeout())
			defer cancel()
		}
		return s.bridge.Call(callCtx, protocol.CommandChatMessage, payload)
	}

	reply, err := call()
	if err != nil && s.cfg.Bridge.Retry && ctx.Err() == nil {
		reply, err = call()
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBridgeCallFailed, err)
	}
	return reply, nil
}

// executePrevious runs the carried-forward code block directly, without a
// generator round trip.
func (s *ChatService) executePrevious(ctx context.Context, session *domain.Session) (*domain.ChatResponse, error) {
	code := session.LastCode
	if code == "" {
		if latest, err := s.historyRepo.LatestCode(session.ID); err == nil {
			code = latest
		}
	}

	if code == "" {
		reply := "No code found to execute. Please try again or provide code directly."
		return s.finishTurn(session, reply, protocol.Decode(reply), false)
	}
	if s.executor == nil {
		reply := "Code execution is not available on this deployment."
		return s.finishTurn(session, reply, protocol.Decode(reply), false)
	}

	result := s.runExecutor(ctx, session, code)
	reply := fmt.Sprintf("%s\n```\n%s\n```", protocol.MarkerExecutionResult, result)
	return s.finishTurn(session, reply, protocol.Decode(reply), false)
}

// shouldAutoExecute reports whether the generated code should be run
// immediately. The user can opt out per message.
func (s *ChatService) shouldAutoExecute(panel *domain.Panel, reply protocol.Reply, message string) bool {
	if s.executor == nil || !panel.PanelConfig.AutoExecute || !reply.HasCode {
		return false
	}
	lower := strings.ToLower(message)
	return !strings.Contains(lower, "don't execute") && !strings.Contains(lower, "do not execute")
}

// executeAndAnnotate runs the reply's code and appends the execution result
// to the reply. A failed run triggers one fix cycle through the bridge,
// marked with the auto-fix phrases.
func (s *ChatService) executeAndAnnotate(ctx context.Context, session *domain.Session, replyText string) string {
	code := protocol.ExtractCode(replyText)
	result := s.runExecutor(ctx, session, code)

	replyText += fmt.Sprintf("\n\n**%s**\n```\n%s\n```", protocol.MarkerExecutionResult, result)

	if !strings.Contains(result, "Error") {
		return replyText
	}

	if s.docs != nil {
		if ec, ok := s.docs.Current().ErrorSolution(result); ok {
			replyText += fmt.Sprintf("\n\n**Suggested Fix:** %s", ec.Solution)
		}
	}

	fixed, err := s.fixCycle(ctx, session, code, result)
	if err != nil {
		s.logger.Warn("fix cycle failed",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
		replyText += "\n\n**Tip:** If you'd like me to fix this error, just ask 'Please fix the error'."
		return replyText
	}

	replyText += fmt.Sprintf("\n\n%s...\n\n**%s**\n%s",
		protocol.MarkerAutoFix, protocol.MarkerImprovedSolution, fixed)
	return replyText
}

// fixCycle asks the generator for a corrected version of failed code. One
// attempt only; a second failure falls back to the manual-fix tip.
func (s *ChatService) fixCycle(ctx context.Context, session *domain.Session, code, result string) (string, error) {
	prompt := fmt.Sprintf(
		"The following code failed with this error:\n\n%s\n\nProvide corrected code that avoids the error.",
		firstLine(result),
	)

	payload, err := protocol.EncodeChatPayload(prompt, code)
	if err != nil {
		return "", err
	}

	fixed, err := s.callBridge(ctx, payload)
	if err != nil {
		return "", err
	}
	if fixedCode := protocol.ExtractCode(fixed); fixedCode != "" {
		_ = s.historyRepo.Add(&domain.HistoryEntry{
			SessionID: session.ID,
			Kind:      domain.HistoryKindCode,
			Content:   fixedCode,
		})
	}
	return fixed, nil
}

// runExecutor runs code through the host executor, recording failures in the
// session's error history.
func (s *ChatService) runExecutor(ctx context.Context, session *domain.Session, code string) string {
	result, err := s.executor.Execute(ctx, code)
	if err != nil {
		result = fmt.Sprintf("Error executing code: %v", err)
	}
	if strings.Contains(result, "Error") {
		_ = s.historyRepo.Add(&domain.HistoryEntry{
			SessionID: session.ID,
			Kind:      domain.HistoryKindError,
			Content:   result,
		})
	}
	return result
}

// finishTurn records the turn outcome: the assistant message, the terminal
// state, and the carried-forward code block. A failed bridge call leaves
// LastCode untouched.
func (s *ChatService) finishTurn(session *domain.Session, replyText string, reply protocol.Reply, failed bool) (*domain.ChatResponse, error) {
	state := s.turns.End(session.ID, reply, failed)

	if !failed {
		if lastCode := reply.LastCode(); lastCode != "" {
			session.LastCode = lastCode
			if err := s.sessionRepo.UpdateLastCode(session.ID, lastCode); err != nil {
				return nil, err
			}
		}
	}

	if err := s.sessionRepo.CreateMessage(&domain.Message{
		SessionID: session.ID,
		Role:      "assistant",
		Content:   replyText,
	}); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.UpdateState(session.ID, state); err != nil {
		return nil, err
	}

	return &domain.ChatResponse{
		SessionID: session.ID,
		Answer:    replyText,
		HasCode:   reply.HasCode,
		Executed:  reply.Executed,
		Fixing:    reply.Fixing,
	}, nil
}

// enhanceWithErrorHistory folds recent execution errors into a fix-style
// prompt so the generator can avoid repeating them.
func (s *ChatService) enhanceWithErrorHistory(sessionID, message string) string {
	entries, err := s.historyRepo.Recent(sessionID, domain.HistoryKindError)
	if err != nil || len(entries) == 0 {
		return message
	}

	var b strings.Builder
	b.WriteString(message)
	b.WriteString("\n\nHere are recent errors to avoid:\n")
	for i, entry := range entries {
		fmt.Fprintf(&b, "%d. %s\n", i+1, firstLine(entry.Content))
	}
	return b.String()
}

func isFixRequest(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range fixKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	if len(text) > 100 {
		return text[:100]
	}
	return text
}
