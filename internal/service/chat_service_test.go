package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cadchat/internal/bridge"
	"cadchat/internal/config"
	"cadchat/internal/docs"
	"cadchat/internal/domain"
	"cadchat/internal/protocol"
	"cadchat/internal/repository"
)

type chatFixture struct {
	cfg         *config.Config
	panelRepo   *repository.PanelRepository
	sessionRepo *repository.SessionRepository
	historyRepo *repository.HistoryRepository
	panel       *domain.Panel
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	panelRepo := repository.NewPanelRepository(db)
	panel := &domain.Panel{
		Name:        "Test Panel",
		HostApp:     "fusion360",
		PanelConfig: domain.DefaultPanelConfig(),
	}
	require.NoError(t, panelRepo.Create(panel))

	return &chatFixture{
		cfg: &config.Config{
			Bridge: config.BridgeConfig{TimeoutSeconds: 5, Retry: false},
		},
		panelRepo:   panelRepo,
		sessionRepo: repository.NewSessionRepository(db),
		historyRepo: repository.NewHistoryRepository(db),
		panel:       panel,
	}
}

func (f *chatFixture) service(br bridge.Bridge, executor bridge.Executor) *ChatService {
	return NewChatService(
		f.cfg,
		f.panelRepo,
		f.sessionRepo,
		f.historyRepo,
		br,
		executor,
		docs.NewStore(docs.Builtin()),
		zap.NewNop(),
	)
}

// executorFunc adapts a function to bridge.Executor for tests.
type executorFunc func(ctx context.Context, code string) (string, error)

func (f executorFunc) Execute(ctx context.Context, code string) (string, error) {
	return f(ctx, code)
}

func TestChatCarriesLastCodeForward(t *testing.T) {
	f := newChatFixture(t)

	const code = "import adsk.core\napp = adsk.core.Application.get()"

	var payloads []protocol.ChatPayload
	br := bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		assert.Equal(t, protocol.CommandChatMessage, command)
		p, err := protocol.DecodeChatPayload(payload)
		require.NoError(t, err)
		payloads = append(payloads, p)
		return fmt.Sprintf("Here you go:\n```python\n%s\n```\nDone.", code), nil
	})

	svc := f.service(br, nil)

	resp, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{Message: "extrude a box"})
	require.NoError(t, err)
	assert.True(t, resp.HasCode)
	assert.False(t, resp.Executed)
	assert.True(t, resp.CanOfferExecute())

	// The first request carries no prior code.
	require.Len(t, payloads, 1)
	assert.Empty(t, payloads[0].Arg2)

	// The session remembers the literal fence contents.
	session, err := f.sessionRepo.Get(resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, code+"\n", session.LastCode)
	assert.Equal(t, domain.TurnRepliedWithCode, session.State)

	// The next turn in the same session carries it as arg2.
	_, err = svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{
		SessionID: resp.SessionID,
		Message:   "make it taller",
	})
	require.NoError(t, err)
	require.Len(t, payloads, 2)
	assert.Equal(t, session.LastCode, payloads[1].Arg2)
}

func TestChatPlainReply(t *testing.T) {
	f := newChatFixture(t)

	br := bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		return "An extrude adds depth to a closed sketch profile.", nil
	})

	svc := f.service(br, nil)
	resp, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{Message: "what is an extrude?"})
	require.NoError(t, err)

	assert.False(t, resp.HasCode)
	assert.False(t, resp.CanOfferExecute())

	session, err := f.sessionRepo.Get(resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.TurnRepliedPlain, session.State)
	assert.Empty(t, session.LastCode)
}

func TestChatBridgeFailureKeepsLastCode(t *testing.T) {
	f := newChatFixture(t)

	fail := false
	br := bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		if fail {
			return "", errors.New("connection refused")
		}
		return "```python\nfirst = True\n```", nil
	})

	svc := f.service(br, nil)

	resp, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{Message: "extrude a box"})
	require.NoError(t, err)

	fail = true
	failedResp, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{
		SessionID: resp.SessionID,
		Message:   "revolve it",
	})
	require.NoError(t, err, "a bridge failure is reported in the reply, not as an error")
	assert.Equal(t, domain.BridgeFailureMessage, failedResp.Answer)
	assert.False(t, failedResp.HasCode)

	session, err := f.sessionRepo.Get(resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.TurnFailed, session.State)
	assert.Equal(t, "first = True\n", session.LastCode, "a failed turn must not corrupt the carried-forward code")
}

func TestChatRetriesOnceOnTransportFailure(t *testing.T) {
	f := newChatFixture(t)
	f.cfg.Bridge.Retry = true

	calls := 0
	br := bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("connection reset")
		}
		return "recovered on retry", nil
	})

	svc := f.service(br, nil)
	resp, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "recovered on retry", resp.Answer)
}

func TestChatRejectsSecondSubmitWhileAwaiting(t *testing.T) {
	f := newChatFixture(t)

	started := make(chan struct{})
	release := make(chan struct{})
	br := bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		close(started)
		<-release
		return "done", nil
	})

	svc := f.service(br, nil)

	session := &domain.Session{PanelID: f.panel.ID}
	require.NoError(t, f.sessionRepo.Create(session))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{
			SessionID: session.ID,
			Message:   "first",
		})
		assert.NoError(t, err)
	}()

	<-started
	_, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{
		SessionID: session.ID,
		Message:   "second",
	})
	assert.ErrorIs(t, err, domain.ErrRequestInFlight)

	close(release)
	wg.Wait()
}

func TestChatPanelNotFound(t *testing.T) {
	f := newChatFixture(t)

	br := bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		t.Fatal("bridge must not be called for an unknown panel")
		return "", nil
	})

	svc := f.service(br, nil)
	_, err := svc.Chat(context.Background(), "no-such-panel", &domain.ChatRequest{Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChatFixRequestCarriesErrorHistory(t *testing.T) {
	f := newChatFixture(t)

	session := &domain.Session{PanelID: f.panel.ID}
	require.NoError(t, f.sessionRepo.Create(session))
	require.NoError(t, f.historyRepo.Add(&domain.HistoryEntry{
		SessionID: session.ID,
		Kind:      domain.HistoryKindError,
		Content:   "ERROR 3: ASM_PATH_TANGENT\nTraceback (most recent call last)",
	}))

	var got protocol.ChatPayload
	br := bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		p, err := protocol.DecodeChatPayload(payload)
		require.NoError(t, err)
		got = p
		return "Try a smaller taper angle.", nil
	})

	svc := f.service(br, nil)
	_, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{
		SessionID: session.ID,
		Message:   "please fix the error",
	})
	require.NoError(t, err)

	assert.Contains(t, got.Arg1, "please fix the error")
	assert.Contains(t, got.Arg1, "recent errors to avoid")
	assert.Contains(t, got.Arg1, "ERROR 3: ASM_PATH_TANGENT")
	assert.NotContains(t, got.Arg1, "Traceback", "only the first line of each error is folded in")
}

func TestChatExecutePreviousWithoutExecutor(t *testing.T) {
	f := newChatFixture(t)

	br := bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		t.Fatal("execute the previous code must not round-trip to the generator")
		return "", nil
	})

	svc := f.service(br, nil)

	session := &domain.Session{PanelID: f.panel.ID, LastCode: "x = 1"}
	require.NoError(t, f.sessionRepo.Create(session))

	resp, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{
		SessionID: session.ID,
		Message:   "Execute the previous code",
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Answer, "not available")
}

func TestChatExecutePreviousNoCode(t *testing.T) {
	f := newChatFixture(t)

	svc := f.service(bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		return "", errors.New("unreachable")
	}), executorFunc(func(ctx context.Context, code string) (string, error) {
		t.Fatal("nothing to execute")
		return "", nil
	}))

	session := &domain.Session{PanelID: f.panel.ID}
	require.NoError(t, f.sessionRepo.Create(session))

	resp, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{
		SessionID: session.ID,
		Message:   "execute the previous code",
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Answer, "No code found to execute")
}

func TestChatExecutePreviousRunsCarriedCode(t *testing.T) {
	f := newChatFixture(t)

	var executed string
	exec := executorFunc(func(ctx context.Context, code string) (string, error) {
		executed = code
		return "Created extrusion successfully", nil
	})

	svc := f.service(bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		return "", errors.New("unreachable")
	}), exec)

	session := &domain.Session{PanelID: f.panel.ID, LastCode: "x = 1"}
	require.NoError(t, f.sessionRepo.Create(session))

	resp, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{
		SessionID: session.ID,
		Message:   "execute the previous code",
	})
	require.NoError(t, err)
	assert.Equal(t, "x = 1", executed)
	assert.True(t, resp.Executed)
	assert.False(t, resp.CanOfferExecute())
	assert.Contains(t, resp.Answer, protocol.MarkerExecutionResult)
}

func TestChatAutoExecuteAnnotatesResult(t *testing.T) {
	f := newChatFixture(t)
	f.panel.PanelConfig.AutoExecute = true
	require.NoError(t, f.panelRepo.Update(f.panel))

	br := bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		return "```python\nprint('hi')\n```", nil
	})
	exec := executorFunc(func(ctx context.Context, code string) (string, error) {
		return "Created extrusion successfully", nil
	})

	svc := f.service(br, exec)
	resp, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{Message: "extrude a box"})
	require.NoError(t, err)

	assert.True(t, resp.Executed)
	assert.False(t, resp.CanOfferExecute())
	assert.Contains(t, resp.Answer, protocol.MarkerExecutionResult)
	assert.Contains(t, resp.Answer, "Created extrusion successfully")
	assert.False(t, resp.Fixing)
}

func TestChatAutoExecuteRespectsOptOut(t *testing.T) {
	f := newChatFixture(t)
	f.panel.PanelConfig.AutoExecute = true
	require.NoError(t, f.panelRepo.Update(f.panel))

	br := bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		return "```python\nprint('hi')\n```", nil
	})
	exec := executorFunc(func(ctx context.Context, code string) (string, error) {
		t.Fatal("executor must not run when the user opts out")
		return "", nil
	})

	svc := f.service(br, exec)
	resp, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{
		Message: "extrude a box but don't execute it yet",
	})
	require.NoError(t, err)
	assert.False(t, resp.Executed)
	assert.True(t, resp.CanOfferExecute())
}

func TestChatFailedExecutionTriggersFixCycle(t *testing.T) {
	f := newChatFixture(t)
	f.panel.PanelConfig.AutoExecute = true
	require.NoError(t, f.panelRepo.Update(f.panel))

	calls := 0
	br := bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		calls++
		if calls == 1 {
			return "```python\nbroken()\n```", nil
		}
		p, err := protocol.DecodeChatPayload(payload)
		require.NoError(t, err)
		assert.Contains(t, p.Arg1, "failed with this error")
		assert.Contains(t, p.Arg2, "broken()")
		return "```python\nfixed()\n```", nil
	})
	exec := executorFunc(func(ctx context.Context, code string) (string, error) {
		return "Error executing code: ERROR 3: ASM_PATH_TANGENT", nil
	})

	svc := f.service(br, exec)
	resp, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{Message: "sweep along the path"})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.True(t, resp.Fixing)
	assert.Contains(t, resp.Answer, protocol.MarkerAutoFix)
	assert.Contains(t, resp.Answer, protocol.MarkerImprovedSolution)
	assert.Contains(t, resp.Answer, "Suggested Fix:", "known error codes get a documented solution")

	// The failed run lands in error history for later fix prompts.
	entries, err := f.historyRepo.Recent(resp.SessionID, domain.HistoryKindError)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Content, "ASM_PATH_TANGENT")
}

func TestAbortTurnRecordsTerminalState(t *testing.T) {
	f := newChatFixture(t)

	svc := f.service(bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		return "", errors.New("unreachable")
	}), nil)

	session := &domain.Session{PanelID: f.panel.ID}
	require.NoError(t, f.sessionRepo.Create(session))

	// Reproduce the front half of a turn dying before the bridge call.
	require.NoError(t, svc.turns.Begin(session.ID))
	require.NoError(t, f.sessionRepo.UpdateState(session.ID, domain.TurnAwaitingReply))

	svc.abortTurn(session.ID)

	got, err := f.sessionRepo.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TurnFailed, got.State, "an aborted turn must not leave the session awaiting a reply")

	// The guard is released for the next request.
	require.NoError(t, svc.turns.Begin(session.ID))
}

func TestChatStreamRejectsBeforeStreaming(t *testing.T) {
	f := newChatFixture(t)

	svc := f.service(bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		return "ok", nil
	}), nil)

	_, err := svc.ChatStream(context.Background(), "no-such-panel", &domain.ChatRequest{Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	session := &domain.Session{PanelID: f.panel.ID}
	require.NoError(t, f.sessionRepo.Create(session))
	require.NoError(t, svc.turns.Begin(session.ID))

	_, err = svc.ChatStream(context.Background(), f.panel.ID, &domain.ChatRequest{
		SessionID: session.ID,
		Message:   "second",
	})
	assert.ErrorIs(t, err, domain.ErrRequestInFlight, "an occupied session is refused before any chunk is emitted")
}

func TestChatStreamEmitsStatusChunks(t *testing.T) {
	f := newChatFixture(t)

	br := bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		return "plain answer", nil
	})

	svc := f.service(br, nil)
	ch, err := svc.ChatStream(context.Background(), f.panel.ID, &domain.ChatRequest{Message: "hello"})
	require.NoError(t, err)

	var types []string
	var content string
	for chunk := range ch {
		types = append(types, chunk.Type)
		if chunk.Type == "content" {
			content = chunk.Content
		}
	}

	assert.Equal(t, []string{"thinking", "content", "done"}, types)
	assert.Equal(t, "plain answer", content)
}

func TestChatCreatesSessionWhenMissing(t *testing.T) {
	f := newChatFixture(t)

	br := bridge.Func(func(ctx context.Context, command string, payload []byte) (string, error) {
		return "ok", nil
	})

	svc := f.service(br, nil)
	resp, err := svc.Chat(context.Background(), f.panel.ID, &domain.ChatRequest{Message: "hello"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionID)

	messages, err := f.sessionRepo.GetMessages(resp.SessionID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, "assistant", messages[1].Role)
}

func TestHistoryCapTrimsOldest(t *testing.T) {
	f := newChatFixture(t)

	session := &domain.Session{PanelID: f.panel.ID}
	require.NoError(t, f.sessionRepo.Create(session))

	for i := 0; i < 8; i++ {
		require.NoError(t, f.historyRepo.Add(&domain.HistoryEntry{
			SessionID: session.ID,
			Kind:      domain.HistoryKindCode,
			Content:   fmt.Sprintf("code %d", i),
		}))
	}

	entries, err := f.historyRepo.Recent(session.ID, domain.HistoryKindCode)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, "code 7", entries[0].Content)
	for _, entry := range entries {
		assert.False(t, strings.HasSuffix(entry.Content, "0"), "oldest entries are trimmed")
	}
}
