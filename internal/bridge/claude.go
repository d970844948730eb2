package bridge

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"cadchat/internal/docs"
	"cadchat/internal/domain"
	"cadchat/internal/protocol"
)

// ClaudeBridge answers chatMessage calls with Anthropic-generated code.
type ClaudeBridge struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	docs      *docs.Store
}

// NewClaudeBridge creates a Claude-backed bridge. The docs store grounds the
// prompt in known API behavior; it may be nil.
func NewClaudeBridge(apiKey, model string, maxTokens int64, store *docs.Store) (*ClaudeBridge, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("anthropic api key not set")
	}
	return &ClaudeBridge{
		client:    anthropic.NewClient(option.WithAPIKey(strings.TrimSpace(apiKey))),
		model:     model,
		maxTokens: maxTokens,
		docs:      store,
	}, nil
}

// Call implements Bridge.
func (b *ClaudeBridge) Call(ctx context.Context, command string, payload []byte) (string, error) {
	if command != protocol.CommandChatMessage {
		return "", fmt.Errorf("%w: unknown command %q", domain.ErrInvalidRequest, command)
	}

	p, err := protocol.DecodeChatPayload(payload)
	if err != nil {
		return "", err
	}

	msg, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: b.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(p, currentIndex(b.docs)))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBridgeCallFailed, err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: empty completion", domain.ErrBridgeCallFailed)
	}
	return sb.String(), nil
}
