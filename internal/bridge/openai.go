package bridge

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"cadchat/internal/docs"
	"cadchat/internal/domain"
	"cadchat/internal/protocol"
)

// OpenAIBridge answers chatMessage calls through an OpenAI-compatible chat
// completions endpoint. A custom base URL lets local providers serve the
// same contract.
type OpenAIBridge struct {
	client    openai.Client
	model     string
	maxTokens int64
	docs      *docs.Store
}

// NewOpenAIBridge creates an OpenAI-backed bridge.
func NewOpenAIBridge(apiKey, baseURL, model string, maxTokens int64, store *docs.Store) (*OpenAIBridge, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai api key not set")
	}
	opts := []option.RequestOption{option.WithAPIKey(strings.TrimSpace(apiKey))}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSpace(baseURL)))
	}
	return &OpenAIBridge{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
		docs:      store,
	}, nil
}

// Call implements Bridge.
func (b *OpenAIBridge) Call(ctx context.Context, command string, payload []byte) (string, error) {
	if command != protocol.CommandChatMessage {
		return "", fmt.Errorf("%w: unknown command %q", domain.ErrInvalidRequest, command)
	}

	p, err := protocol.DecodeChatPayload(payload)
	if err != nil {
		return "", err
	}

	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(p, currentIndex(b.docs))),
		},
		MaxTokens: openai.Int(b.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBridgeCallFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrBridgeCallFailed)
	}
	return resp.Choices[0].Message.Content, nil
}
