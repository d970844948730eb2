package service

import (
	"context"

	"cadchat/internal/config"
	"cadchat/internal/domain"
	"cadchat/internal/repository"
)

// PanelConfigResponse is the response for panel config
type PanelConfigResponse struct {
	PanelID string             `json:"panel_id"`
	Name    string             `json:"name"`
	Config  domain.PanelConfig `json:"config"`
	BaseURL string             `json:"base_url"`
}

// PanelService handles panel-facing operations
type PanelService struct {
	cfg         *config.Config
	panelRepo   *repository.PanelRepository
	chatService *ChatService
}

// NewPanelService creates a new panel service
func NewPanelService(
	cfg *config.Config,
	panelRepo *repository.PanelRepository,
	chatService *ChatService,
) *PanelService {
	return &PanelService{
		cfg:         cfg,
		panelRepo:   panelRepo,
		chatService: chatService,
	}
}

// GetPanelConfig returns the UI configuration for a panel
func (s *PanelService) GetPanelConfig(ctx context.Context, panelID string) (*PanelConfigResponse, error) {
	panel, err := s.panelRepo.Get(panelID)
	if err != nil {
		return nil, err
	}
	if panel == nil {
		return nil, domain.ErrNotFound
	}

	return &PanelConfigResponse{
		PanelID: panel.ID,
		Name:    panel.Name,
		Config:  panel.PanelConfig,
		BaseURL: s.cfg.Server.BaseURL,
	}, nil
}

// Chat handles a chat message
func (s *PanelService) Chat(ctx context.Context, panelID string, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	return s.chatService.Chat(ctx, panelID, req)
}

// ChatStream handles a streaming chat message
func (s *PanelService) ChatStream(ctx context.Context, panelID string, req *domain.ChatRequest) (<-chan domain.StreamChunk, error) {
	return s.chatService.ChatStream(ctx, panelID, req)
}
