package service

import (
	"context"

	"cadchat/internal/domain"
	"cadchat/internal/repository"
)

// AdminService handles admin operations
type AdminService struct {
	panelRepo   *repository.PanelRepository
	sessionRepo *repository.SessionRepository
	docsService *DocsService
}

// NewAdminService creates a new admin service
func NewAdminService(
	panelRepo *repository.PanelRepository,
	sessionRepo *repository.SessionRepository,
	docsService *DocsService,
) *AdminService {
	return &AdminService{
		panelRepo:   panelRepo,
		sessionRepo: sessionRepo,
		docsService: docsService,
	}
}

// Panel operations

func (s *AdminService) CreatePanel(ctx context.Context, req *domain.CreatePanelRequest) (*domain.Panel, error) {
	panelConfig := domain.DefaultPanelConfig()
	if req.PanelConfig != nil {
		panelConfig = *req.PanelConfig
	}

	rateLimit := req.RateLimit
	if rateLimit == 0 {
		rateLimit = 100
	}

	panel := &domain.Panel{
		Name:        req.Name,
		HostApp:     req.HostApp,
		PanelConfig: panelConfig,
		RateLimit:   rateLimit,
	}
	if err := s.panelRepo.Create(panel); err != nil {
		return nil, err
	}
	return panel, nil
}

func (s *AdminService) GetPanel(ctx context.Context, id string) (*domain.Panel, error) {
	return s.panelRepo.Get(id)
}

func (s *AdminService) ListPanels(ctx context.Context) ([]*domain.Panel, error) {
	return s.panelRepo.List()
}

func (s *AdminService) UpdatePanel(ctx context.Context, id string, req *domain.UpdatePanelRequest) (*domain.Panel, error) {
	panel, err := s.panelRepo.Get(id)
	if err != nil {
		return nil, err
	}
	if panel == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != "" {
		panel.Name = req.Name
	}
	if req.HostApp != "" {
		panel.HostApp = req.HostApp
	}
	if req.PanelConfig != nil {
		panel.PanelConfig = *req.PanelConfig
	}
	if req.RateLimit != 0 {
		panel.RateLimit = req.RateLimit
	}

	if err := s.panelRepo.Update(panel); err != nil {
		return nil, err
	}
	return panel, nil
}

func (s *AdminService) DeletePanel(ctx context.Context, id string) error {
	return s.panelRepo.Delete(id)
}

// Session operations

func (s *AdminService) ListSessions(ctx context.Context, panelID string) ([]*domain.Session, error) {
	return s.sessionRepo.List(panelID)
}

func (s *AdminService) GetMessages(ctx context.Context, sessionID string) ([]*domain.Message, error) {
	return s.sessionRepo.GetMessages(sessionID)
}

// GetStats returns system statistics
func (s *AdminService) GetStats(ctx context.Context) (*domain.Stats, error) {
	panels, err := s.panelRepo.Count()
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.CountSessions()
	if err != nil {
		return nil, err
	}
	chats, err := s.sessionRepo.CountChats()
	if err != nil {
		return nil, err
	}

	stats := &domain.Stats{
		TotalPanels:   panels,
		TotalSessions: sessions,
		TotalChats:    chats,
	}
	if ix := s.docsService.Index(); ix != nil {
		stats.DocTopics, stats.DocErrorCodes, stats.DocPatterns = ix.Counts()
	}

	return stats, nil
}
