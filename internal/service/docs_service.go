package service

import (
	"context"

	"go.uber.org/zap"

	"cadchat/internal/config"
	"cadchat/internal/docs"
)

// DocsService serves the documentation index to the docs API and reloads
// the snapshot after the offline generator rebuilds it. Snapshots are
// replaced wholesale, never patched in place.
type DocsService struct {
	cfg    *config.Config
	store  *docs.Store
	logger *zap.Logger
}

// NewDocsService loads the snapshot from disk. When no snapshot exists yet
// the builtin seed data is served so a fresh deployment still answers
// lookups.
func NewDocsService(cfg *config.Config, logger *zap.Logger) (*DocsService, error) {
	ix, err := docs.Load(cfg.Docs.SnapshotPath)
	if err != nil {
		logger.Warn("docs snapshot unavailable, serving builtin data",
			zap.String("path", cfg.Docs.SnapshotPath),
			zap.Error(err),
		)
		ix = docs.Builtin()
	}

	return &DocsService{
		cfg:    cfg,
		store:  docs.NewStore(ix),
		logger: logger,
	}, nil
}

// Index returns the currently served snapshot.
func (s *DocsService) Index() *docs.Index {
	return s.store.Current()
}

// Store exposes the underlying snapshot holder for components that must
// follow reloads.
func (s *DocsService) Store() *docs.Store {
	return s.store
}

// Reload re-reads the snapshot file and swaps it in.
func (s *DocsService) Reload(ctx context.Context) error {
	ix, err := docs.Load(s.cfg.Docs.SnapshotPath)
	if err != nil {
		return err
	}

	s.store.Replace(ix)
	topics, errorCodes, patterns := ix.Counts()
	s.logger.Info("docs snapshot reloaded",
		zap.String("path", s.cfg.Docs.SnapshotPath),
		zap.Int("topics", topics),
		zap.Int("error_codes", errorCodes),
		zap.Int("patterns", patterns),
	)
	return nil
}
