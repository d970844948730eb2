package repository

import (
	"time"

	"github.com/google/uuid"

	"cadchat/internal/domain"
)

// maxHistoryItems caps how many entries of each kind a session keeps.
const maxHistoryItems = 5

// HistoryRepository persists per-session code and error history. Recent
// errors feed back into fix-style prompts; recent code backs the
// "execute the previous code" command when the panel sends no block.
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Add records an entry and trims the session's history of that kind down to
// the cap, oldest first.
func (r *HistoryRepository) Add(entry *domain.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO history (id, session_id, kind, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.SessionID, entry.Kind, entry.Content, entry.CreatedAt)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		DELETE FROM history
		WHERE session_id = ? AND kind = ? AND id NOT IN (
			SELECT id FROM history
			WHERE session_id = ? AND kind = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
	`, entry.SessionID, entry.Kind, entry.SessionID, entry.Kind, maxHistoryItems)

	return err
}

// Recent returns up to maxHistoryItems entries of one kind, newest first.
func (r *HistoryRepository) Recent(sessionID, kind string) ([]*domain.HistoryEntry, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, kind, content, created_at
		FROM history
		WHERE session_id = ? AND kind = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, sessionID, kind, maxHistoryItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.HistoryEntry
	for rows.Next() {
		entry := &domain.HistoryEntry{}
		if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.Kind,
			&entry.Content, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// LatestCode returns the most recent generated code block for a session,
// or "" when none exists.
func (r *HistoryRepository) LatestCode(sessionID string) (string, error) {
	entries, err := r.Recent(sessionID, domain.HistoryKindCode)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", nil
	}
	return entries[0].Content, nil
}
