package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"cadchat/internal/domain"
)

// SessionRepository handles session and message persistence
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session
func (r *SessionRepository) Create(session *domain.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.State == "" {
		session.State = domain.TurnIdle
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO sessions (id, panel_id, last_code, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, session.ID, session.PanelID, session.LastCode, string(session.State),
		session.CreatedAt, session.UpdatedAt)

	return err
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(id string) (*domain.Session, error) {
	session := &domain.Session{}
	var panelID sql.NullString
	var state string

	err := r.db.QueryRow(`
		SELECT id, panel_id, last_code, state, created_at, updated_at
		FROM sessions WHERE id = ?
	`, id).Scan(&session.ID, &panelID, &session.LastCode, &state,
		&session.CreatedAt, &session.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if panelID.Valid {
		session.PanelID = panelID.String
	}
	session.State = domain.TurnState(state)

	return session, nil
}

// UpdateState records the outcome of a turn. LastCode is written only when
// the reply carried code; a failed turn leaves it untouched.
func (r *SessionRepository) UpdateState(id string, state domain.TurnState) error {
	_, err := r.db.Exec(`UPDATE sessions SET state = ?, updated_at = ? WHERE id = ?`,
		string(state), time.Now(), id)
	return err
}

// UpdateLastCode overwrites the carried-forward code block for a session.
func (r *SessionRepository) UpdateLastCode(id, lastCode string) error {
	_, err := r.db.Exec(`UPDATE sessions SET last_code = ?, updated_at = ? WHERE id = ?`,
		lastCode, time.Now(), id)
	return err
}

// List retrieves sessions for a panel, newest first.
func (r *SessionRepository) List(panelID string) ([]*domain.Session, error) {
	rows, err := r.db.Query(`
		SELECT id, panel_id, last_code, state, created_at, updated_at
		FROM sessions WHERE panel_id = ?
		ORDER BY updated_at DESC
	`, panelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		session := &domain.Session{}
		var panelID sql.NullString
		var state string

		if err := rows.Scan(&session.ID, &panelID, &session.LastCode, &state,
			&session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, err
		}
		if panelID.Valid {
			session.PanelID = panelID.String
		}
		session.State = domain.TurnState(state)
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// CreateMessage creates a new message
func (r *SessionRepository) CreateMessage(message *domain.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO messages (id, session_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, message.ID, message.SessionID, message.Role, message.Content, message.CreatedAt)

	return err
}

// GetMessages retrieves all messages for a session
func (r *SessionRepository) GetMessages(sessionID string) ([]*domain.Message, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, role, content, created_at
		FROM messages WHERE session_id = ?
		ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		if err := rows.Scan(&message.ID, &message.SessionID, &message.Role,
			&message.Content, &message.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

// CountSessions returns the total number of sessions
func (r *SessionRepository) CountSessions() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count)
	return count, err
}

// CountChats returns the total number of user messages (chats)
func (r *SessionRepository) CountChats() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE role = 'user'`).Scan(&count)
	return count, err
}
