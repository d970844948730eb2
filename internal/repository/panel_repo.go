package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cadchat/internal/domain"
)

// PanelRepository handles panel persistence
type PanelRepository struct {
	db *DB
}

// NewPanelRepository creates a new panel repository
func NewPanelRepository(db *DB) *PanelRepository {
	return &PanelRepository{db: db}
}

// Create registers a new panel
func (r *PanelRepository) Create(panel *domain.Panel) error {
	if panel.ID == "" {
		panel.ID = uuid.New().String()
	}
	now := time.Now()
	panel.CreatedAt = now
	panel.UpdatedAt = now

	panelConfigJSON, _ := json.Marshal(panel.PanelConfig)

	_, err := r.db.Exec(`
		INSERT INTO panels (id, name, host_app, panel_config, rate_limit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, panel.ID, panel.Name, panel.HostApp, string(panelConfigJSON),
		panel.RateLimit, panel.CreatedAt, panel.UpdatedAt)

	return err
}

// Get retrieves a panel by ID
func (r *PanelRepository) Get(id string) (*domain.Panel, error) {
	panel := &domain.Panel{}
	var panelConfigJSON string

	err := r.db.QueryRow(`
		SELECT id, name, host_app, panel_config, rate_limit, created_at, updated_at
		FROM panels WHERE id = ?
	`, id).Scan(&panel.ID, &panel.Name, &panel.HostApp, &panelConfigJSON,
		&panel.RateLimit, &panel.CreatedAt, &panel.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	json.Unmarshal([]byte(panelConfigJSON), &panel.PanelConfig)

	return panel, nil
}

// List retrieves all panels
func (r *PanelRepository) List() ([]*domain.Panel, error) {
	rows, err := r.db.Query(`
		SELECT id, name, host_app, panel_config, rate_limit, created_at, updated_at
		FROM panels ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var panels []*domain.Panel
	for rows.Next() {
		panel := &domain.Panel{}
		var panelConfigJSON string

		if err := rows.Scan(&panel.ID, &panel.Name, &panel.HostApp, &panelConfigJSON,
			&panel.RateLimit, &panel.CreatedAt, &panel.UpdatedAt); err != nil {
			return nil, err
		}

		json.Unmarshal([]byte(panelConfigJSON), &panel.PanelConfig)
		panels = append(panels, panel)
	}

	return panels, rows.Err()
}

// Update updates a panel
func (r *PanelRepository) Update(panel *domain.Panel) error {
	panel.UpdatedAt = time.Now()
	panelConfigJSON, _ := json.Marshal(panel.PanelConfig)

	result, err := r.db.Exec(`
		UPDATE panels SET name = ?, host_app = ?, panel_config = ?, rate_limit = ?, updated_at = ?
		WHERE id = ?
	`, panel.Name, panel.HostApp, string(panelConfigJSON),
		panel.RateLimit, panel.UpdatedAt, panel.ID)

	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("panel not found: %s", panel.ID)
	}

	return nil
}

// Delete deletes a panel
func (r *PanelRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM panels WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("panel not found: %s", id)
	}

	return nil
}

// Count returns the total number of panels
func (r *PanelRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM panels`).Scan(&count)
	return count, err
}
