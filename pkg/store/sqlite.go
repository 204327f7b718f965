package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"urlcopier/pkg/logger"
	"urlcopier/pkg/models"

	_ "github.com/mattn/go-sqlite3"
)

const selectTemplates = `SELECT id, name, format FROM templates ORDER BY position ASC`

// Manager is the SQLite-backed Store.
type Manager struct {
	db *sql.DB
}

var _ Store = (*Manager)(nil)

func NewManager(dbPath string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	m := &Manager{db: db}
	if err := m.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return m, nil
}

// GetDBPath returns the default location of the template database.
func GetDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "urlcopier", "templates.db")
}

func (m *Manager) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS templates (
			position INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			format TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_templates_position ON templates(position)`,
	}

	for _, query := range queries {
		if _, err := m.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) Templates() ([]models.Template, bool, error) {
	initialized, err := m.getSetting(m.db, KeyTemplatesInitialized)
	if err != nil {
		return nil, false, err
	}
	if initialized == "" {
		return nil, false, nil
	}

	rows, err := m.db.Query(selectTemplates)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	templates := []models.Template{}
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Format); err != nil {
			return nil, false, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("failed to read templates: %w", err)
	}

	return templates, true, nil
}

func (m *Manager) ReplaceTemplates(templates []models.Template) (models.SelectionState, error) {
	if err := models.ValidateList(templates); err != nil {
		return models.SelectionState{}, err
	}

	tx, err := m.db.Begin()
	if err != nil {
		return models.SelectionState{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM templates"); err != nil {
		return models.SelectionState{}, fmt.Errorf("failed to clear templates: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO templates (position, id, name, format)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return models.SelectionState{}, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, t := range templates {
		if _, err := stmt.Exec(i, t.ID, t.Name, t.Format); err != nil {
			return models.SelectionState{}, fmt.Errorf("failed to insert template: %w", err)
		}
	}

	if err := m.setSetting(tx, KeyTemplatesInitialized, "1"); err != nil {
		return models.SelectionState{}, err
	}

	state, err := m.selection(tx)
	if err != nil {
		return models.SelectionState{}, err
	}
	revalidated := state.Revalidate(templates)
	for _, slot := range models.Slots() {
		if revalidated.SlotTemplateID(slot) != state.SlotTemplateID(slot) {
			logger.Debug().Str("slot", slot.String()).Str("template", state.SlotTemplateID(slot)).Msg("Clearing stale slot binding")
			if err := m.setSetting(tx, slotKey(slot), ""); err != nil {
				return models.SelectionState{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.SelectionState{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return revalidated, nil
}

func (m *Manager) Selection() (models.SelectionState, error) {
	return m.selection(m.db)
}

func (m *Manager) SetLastUsed(id string) error {
	return m.setSetting(m.db, KeyLastUsedTemplateID, id)
}

func (m *Manager) SetSlot(slot models.Slot, id string) error {
	if !slot.Valid() {
		return fmt.Errorf("invalid slot %d", slot)
	}
	return m.setSetting(m.db, slotKey(slot), id)
}

func (m *Manager) EnsureDefaults() (bool, error) {
	_, ok, err := m.Templates()
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	if _, err := m.ReplaceTemplates(models.DefaultTemplates()); err != nil {
		return false, err
	}
	logger.Info().Msg("Seeded default templates")
	return true, nil
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

func (m *Manager) selection(q querier) (models.SelectionState, error) {
	var state models.SelectionState
	var err error

	if state.LastUsedTemplateID, err = m.getSetting(q, KeyLastUsedTemplateID); err != nil {
		return state, err
	}
	if state.Slot1TemplateID, err = m.getSetting(q, KeySlot1TemplateID); err != nil {
		return state, err
	}
	if state.Slot2TemplateID, err = m.getSetting(q, KeySlot2TemplateID); err != nil {
		return state, err
	}
	return state, nil
}

func (m *Manager) getSetting(q querier, key string) (string, error) {
	var value string
	err := q.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

func (m *Manager) setSetting(q querier, key, value string) error {
	query := `
		INSERT OR REPLACE INTO settings (key, value)
		VALUES (?, ?)
	`
	if _, err := q.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}
