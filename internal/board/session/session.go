// Package session persists a best-effort snapshot of the board's filters,
// selection and workflow mode so a restarted service comes back where the
// user left off. Failures here are logged and swallowed; session state is
// never load-bearing.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Snapshot is the persisted session state.
type Snapshot struct {
	Search        string    `json:"search"`
	Status        string    `json:"status"`
	View          string    `json:"view"`
	Mode          string    `json:"mode"`
	SelectedJobID string    `json:"selected_job_id"`
	BulkSelected  []string  `json:"bulk_selected"`
	SavedAt       time.Time `json:"saved_at"`
}

// Manager reads and writes the session file.
type Manager struct {
	path   string
	maxAge time.Duration
	logger *slog.Logger
}

// NewManager creates a session manager. An empty path disables
// persistence entirely.
func NewManager(path string, maxAge time.Duration, logger *slog.Logger) *Manager {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &Manager{path: path, maxAge: maxAge, logger: logger}
}

// Save writes the snapshot. The write goes through a temp file and rename
// so a crash mid-save never leaves a torn session file.
func (m *Manager) Save(s Snapshot) error {
	if m.path == "" {
		return nil
	}

	s.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	m.logger.Debug("Session snapshot saved",
		slog.String("path", m.path),
		slog.Int("bulk_selected", len(s.BulkSelected)),
	)

	return nil
}

// Load returns the saved snapshot, or nil when there is none, it cannot
// be read, or it is older than the max age.
func (m *Manager) Load() *Snapshot {
	if m.path == "" {
		return nil
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("Failed to read session file",
				slog.String("path", m.path),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		m.logger.Warn("Session file is corrupt, ignoring",
			slog.String("path", m.path),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if time.Since(s.SavedAt) > m.maxAge {
		m.logger.Info("Session snapshot expired, ignoring",
			slog.Time("saved_at", s.SavedAt),
			slog.Duration("max_age", m.maxAge),
		)
		return nil
	}

	return &s
}
