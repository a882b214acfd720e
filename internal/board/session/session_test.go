package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenseeker0/jobscraps-frontend/shared/logger"
)

func newTestManager(t *testing.T, maxAge time.Duration) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return NewManager(path, maxAge, logger.NewDefault().Logger), path
}

func TestSaveAndLoad(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)

	saved := Snapshot{
		Search:        "kubernetes",
		Status:        "interested",
		View:          "job_board_main",
		Mode:          "triage",
		SelectedJobID: "j-42",
		BulkSelected:  []string{"j-1", "j-42"},
	}
	require.NoError(t, m.Save(saved))

	loaded := m.Load()
	require.NotNil(t, loaded)

	assert.Equal(t, saved.Search, loaded.Search)
	assert.Equal(t, saved.Status, loaded.Status)
	assert.Equal(t, saved.View, loaded.View)
	assert.Equal(t, saved.Mode, loaded.Mode)
	assert.Equal(t, saved.SelectedJobID, loaded.SelectedJobID)
	assert.Equal(t, saved.BulkSelected, loaded.BulkSelected)
	assert.False(t, loaded.SavedAt.IsZero())
}

func TestLoad_MissingFile(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	assert.Nil(t, m.Load())
}

func TestLoad_CorruptFile(t *testing.T) {
	m, path := newTestManager(t, time.Hour)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	assert.Nil(t, m.Load())
}

func TestLoad_ExpiredSnapshot(t *testing.T) {
	m, path := newTestManager(t, time.Hour)

	// Save stamps SavedAt with now, so write a backdated snapshot directly
	stale := Snapshot{Search: "old", SavedAt: time.Now().Add(-2 * time.Hour).UTC()}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	assert.Nil(t, m.Load())
}

func TestDisabledManager(t *testing.T) {
	m := NewManager("", time.Hour, logger.NewDefault().Logger)

	require.NoError(t, m.Save(Snapshot{Search: "anything"}))
	assert.Nil(t, m.Load())
}

func TestSave_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")
	m := NewManager(path, time.Hour, logger.NewDefault().Logger)

	require.NoError(t, m.Save(Snapshot{Search: "x"}))
	assert.FileExists(t, path)
}
