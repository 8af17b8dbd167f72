package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwifloria/chrome-dida-extension/internal/config"
)

func TestNewDerivesDataDirFromDBPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "custom", "tasks.db")

	a, err := New(config.Config{DBPath: dbPath})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, filepath.Dir(dbPath), a.DataDir,
		"the data dir follows the configured database path")
}

func TestLockForMigrationLivesNextToDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tasks.db")

	a, err := New(config.Config{DBPath: dbPath})
	require.NoError(t, err)
	defer a.Close()

	unlock, err := a.LockForMigration()
	require.NoError(t, err)
	defer unlock()

	_, err = os.Stat(filepath.Join(filepath.Dir(dbPath), "dida-migrate.lock"))
	assert.NoError(t, err)
}
