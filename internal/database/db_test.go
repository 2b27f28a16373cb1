package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doppai/persona-api/internal/clientdata"
)

func TestNewCreatesDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "client_data.db")

	db, err := New(Config{Path: path, Name: "client_data"})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "client_data", db.Name())
	assert.FileExists(t, db.Path())
}

func TestMigrateAppliesSchema(t *testing.T) {
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "client_data.db"), Name: "client_data"})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate(clientdata.Schema))

	// Re-running the migration is a no-op thanks to IF NOT EXISTS
	require.NoError(t, db.Migrate(clientdata.Schema))

	var count int
	err = db.Conn().QueryRow("SELECT COUNT(*) FROM coingecko_quotes").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
