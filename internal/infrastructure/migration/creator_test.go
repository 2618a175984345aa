package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add inventory table", "add_inventory_table"},
		{"Add-Inventory-Table", "add_inventory_table"},
		{"ADD_INVENTORY_TABLE", "add_inventory_table"},
		{"add__inventory__table", "add_inventory_table"},
		{"Add Reservations 123", "add_reservations_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	tmpDir := t.TempDir()

	mf, err := CreateMigration(tmpDir, "add reservations table")
	require.NoError(t, err)
	require.NotNil(t, mf)

	assert.Len(t, mf.Version, 14)
	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "add reservations table")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "rollback")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nestedPath, "init")
	require.NoError(t, err)

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	t.Run("lists pairs by base name", func(t *testing.T) {
		tmpDir := t.TempDir()
		files := []string{
			"000001_init_schema.up.sql",
			"000001_init_schema.down.sql",
			"000002_add_reservations.up.sql",
			"000002_add_reservations.down.sql",
		}
		for _, f := range files {
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("-- test"), 0644))
		}

		migrations, err := ListMigrations(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init_schema", "000002_add_reservations"}, migrations)
	})

	t.Run("empty directory", func(t *testing.T) {
		migrations, err := ListMigrations(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("missing directory", func(t *testing.T) {
		migrations, err := ListMigrations("/nonexistent/path/to/migrations")
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("ignores other files", func(t *testing.T) {
		tmpDir := t.TempDir()
		for _, f := range []string{"000001_init.up.sql", "000001_init.down.sql", "README.md", ".gitkeep"} {
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("test"), 0644))
		}

		migrations, err := ListMigrations(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init"}, migrations)
	})
}
