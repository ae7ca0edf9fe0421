package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add users table", "add_users_table"},
		{"Add-Users-Table", "add_users_table"},
		{"add__users__table", "add_users_table"},
		{"Add Users 123", "add_users_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"a - !! - b", "a_b"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "postgres"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "postgres", "000004_existing.up.sql"), nil, 0o644))

	files, err := CreateMigration(dir, "Add invoice notes", "notes column")
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, mf := range files {
		assert.Equal(t, "000005", mf.Version)
		assert.Equal(t, filepath.Join(dir, mf.Dialect, "000005_add_invoice_notes.up.sql"), mf.UpPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "notes column")

		_, err = os.Stat(mf.DownPath)
		assert.NoError(t, err)
	}
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	for _, driver := range []string{"postgres", "sqlite"} {
		names, err := ListMigrations(driver)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"000001_create_users",
			"000002_create_customers",
			"000003_create_invoices",
		}, names, driver)
	}

	_, err := ListMigrations("mysql")
	assert.Error(t, err)
}
