package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/storefront/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add coupons table", "add_coupons_table"},
		{"Add-Coupons-Table", "add_coupons_table"},
		{"ADD_COUPONS_TABLE", "add_coupons_table"},
		{"add__coupons__table", "add_coupons_table"},
		{"Add Sizes 250g", "add_sizes_250g"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add gift wrap", "Gift wrap flag on orders")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_gift_wrap.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_gift_wrap.down.sql"), first.DownPath)

	second, err := CreateMigration(dir, "index orders by email", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add gift wrap")
	assert.Contains(t, string(up), "-- Gift wrap flag on orders")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback: add gift wrap")
}

func TestCreateMigration_InvalidName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_create_coupons.up.sql":   {},
		"000002_create_coupons.down.sql": {},
		"000010_add_index.up.sql":        {},
		"000001_create_catalog.up.sql":   {},
		"README.md":                      {},
		"notaversion_x.up.sql":           {},
	}

	list, err := ListMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, uint(1), list[0].Version)
	assert.Equal(t, "create_catalog", list[0].Name)
	assert.Equal(t, uint(2), list[1].Version)
	assert.Equal(t, "000002_create_coupons.down.sql", list[1].DownPath)
	assert.Equal(t, uint(10), list[2].Version)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	list, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmbeddedMigrations_ArePaired(t *testing.T) {
	list, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.Len(t, list, 5)

	for i, mf := range list {
		assert.Equal(t, uint(i+1), mf.Version)
		_, err := migrations.FS.Open(mf.DownPath)
		assert.NoError(t, err, "missing down migration for %s", mf.UpPath)
	}
}
