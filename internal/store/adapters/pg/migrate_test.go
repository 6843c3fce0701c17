package pg

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMigrationsEmbedded(t *testing.T) {
	migs, err := parseMigrations(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, 1, migs[0].Version)
	assert.Equal(t, "init", migs[0].Name)
	assert.Contains(t, migs[0].SQL, "ON DELETE CASCADE")
}

func TestParseMigrationsOrdersAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0010_later.sql":  {Data: []byte("SELECT 10")},
		"m/0002_second.sql": {Data: []byte("SELECT 2")},
		"m/README.md":       {Data: []byte("ignored")},
		"m/bad_name.sql":    {Data: []byte("ignored")},
	}
	migs, err := parseMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, 2, migs[0].Version)
	assert.Equal(t, "second", migs[0].Name)
	assert.Equal(t, 10, migs[1].Version)
}
