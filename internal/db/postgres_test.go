package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_jobs.sql":  {Data: []byte("SELECT 1")},
		"0001_users.sql": {Data: []byte("SELECT 1")},
		"0003_apps.sql":  {Data: []byte("SELECT 1")},
		"README.md":      {Data: []byte("docs")},
		"old/0000.sql":   {Data: []byte("SELECT 1")},
	}

	pending, err := PendingMigrations(fsys, map[string]struct{}{"0001_users.sql": {}})
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_jobs.sql", "0003_apps.sql"}, pending)
}

func TestPendingMigrations_AllApplied(t *testing.T) {
	fsys := fstest.MapFS{"0001_users.sql": {Data: []byte("SELECT 1")}}

	pending, err := PendingMigrations(fsys, map[string]struct{}{"0001_users.sql": {}})
	require.NoError(t, err)
	assert.Empty(t, pending)
}
