package inventory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradenest/tradenest/pkg/database"
	"go.uber.org/zap"
)

func newTestRepository(t *testing.T) *SnapshotRepository {
	t.Helper()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "inventory.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Init())

	return NewSnapshotRepository(db, zap.NewNop())
}

func TestSnapshotRepositoryLoadBeforeFirstSave(t *testing.T) {
	repo := newTestRepository(t)

	_, ok, err := repo.Load()
	require.NoError(t, err)
	assert.False(t, ok, "empty database has no snapshot")
}

func TestSnapshotRepositorySaveIsLastWriteWins(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Save(Snapshot{Items: sampleItems(), TotalItems: 3}))
	require.NoError(t, repo.Save(Snapshot{Items: sampleItems()[:1], TotalItems: 1}))

	snapshot, ok, err := repo.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, snapshot.TotalItems)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, "Wireless Bluetooth Headphones", snapshot.Items[0].Name)
}
