package worker_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tg_garant/internal/domain/entity"
	"tg_garant/internal/infrastructure/persistence"
	"tg_garant/internal/worker"
)

func openSeededStore(t *testing.T) *persistence.Store {
	t.Helper()

	store, err := persistence.Open(t.TempDir())
	require.NoError(t, err)

	users := persistence.NewUserRepository(store)
	_, err = users.Save(context.Background(), entity.User{
		ID:       7,
		Username: "seller",
		Stage:    entity.StageMenu,
	})
	require.NoError(t, err)

	return store
}

func listGenerations(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	return names
}

func TestSnapshotCopiesDocuments(t *testing.T) {
	rq := require.New(t)

	store := openSeededStore(t)
	backupDir := t.TempDir()

	w := worker.NewBackupWorker(store, backupDir, time.Hour, 5)
	rq.NoError(w.Snapshot(context.Background()))

	generations := listGenerations(t, backupDir)
	rq.Len(generations, 1)

	for _, src := range store.Files() {
		copied := filepath.Join(backupDir, generations[0], filepath.Base(src))

		want, err := os.ReadFile(src)
		rq.NoError(err)

		got, err := os.ReadFile(copied)
		rq.NoError(err)

		rq.Equal(want, got)
	}
}

func TestSnapshotPrunesOldGenerations(t *testing.T) {
	rq := require.New(t)

	store := openSeededStore(t)
	backupDir := t.TempDir()

	w := worker.NewBackupWorker(store, backupDir, time.Hour, 2)

	for range 3 {
		rq.NoError(w.Snapshot(context.Background()))
	}

	rq.Len(listGenerations(t, backupDir), 2)
}

func TestStartStop(t *testing.T) {
	rq := require.New(t)

	store := openSeededStore(t)
	w := worker.NewBackupWorker(store, t.TempDir(), time.Hour, 2)

	rq.NoError(w.Start(context.Background()))
	rq.True(w.IsRunning())

	rq.Error(w.Start(context.Background()))

	w.Stop()
	rq.False(w.IsRunning())
}
