package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/xid"

	"tg_garant/pkg/contextx"
	"tg_garant/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// SnapshotSource перечисляет файлы, попадающие в резервную копию.
type SnapshotSource interface {
	Files() []string
}

// BackupWorker периодически складывает снимок документов хранилища в каталог
// поколения и удаляет устаревшие поколения. Имя поколения начинается с
// отметки времени, поэтому лексикографический порядок совпадает с
// хронологическим.
type BackupWorker struct {
	source   SnapshotSource
	dir      string
	interval time.Duration
	keep     int

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewBackupWorker(source SnapshotSource, dir string, interval time.Duration, keep int) *BackupWorker {
	return &BackupWorker{
		source:   source,
		dir:      dir,
		interval: interval,
		keep:     keep,
	}
}

func (w *BackupWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("backup worker is already running")
	}

	backupCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(backupCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(backupCtx).Error("backup worker stopped", logx.Error(err))
		}
	}()

	return nil
}

func (w *BackupWorker) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning возвращает текущий статус
func (w *BackupWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.isRunning
}

func (w *BackupWorker) Run(ctx context.Context) error {
	logger(ctx).Info("backup worker started", slog.String("dir", w.dir))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("backup worker stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := w.Snapshot(ctx); err != nil {
				logger(ctx).Error("backup failed", logx.Error(err))
			}
		}
	}
}

// Snapshot копирует документы хранилища в новый каталог поколения.
// Суффикс xid разводит поколения, созданные в одну секунду.
func (w *BackupWorker) Snapshot(ctx context.Context) error {
	name := time.Now().UTC().Format("20060102-150405") + "-" + xid.New().String()
	target := filepath.Join(w.dir, name)

	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	for _, path := range w.source.Files() {
		if err := copyFile(path, filepath.Join(target, filepath.Base(path))); err != nil {
			return fmt.Errorf("copy %s: %w", filepath.Base(path), err)
		}
	}

	logger(ctx).Info("backup written", slog.String("dir", target))

	return w.prune(ctx)
}

// prune удаляет старые поколения сверх лимита keep.
func (w *BackupWorker) prune(ctx context.Context) error {
	if w.keep <= 0 {
		return nil
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}

	generations := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			generations = append(generations, entry.Name())
		}
	}

	if len(generations) <= w.keep {
		return nil
	}

	sort.Strings(generations)

	for _, name := range generations[:len(generations)-w.keep] {
		if err := os.RemoveAll(filepath.Join(w.dir, name)); err != nil {
			return fmt.Errorf("drop old backup: %w", err)
		}

		logger(ctx).Debug("old backup dropped", slog.String("name", name))
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Sync()
}
