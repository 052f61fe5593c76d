package persistence

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"tg_garant/internal/domain"
	"tg_garant/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// document — одна именованная коллекция: JSON-документ на диске плюс его
// копия в памяти. Каждая мутация переписывает документ целиком; мьютекс
// коллекции держится на всём цикле «прочитать-изменить-записать», поэтому
// конкурирующие писатели не теряют чужие изменения.
type document[K comparable, V any] struct {
	mu   sync.Mutex
	path string
	data map[K]V
}

// openDocument загружает документ коллекции. Отсутствующий файл — штатный
// первый запуск: создаётся пустой документ. Файл, который есть, но не
// разбирается — это StorageFailure, молча считать его пустым нельзя.
func openDocument[K comparable, V any](path string) (*document[K, V], error) {
	d := &document[K, V]{
		path: path,
		data: make(map[K]V),
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := d.persistLocked(); err != nil {
			return nil, err
		}
		return d, nil
	case err != nil:
		return nil, domain.WrapError(err, errcodes.StorageFailure,
			fmt.Sprintf("failed to read collection %s", filepath.Base(path)))
	}

	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &d.data); err != nil {
			return nil, domain.WrapError(err, errcodes.StorageFailure,
				fmt.Sprintf("collection %s is unreadable", filepath.Base(path)))
		}
	}

	return d, nil
}

// Get возвращает запись по ключу из копии в памяти.
func (d *document[K, V]) Get(key K) (V, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, ok := d.data[key]
	return v, ok
}

// Len возвращает число записей в коллекции.
func (d *document[K, V]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.data)
}

// Snapshot отдаёт копию всей коллекции для листингов и выгрузок.
func (d *document[K, V]) Snapshot() map[K]V {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[K]V, len(d.data))
	for k, v := range d.data {
		out[k] = v
	}
	return out
}

// Mutate атомарно читает запись (или её отсутствие), применяет fn и
// записывает документ на диск до возврата. Ошибка fn отменяет мутацию;
// ошибка записи откатывает копию в памяти к прежнему значению.
func (d *document[K, V]) Mutate(key K, fn func(cur V, found bool) (V, error)) (V, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.mutateLocked(key, fn)
}

func (d *document[K, V]) mutateLocked(key K, fn func(cur V, found bool) (V, error)) (V, error) {
	var zero V

	cur, found := d.data[key]

	next, err := fn(cur, found)
	if err != nil {
		return zero, err
	}

	d.data[key] = next

	if err := d.persistLocked(); err != nil {
		if found {
			d.data[key] = cur
		} else {
			delete(d.data, key)
		}
		return zero, err
	}

	return next, nil
}

// persistLocked переписывает документ целиком: сначала во временный файл
// рядом, затем fsync и атомарный rename поверх старого. Вызывается только
// под d.mu.
func (d *document[K, V]) persistLocked() error {
	raw, err := json.MarshalIndent(d.data, "", "  ")
	if err != nil {
		return domain.WrapError(err, errcodes.StorageFailure,
			fmt.Sprintf("failed to encode collection %s", filepath.Base(d.path)))
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), filepath.Base(d.path)+".tmp-*")
	if err != nil {
		return domain.WrapError(err, errcodes.StorageFailure, "failed to create temp file")
	}

	if _, err := tmp.Write(raw); err == nil {
		err = tmp.Sync()
	}
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return domain.WrapError(err, errcodes.StorageFailure,
			fmt.Sprintf("failed to write collection %s", filepath.Base(d.path)))
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return domain.WrapError(err, errcodes.StorageFailure, "failed to close temp file")
	}

	if err := os.Rename(tmp.Name(), d.path); err != nil {
		_ = os.Remove(tmp.Name())
		return domain.WrapError(err, errcodes.StorageFailure,
			fmt.Sprintf("failed to replace collection %s", filepath.Base(d.path)))
	}

	return nil
}
