package persistence

import (
	"os"
	"path/filepath"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/pkg/errcodes"
)

// Имена документов коллекций внутри каталога хранилища.
const (
	usersDocument    = "users.json"
	dealsDocument    = "deals.json"
	balancesDocument = "balances.json"
	logsDocument     = "logs.json"
)

// Store — файловое хранилище гаранта: четыре JSON-документа в одном
// каталоге. Открывается один раз на старте, репозитории делят между собой
// его коллекции.
type Store struct {
	dir      string
	users    *document[int64, entity.User]
	deals    *document[string, entity.Deal]
	balances *document[int64, entity.Balance]
	logs     *document[string, entity.TradeLog]
}

// Open создаёт каталог при необходимости и загружает все четыре коллекции.
// Любой нечитаемый документ останавливает запуск.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.WrapError(err, errcodes.StorageFailure, "failed to create storage dir")
	}

	users, err := openDocument[int64, entity.User](filepath.Join(dir, usersDocument))
	if err != nil {
		return nil, err
	}

	deals, err := openDocument[string, entity.Deal](filepath.Join(dir, dealsDocument))
	if err != nil {
		return nil, err
	}

	balances, err := openDocument[int64, entity.Balance](filepath.Join(dir, balancesDocument))
	if err != nil {
		return nil, err
	}

	logs, err := openDocument[string, entity.TradeLog](filepath.Join(dir, logsDocument))
	if err != nil {
		return nil, err
	}

	return &Store{
		dir:      dir,
		users:    users,
		deals:    deals,
		balances: balances,
		logs:     logs,
	}, nil
}

// Dir возвращает каталог хранилища.
func (s *Store) Dir() string {
	return s.dir
}

// Files возвращает пути всех документов коллекций, для резервных копий.
func (s *Store) Files() []string {
	return []string{
		filepath.Join(s.dir, usersDocument),
		filepath.Join(s.dir, dealsDocument),
		filepath.Join(s.dir, balancesDocument),
		filepath.Join(s.dir, logsDocument),
	}
}
