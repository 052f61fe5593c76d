package persistence

import (
	"context"
	"time"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/pkg/errcodes"
)

type UserRepository struct {
	users *document[int64, entity.User]
}

// NewUserRepository создаёт новый экземпляр репозитория.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{users: store.users}
}

// Get возвращает запись пользователя и признак её существования.
func (r *UserRepository) Get(ctx context.Context, id int64) (entity.User, bool) {
	return r.users.Get(id)
}

// Save записывает пользователя целиком, создавая запись при необходимости.
func (r *UserRepository) Save(ctx context.Context, user entity.User) (entity.User, error) {
	return r.users.Mutate(user.ID, func(cur entity.User, found bool) (entity.User, error) {
		if found {
			user.CreatedAt = cur.CreatedAt
		} else {
			user.CreatedAt = time.Now()
		}
		user.UpdatedAt = time.Now()
		return user, nil
	})
}

// Update атомарно изменяет существующую запись пользователя. Отсутствие
// записи — ошибка NotFound, мутация при этом не выполняется.
func (r *UserRepository) Update(ctx context.Context, id int64, fn func(*entity.User) error) (entity.User, error) {
	return r.users.Mutate(id, func(cur entity.User, found bool) (entity.User, error) {
		if !found {
			return cur, domain.NewError(errcodes.NotFound, "user not found")
		}

		if err := fn(&cur); err != nil {
			return cur, err
		}

		cur.UpdatedAt = time.Now()
		return cur, nil
	})
}

// Count возвращает число известных пользователей.
func (r *UserRepository) Count(ctx context.Context) int {
	return r.users.Len()
}
