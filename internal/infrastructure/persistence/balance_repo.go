package persistence

import (
	"context"

	"tg_garant/internal/domain/entity"
)

type BalanceRepository struct {
	balances *document[int64, entity.Balance]
}

// NewBalanceRepository создаёт новый экземпляр репозитория.
func NewBalanceRepository(store *Store) *BalanceRepository {
	return &BalanceRepository{balances: store.balances}
}

// Get возвращает баланс пользователя. Отсутствие записи означает нулевой
// баланс, а не ошибку.
func (r *BalanceRepository) Get(ctx context.Context, userID int64) (entity.Balance, error) {
	balance, ok := r.balances.Get(userID)
	if !ok {
		return entity.Balance{UserID: userID}, nil
	}
	return balance, nil
}
