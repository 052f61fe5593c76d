package wallet

import (
	"context"

	"tg_garant/internal/domain/entity"
)

type BalanceRepository interface {
	Get(ctx context.Context, userID int64) (entity.Balance, error)
}

// WalletService — витрина балансов, только чтение. Пополнений и списаний
// здесь нет: документ балансов ведётся вне бота.
type WalletService struct {
	balances BalanceRepository
}

func NewWalletService(balances BalanceRepository) *WalletService {
	return &WalletService{balances: balances}
}

// Balance возвращает баланс пользователя, ноль для неизвестного.
func (s *WalletService) Balance(ctx context.Context, userID int64) (entity.Balance, error) {
	return s.balances.Get(ctx, userID)
}
