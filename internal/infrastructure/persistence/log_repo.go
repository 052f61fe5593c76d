package persistence

import (
	"context"
	"slices"
	"strings"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/pkg/errcodes"
	"tg_garant/pkg/lox"
)

type TradeLogRepository struct {
	logs *document[string, entity.TradeLog]
}

// NewTradeLogRepository создаёт новый экземпляр репозитория. Записи журнала
// добавляет только завершение сделки, здесь журнал доступен для чтения.
func NewTradeLogRepository(store *Store) *TradeLogRepository {
	return &TradeLogRepository{logs: store.logs}
}

// Get возвращает строку журнала по идентификатору сделки.
func (r *TradeLogRepository) Get(ctx context.Context, dealID string) (entity.TradeLog, error) {
	logEntry, ok := r.logs.Get(dealID)
	if !ok {
		return entity.TradeLog{}, domain.NewError(errcodes.NotFound, "trade log entry not found")
	}
	return logEntry, nil
}

// List возвращает журнал, отсортированный по времени завершения.
func (r *TradeLogRepository) List(ctx context.Context) ([]entity.TradeLog, error) {
	entries := lox.ReverseMap(r.logs.Snapshot(), func(_ string, logEntry entity.TradeLog) entity.TradeLog {
		return logEntry
	})

	slices.SortFunc(entries, func(a, b entity.TradeLog) int {
		if c := a.CompletedAt.Compare(b.CompletedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Deal.ID, b.Deal.ID)
	})

	return entries, nil
}
