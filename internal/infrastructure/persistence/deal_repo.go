package persistence

import (
	"context"
	"slices"
	"strings"
	"time"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/pkg/errcodes"
	"tg_garant/pkg/lox"
)

type DealRepository struct {
	deals *document[string, entity.Deal]
	logs  *document[string, entity.TradeLog]
}

// NewDealRepository создаёт новый экземпляр репозитория. Журнал сделок
// передаётся вместе со сделками: завершение пишет в обе коллекции парой.
func NewDealRepository(store *Store) *DealRepository {
	return &DealRepository{
		deals: store.deals,
		logs:  store.logs,
	}
}

// Create сохраняет новую сделку. Проверка занятости идентификатора и
// вставка выполняются под одним замком, поэтому два конкурирующих
// создателя не получат один и тот же идентификатор.
func (r *DealRepository) Create(ctx context.Context, deal entity.Deal) (entity.Deal, error) {
	return r.deals.Mutate(deal.ID, func(cur entity.Deal, found bool) (entity.Deal, error) {
		if found {
			return cur, domain.NewError(errcodes.DealAlreadyTaken, "deal id is already in use")
		}
		return deal, nil
	})
}

// GetByID возвращает сделку по идентификатору.
func (r *DealRepository) GetByID(ctx context.Context, id string) (entity.Deal, error) {
	deal, ok := r.deals.Get(id)
	if !ok {
		return entity.Deal{}, domain.NewError(errcodes.DealNotFound, "deal not found")
	}
	return deal, nil
}

// Join закрепляет покупателя за сделкой. Повторный вход того же покупателя
// идемпотентен, чужой покупатель и продавец-сам-себе отклоняются.
func (r *DealRepository) Join(ctx context.Context, dealID string, buyerID int64) (entity.Deal, error) {
	return r.deals.Mutate(dealID, func(cur entity.Deal, found bool) (entity.Deal, error) {
		switch {
		case !found:
			return cur, domain.NewError(errcodes.DealNotFound, "deal not found")
		case cur.SellerID == buyerID:
			return cur, domain.NewError(errcodes.SelfTrade, "seller cannot join own deal")
		case cur.Completed():
			return cur, domain.NewError(errcodes.DealAlreadyCompleted, "deal is already completed")
		case cur.BuyerID == buyerID:
			return cur, nil
		case cur.Taken():
			return cur, domain.NewError(errcodes.DealAlreadyTaken, "deal is taken by another buyer")
		}

		cur.BuyerID = buyerID
		return cur, nil
	})
}

// Complete переводит сделку в done и записывает строку журнала. Обе записи
// сохраняются парой: неудачная запись журнала откатывает статус сделки.
func (r *DealRepository) Complete(ctx context.Context, dealID string, actorID int64) (entity.TradeLog, error) {
	r.deals.mu.Lock()
	defer r.deals.mu.Unlock()

	done, err := r.deals.mutateLocked(dealID, func(cur entity.Deal, found bool) (entity.Deal, error) {
		switch {
		case !found:
			return cur, domain.NewError(errcodes.DealNotFound, "deal not found")
		case cur.Completed():
			return cur, domain.NewError(errcodes.DealAlreadyCompleted, "deal is already completed")
		}

		cur.Status = entity.DealStatusDone
		return cur, nil
	})
	if err != nil {
		return entity.TradeLog{}, err
	}

	logEntry := entity.TradeLog{
		Deal:        done,
		ActorID:     actorID,
		CompletedAt: time.Now(),
	}

	_, err = r.logs.Mutate(dealID, func(cur entity.TradeLog, found bool) (entity.TradeLog, error) {
		if found {
			return cur, domain.NewError(errcodes.StorageFailure, "trade log entry already exists")
		}
		return logEntry, nil
	})
	if err != nil {
		// Откат статуса: пара «сделка done + строка журнала» либо
		// сохраняется целиком, либо не сохраняется вовсе.
		if _, rbErr := r.deals.mutateLocked(dealID, func(cur entity.Deal, _ bool) (entity.Deal, error) {
			cur.Status = entity.DealStatusOpen
			return cur, nil
		}); rbErr != nil {
			return entity.TradeLog{}, domain.WrapError(err, errcodes.StorageFailure,
				"failed to write trade log and to roll back deal status")
		}
		return entity.TradeLog{}, domain.WrapError(err, errcodes.StorageFailure, "failed to write trade log")
	}

	return logEntry, nil
}

// List возвращает сделки, отсортированные по времени создания. Пустой
// статус означает «без фильтра».
func (r *DealRepository) List(ctx context.Context, status entity.DealStatus) ([]entity.Deal, error) {
	deals := lox.ReverseMap(r.deals.Snapshot(), func(_ string, deal entity.Deal) entity.Deal {
		return deal
	})

	if status != "" {
		deals = slices.DeleteFunc(deals, func(deal entity.Deal) bool {
			return deal.Status != status
		})
	}

	slices.SortFunc(deals, func(a, b entity.Deal) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return deals, nil
}
