package server

import (
	"git.appkode.ru/pub/go/failure"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/pkg/errcodes"
	"tg_garant/pkg/lox"
	"tg_garant/pkg/rest"
)

func newRESTDeal(deal entity.Deal) rest.Deal {
	return rest.Deal{
		ID:          deal.ID,
		SellerID:    deal.SellerID,
		BuyerID:     deal.BuyerID,
		Title:       deal.Title,
		Description: deal.Description,
		Price:       deal.Price,
		Status:      string(deal.Status),
		CreatedAt:   deal.CreatedAt,
	}
}

func newRESTDeals(deals []entity.Deal) []rest.Deal {
	return lox.Map(deals, newRESTDeal)
}

func newRESTTradeLog(entry entity.TradeLog) rest.TradeLog {
	return rest.TradeLog{
		Deal:        newRESTDeal(entry.Deal),
		ActorID:     entry.ActorID,
		CompletedAt: entry.CompletedAt,
	}
}

func newRESTTradeLogs(entries []entity.TradeLog) []rest.TradeLog {
	return lox.Map(entries, newRESTTradeLog)
}

func newRESTBalance(balance entity.Balance) rest.Balance {
	return rest.Balance{
		UserID: balance.UserID,
		Amount: balance.Amount,
	}
}

// asFailure переводит доменную ошибку в транспортную, чтобы reply.Error
// выбрал HTTP-статус по классу ошибки. Ошибки без доменного кода уходят
// как есть и превращаются в 500.
func asFailure(err error) error {
	if err == nil {
		return nil
	}

	code, ok := domain.GetCode(err)
	if !ok {
		return err
	}

	opts := []failure.Option{
		failure.WithCode(code),
		failure.WithDescription(err.Error()),
	}

	switch code {
	case errcodes.DealNotFound, errcodes.NotFound:
		return failure.NewNotFoundError(err.Error(), opts...)
	case errcodes.DealAlreadyTaken, errcodes.DealAlreadyCompleted, errcodes.SelfTrade:
		return failure.NewConflictError(err.Error(), opts...)
	case errcodes.Forbidden:
		return failure.NewForbiddenError(err.Error(), opts...)
	case errcodes.InvalidDealID, errcodes.InvalidTitle, errcodes.InvalidDescription,
		errcodes.InvalidPrice, errcodes.ValidationError:
		return failure.NewInvalidArgumentError(err.Error(), opts...)
	}

	return err
}
