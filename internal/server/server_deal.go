package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"tg_garant/internal/domain/entity"
	"tg_garant/pkg/errcodes"
	"tg_garant/pkg/httpx/reply"
	"tg_garant/pkg/httpx/req"
	"tg_garant/pkg/rest"
)

type dealService interface {
	Get(ctx context.Context, dealID string) (entity.Deal, error)
	List(ctx context.Context, status entity.DealStatus) ([]entity.Deal, error)
	Complete(ctx context.Context, dealID string, actorID int64) (entity.TradeLog, error)
}

type tradeArchive interface {
	List(ctx context.Context) ([]entity.TradeLog, error)
}

type DealServer struct {
	dealService dealService
	archive     tradeArchive
}

func NewDealServer(dealService dealService, archive tradeArchive) DealServer {
	return DealServer{
		dealService: dealService,
		archive:     archive,
	}
}

func (s DealServer) getV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	deal, err := s.dealService.Get(ctx, r.PathValue("id"))
	if err != nil {
		return asFailure(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(deal))

	return nil
}

func (s DealServer) getV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	status := entity.DealStatus(r.URL.Query().Get("status"))
	switch status {
	case "", entity.DealStatusOpen, entity.DealStatusDone:
	default:
		return failure.NewInvalidArgumentError(
			fmt.Sprintf("unknown status %q", status),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("status must be open or done"),
		)
	}

	deals, err := s.dealService.List(ctx, status)
	if err != nil {
		return asFailure(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeals(deals))

	return nil
}

func (s DealServer) postV1DealComplete(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CompleteDealRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	entry, err := s.dealService.Complete(ctx, r.PathValue("id"), request.ActorID)
	if err != nil {
		return asFailure(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTTradeLog(entry))

	return nil
}

func (s DealServer) getV1Logs(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	entries, err := s.archive.List(ctx)
	if err != nil {
		return asFailure(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTTradeLogs(entries))

	return nil
}
