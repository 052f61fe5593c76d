package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"tg_garant/internal/domain/entity"
	"tg_garant/pkg/errcodes"
	"tg_garant/pkg/httpx/reply"
)

type walletService interface {
	Balance(ctx context.Context, userID int64) (entity.Balance, error)
}

type WalletServer struct {
	walletService walletService
}

func NewWalletServer(walletService walletService) WalletServer {
	return WalletServer{
		walletService: walletService,
	}
}

func (s WalletServer) getV1UserBalance(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("parse user id: %w", err),
			failure.WithCode(errcodes.ValidationError),
		)
	}

	balance, err := s.walletService.Balance(ctx, userID)
	if err != nil {
		return asFailure(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBalance(balance))

	return nil
}
