package service_test

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	service "tg_garant/internal/domain/service/deal"
	"tg_garant/internal/infrastructure/persistence"
	"tg_garant/pkg/errcodes"
)

func newTestService(t *testing.T) (*service.DealService, *persistence.DealRepository) {
	t.Helper()

	store, err := persistence.Open(t.TempDir())
	require.NoError(t, err)

	repo := persistence.NewDealRepository(store)

	return service.NewDealService(repo), repo
}

func TestCreateGeneratesWellFormedIDs(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, _ := newTestService(t)

	pattern := regexp.MustCompile(`^[A-Z][0-9]{4}$`)
	seen := make(map[string]struct{})

	for i := 0; i < 25; i++ {
		deal, err := svc.Create(ctx, 1, "phone", "like new", "100")
		rq.NoError(err)
		rq.Regexp(pattern, deal.ID)

		_, dup := seen[deal.ID]
		rq.False(dup, "deal id %s repeated", deal.ID)
		seen[deal.ID] = struct{}{}

		rq.Equal(entity.DealStatusOpen, deal.Status)
		rq.False(deal.Taken())
	}
}

func TestCreateValidatesInput(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		title    string
		desc     string
		price    string
		wantCode failure.ErrorCode
	}{
		{
			name:     "empty title",
			title:    "",
			desc:     "desc",
			price:    "10",
			wantCode: errcodes.InvalidTitle,
		},
		{
			name:     "blank title",
			title:    "   ",
			desc:     "desc",
			price:    "10",
			wantCode: errcodes.InvalidTitle,
		},
		{
			name:     "blank description",
			title:    "phone",
			desc:     "\t ",
			price:    "10",
			wantCode: errcodes.InvalidDescription,
		},
		{
			name:     "zero price",
			title:    "phone",
			desc:     "desc",
			price:    "0",
			wantCode: errcodes.InvalidPrice,
		},
		{
			name:     "negative price",
			title:    "phone",
			desc:     "desc",
			price:    "-5",
			wantCode: errcodes.InvalidPrice,
		},
		{
			name:     "not a number",
			title:    "phone",
			desc:     "desc",
			price:    "ten",
			wantCode: errcodes.InvalidPrice,
		},
		{
			name:  "valid input",
			title: " phone ",
			desc:  "like new",
			price: "12.5",
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			svc, _ := newTestService(t)

			deal, err := svc.Create(ctx, 1, tc.title, tc.desc, tc.price)
			if tc.wantCode != "" {
				rq.Error(err)
				rq.True(domain.IsCode(err, tc.wantCode))
				return
			}

			rq.NoError(err)
			rq.Equal("phone", deal.Title)
			rq.Equal("12.5", deal.Price)
		})
	}
}

func TestCreateRetriesOnCollision(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo := newTestService(t)

	_, err := repo.Create(ctx, entity.Deal{ID: "A0001", SellerID: 9, Status: entity.DealStatusOpen})
	rq.NoError(err)

	// Первая пара значений даёт занятый A0001, вторая — свободный C0034.
	script := []int{0, 1, 2, 34}
	calls := 0
	svc.WithRandInt(func(int) int {
		v := script[calls%len(script)]
		calls++
		return v
	})

	deal, err := svc.Create(ctx, 1, "phone", "desc", "10")
	rq.NoError(err)
	rq.Equal("C0034", deal.ID)
}

func TestCreateIDExhaustion(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo := newTestService(t)

	_, err := repo.Create(ctx, entity.Deal{ID: "A0000", SellerID: 9, Status: entity.DealStatusOpen})
	rq.NoError(err)

	// Генератор навсегда упёрся в занятый код.
	svc.WithRandInt(func(int) int { return 0 })

	_, err = svc.Create(ctx, 1, "phone", "desc", "10")
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.IDExhausted))

	// Кроме заранее вставленной сделки ничего не появилось.
	deals, err := svc.List(ctx, "")
	rq.NoError(err)
	rq.Len(deals, 1)
}

func TestJoinNormalizesInput(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo := newTestService(t)

	_, err := repo.Create(ctx, entity.Deal{ID: "B0777", SellerID: 1, Status: entity.DealStatusOpen})
	rq.NoError(err)

	deal, err := svc.Join(ctx, "  b0777 ", 2)
	rq.NoError(err)
	rq.Equal("B0777", deal.ID)
	rq.Equal(int64(2), deal.BuyerID)

	_, err = svc.Join(ctx, "777", 2)
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.InvalidDealID))
}

func TestConcurrentJoinSingleWinner(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo := newTestService(t)

	_, err := repo.Create(ctx, entity.Deal{ID: "D0100", SellerID: 1, Status: entity.DealStatusOpen})
	rq.NoError(err)

	buyers := []int64{2, 3}
	errs := make([]error, len(buyers))

	var wg sync.WaitGroup
	for i, buyer := range buyers {
		wg.Add(1)
		go func(i int, buyer int64) {
			defer wg.Done()
			_, errs[i] = svc.Join(ctx, "D0100", buyer)
		}(i, buyer)
	}
	wg.Wait()

	// Ровно один покупатель занял сделку, второй получил конфликт.
	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case domain.IsCode(err, errcodes.DealAlreadyTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	rq.Equal(1, wins)
	rq.Equal(1, conflicts)

	deal, err := repo.GetByID(ctx, "D0100")
	rq.NoError(err)
	rq.True(deal.Taken())
}

func TestCompleteAuthorization(t *testing.T) {
	ctx := context.Background()

	const (
		sellerID    = int64(1)
		buyerID     = int64(2)
		oversightID = int64(50)
		strangerID  = int64(99)
	)

	testCases := []struct {
		name     string
		actorID  int64
		wantCode failure.ErrorCode
	}{
		{name: "seller completes", actorID: sellerID},
		{name: "buyer completes", actorID: buyerID},
		{name: "oversight completes", actorID: oversightID},
		{name: "stranger is rejected", actorID: strangerID, wantCode: errcodes.Forbidden},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			svc, repo := newTestService(t)
			svc.WithOversight(oversightID)

			_, err := repo.Create(ctx, entity.Deal{
				ID:       "E0500",
				SellerID: sellerID,
				BuyerID:  buyerID,
				Status:   entity.DealStatusOpen,
			})
			rq.NoError(err)

			logEntry, err := svc.Complete(ctx, "E0500", tc.actorID)
			if tc.wantCode != "" {
				rq.Error(err)
				rq.True(domain.IsCode(err, tc.wantCode))

				// Отказ ничего не меняет.
				deal, err := repo.GetByID(ctx, "E0500")
				rq.NoError(err)
				rq.Equal(entity.DealStatusOpen, deal.Status)
				return
			}

			rq.NoError(err)
			rq.Equal(tc.actorID, logEntry.ActorID)
			rq.Equal(entity.DealStatusDone, logEntry.Deal.Status)
		})
	}
}

func TestCompleteTwice(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo := newTestService(t)

	_, err := repo.Create(ctx, entity.Deal{ID: "F0001", SellerID: 1, Status: entity.DealStatusOpen})
	rq.NoError(err)

	_, err = svc.Complete(ctx, "F0001", 1)
	rq.NoError(err)

	_, err = svc.Complete(ctx, "F0001", 1)
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.DealAlreadyCompleted))
}

func TestCompleteUnknownDeal(t *testing.T) {
	rq := require.New(t)

	svc, _ := newTestService(t)

	_, err := svc.Complete(context.Background(), "Z9999", 1)
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.DealNotFound))
}

func TestCompleteSendsNotification(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, repo := newTestService(t)

	completed := make(chan entity.TradeLog, 1)
	svc.WithNotifications(completed)

	_, err := repo.Create(ctx, entity.Deal{ID: "G0001", SellerID: 1, BuyerID: 2, Status: entity.DealStatusOpen})
	rq.NoError(err)

	_, err = svc.Complete(ctx, "G0001", 2)
	rq.NoError(err)

	select {
	case logEntry := <-completed:
		rq.Equal("G0001", logEntry.Deal.ID)
		rq.Equal(int64(2), logEntry.ActorID)
	default:
		t.Fatal("completion notification was not dispatched")
	}
}
