package persistence_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/internal/infrastructure/persistence"
	"tg_garant/pkg/errcodes"
)

func openTestStore(t *testing.T) (*persistence.Store, string) {
	t.Helper()

	dir := t.TempDir()

	store, err := persistence.Open(dir)
	require.NoError(t, err)

	return store, dir
}

func TestOpenCreatesEmptyDocuments(t *testing.T) {
	rq := require.New(t)

	store, _ := openTestStore(t)

	files := store.Files()
	rq.Len(files, 4)

	for _, path := range files {
		raw, err := os.ReadFile(path)
		rq.NoError(err)
		rq.JSONEq(`{}`, string(raw))
	}
}

func TestOpenUnreadableDocument(t *testing.T) {
	rq := require.New(t)

	dir := t.TempDir()
	rq.NoError(os.WriteFile(filepath.Join(dir, "deals.json"), []byte("{not json"), 0o644))

	_, err := persistence.Open(dir)
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.StorageFailure))
}

func TestStoreSurvivesRestart(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store, dir := openTestStore(t)

	users := persistence.NewUserRepository(store)
	deals := persistence.NewDealRepository(store)

	_, err := users.Save(ctx, entity.User{
		ID:       7,
		Username: "seller",
		Lang:     "ru",
		Stage:    entity.StageMenu,
	})
	rq.NoError(err)

	deal := entity.Deal{
		ID:        "A0421",
		SellerID:  7,
		Title:     "phone",
		Price:     "100.5",
		Status:    entity.DealStatusOpen,
		CreatedAt: time.Now(),
	}
	_, err = deals.Create(ctx, deal)
	rq.NoError(err)

	_, err = deals.Complete(ctx, "A0421", 7)
	rq.NoError(err)

	// Новый Store поверх того же каталога видит ровно те же записи.
	reopened, err := persistence.Open(dir)
	rq.NoError(err)

	gotUser, found := persistence.NewUserRepository(reopened).Get(ctx, 7)
	rq.True(found)
	rq.Equal("seller", gotUser.Username)
	rq.Equal(entity.StageMenu, gotUser.Stage)

	gotDeal, err := persistence.NewDealRepository(reopened).GetByID(ctx, "A0421")
	rq.NoError(err)
	rq.Equal(entity.DealStatusDone, gotDeal.Status)
	rq.Equal("phone", gotDeal.Title)
	rq.True(deal.CreatedAt.Equal(gotDeal.CreatedAt))

	gotLog, err := persistence.NewTradeLogRepository(reopened).Get(ctx, "A0421")
	rq.NoError(err)
	rq.Equal(int64(7), gotLog.ActorID)
	rq.Equal("A0421", gotLog.Deal.ID)
}

func TestUserRepositoryConcurrentUpdates(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store, _ := openTestStore(t)
	users := persistence.NewUserRepository(store)

	_, err := users.Save(ctx, entity.User{ID: 1, Stage: entity.StageCreatePrice})
	rq.NoError(err)

	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := users.Update(ctx, 1, func(u *entity.User) error {
				u.Draft.PriceBuffer += "1"
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	// Ни одно из конкурирующих изменений не потеряно.
	got, found := users.Get(ctx, 1)
	rq.True(found)
	rq.Len(got.Draft.PriceBuffer, writers)
}

func TestUserRepositoryUpdateMissing(t *testing.T) {
	rq := require.New(t)

	store, _ := openTestStore(t)
	users := persistence.NewUserRepository(store)

	_, err := users.Update(context.Background(), 99, func(u *entity.User) error {
		u.Lang = "en"
		return nil
	})
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.NotFound))
}

func TestDealRepositoryCreateTakenID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store, _ := openTestStore(t)
	deals := persistence.NewDealRepository(store)

	_, err := deals.Create(ctx, entity.Deal{ID: "B0001", SellerID: 1, Status: entity.DealStatusOpen})
	rq.NoError(err)

	_, err = deals.Create(ctx, entity.Deal{ID: "B0001", SellerID: 2, Status: entity.DealStatusOpen})
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.DealAlreadyTaken))
}

func TestDealRepositoryJoin(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		dealID   string
		buyerID  int64
		prepare  func(*testing.T, *persistence.DealRepository)
		wantCode failure.ErrorCode
		wantBuy  int64
	}{
		{
			name:    "assigns buyer to open deal",
			dealID:  "C0001",
			buyerID: 2,
			wantBuy: 2,
		},
		{
			name:     "unknown deal",
			dealID:   "Z9999",
			buyerID:  2,
			wantCode: errcodes.DealNotFound,
		},
		{
			name:     "seller joins own deal",
			dealID:   "C0001",
			buyerID:  1,
			wantCode: errcodes.SelfTrade,
		},
		{
			name:    "same buyer joins twice",
			dealID:  "C0001",
			buyerID: 2,
			prepare: func(t *testing.T, deals *persistence.DealRepository) {
				_, err := deals.Join(ctx, "C0001", 2)
				require.NoError(t, err)
			},
			wantBuy: 2,
		},
		{
			name:    "another buyer after assignment",
			dealID:  "C0001",
			buyerID: 3,
			prepare: func(t *testing.T, deals *persistence.DealRepository) {
				_, err := deals.Join(ctx, "C0001", 2)
				require.NoError(t, err)
			},
			wantCode: errcodes.DealAlreadyTaken,
		},
		{
			name:    "completed deal",
			dealID:  "C0001",
			buyerID: 2,
			prepare: func(t *testing.T, deals *persistence.DealRepository) {
				_, err := deals.Complete(ctx, "C0001", 1)
				require.NoError(t, err)
			},
			wantCode: errcodes.DealAlreadyCompleted,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			store, _ := openTestStore(t)
			deals := persistence.NewDealRepository(store)

			_, err := deals.Create(ctx, entity.Deal{ID: "C0001", SellerID: 1, Status: entity.DealStatusOpen})
			rq.NoError(err)

			if tc.prepare != nil {
				tc.prepare(t, deals)
			}

			got, err := deals.Join(ctx, tc.dealID, tc.buyerID)
			if tc.wantCode != "" {
				rq.Error(err)
				rq.True(domain.IsCode(err, tc.wantCode))
				return
			}

			rq.NoError(err)
			rq.Equal(tc.wantBuy, got.BuyerID)
		})
	}
}

func TestDealRepositoryCompletePair(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store, _ := openTestStore(t)
	deals := persistence.NewDealRepository(store)
	logs := persistence.NewTradeLogRepository(store)

	created := entity.Deal{
		ID:        "D0001",
		SellerID:  1,
		BuyerID:   2,
		Status:    entity.DealStatusOpen,
		CreatedAt: time.Now(),
	}
	_, err := deals.Create(ctx, created)
	rq.NoError(err)

	logEntry, err := deals.Complete(ctx, "D0001", 2)
	rq.NoError(err)
	rq.Equal(entity.DealStatusDone, logEntry.Deal.Status)
	rq.Equal(int64(2), logEntry.ActorID)
	rq.False(logEntry.CompletedAt.Before(created.CreatedAt))

	// Повторное завершение отклоняется и не плодит строк журнала.
	_, err = deals.Complete(ctx, "D0001", 2)
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.DealAlreadyCompleted))

	entries, err := logs.List(ctx)
	rq.NoError(err)
	rq.Len(entries, 1)
}

func TestDealRepositoryCompleteRollback(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store, dir := openTestStore(t)
	deals := persistence.NewDealRepository(store)
	logs := persistence.NewTradeLogRepository(store)

	_, err := deals.Create(ctx, entity.Deal{ID: "E0001", SellerID: 1, Status: entity.DealStatusOpen})
	rq.NoError(err)

	// Ломаем документ журнала: rename на каталог не пройдёт.
	logsPath := filepath.Join(dir, "logs.json")
	rq.NoError(os.Remove(logsPath))
	rq.NoError(os.Mkdir(logsPath, 0o755))

	_, err = deals.Complete(ctx, "E0001", 1)
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.StorageFailure))

	// Статус сделки откатился, журнал пуст: пара пишется целиком или никак.
	got, err := deals.GetByID(ctx, "E0001")
	rq.NoError(err)
	rq.Equal(entity.DealStatusOpen, got.Status)

	_, err = logs.Get(ctx, "E0001")
	rq.Error(err)
	rq.True(domain.IsCode(err, errcodes.NotFound))
}

func TestDealRepositoryList(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store, _ := openTestStore(t)
	deals := persistence.NewDealRepository(store)

	base := time.Now()
	for i, id := range []string{"F0003", "F0001", "F0002"} {
		_, err := deals.Create(ctx, entity.Deal{
			ID:        id,
			SellerID:  1,
			Status:    entity.DealStatusOpen,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		rq.NoError(err)
	}

	_, err := deals.Complete(ctx, "F0001", 1)
	rq.NoError(err)

	all, err := deals.List(ctx, "")
	rq.NoError(err)
	rq.Len(all, 3)
	rq.Equal("F0003", all[0].ID)

	open, err := deals.List(ctx, entity.DealStatusOpen)
	rq.NoError(err)
	rq.Len(open, 2)

	done, err := deals.List(ctx, entity.DealStatusDone)
	rq.NoError(err)
	rq.Len(done, 1)
	rq.Equal("F0001", done[0].ID)
}

func TestBalanceRepositoryDefaultZero(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	dir := t.TempDir()

	// Документ балансов ведётся вне бота, просто подкладываем его.
	seeded := `{"42": {"user_id": 42, "amount": 12.5}}`
	rq.NoError(os.WriteFile(filepath.Join(dir, "balances.json"), []byte(seeded), 0o644))

	store, err := persistence.Open(dir)
	rq.NoError(err)

	balances := persistence.NewBalanceRepository(store)

	got, err := balances.Get(ctx, 42)
	rq.NoError(err)
	rq.InDelta(12.5, got.Amount, 0.0001)

	missing, err := balances.Get(ctx, 99)
	rq.NoError(err)
	rq.Equal(int64(99), missing.UserID)
	rq.Zero(missing.Amount)
}
