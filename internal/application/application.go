package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"tg_garant/internal/config"
	"tg_garant/internal/domain/entity"
	dealservice "tg_garant/internal/domain/service/deal"
	"tg_garant/internal/domain/service/session"
	"tg_garant/internal/domain/service/wallet"
	"tg_garant/internal/infrastructure/notifier"
	"tg_garant/internal/infrastructure/persistence"
	"tg_garant/internal/locale"
	"tg_garant/internal/server"
	"tg_garant/internal/transport/bot"
	"tg_garant/internal/transport/bot/handler"
	"tg_garant/internal/worker"
	"tg_garant/pkg/application/connectors"
	"tg_garant/pkg/application/modules"
	"tg_garant/pkg/contextx"
	"tg_garant/pkg/logx"
	"tg_garant/pkg/middlewarex"
)

const appName = "tg-garant"

// Version подставляется при сборке через ldflags.
var Version = "dev" //nolint:gochecknoglobals

const (
	notificationQueueSize = 100
	logFieldMaxLen        = 4096
)

func Run(ctx context.Context) error {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	// 2. Logger
	log := newLogger(cfg.Log)
	slog.SetDefault(log)
	ctx = contextx.WithLogger(ctx, log)

	// 3. Storage
	store, err := persistence.Open(cfg.Storage.Dir)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	log.Info("✅ storage opened", slog.String("dir", store.Dir()))

	userRepo := persistence.NewUserRepository(store)
	dealRepo := persistence.NewDealRepository(store)
	balanceRepo := persistence.NewBalanceRepository(store)
	logRepo := persistence.NewTradeLogRepository(store)

	// 4. Локализация
	locales, err := locale.Load(cfg.Locale.Dir)
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}
	locales.WithDefault(cfg.Locale.Default)
	log.Info("✅ locales loaded", slog.Any("languages", locales.Languages()))

	// 5. Доменные сервисы
	closedDeals := make(chan entity.TradeLog, notificationQueueSize)

	dealService := dealservice.NewDealService(dealRepo).
		WithOversight(cfg.Bot.OversightID).
		WithNotifications(closedDeals)

	sessionService := session.NewSessionService(userRepo, dealService)
	walletService := wallet.NewWalletService(balanceRepo)

	// 6. Telegram client
	tg := &connectors.Telegram{Token: cfg.Bot.Token}
	client := tg.Client(ctx)

	g, ctx := errgroup.WithContext(ctx)

	// 7. Рассылка закрытых сделок
	alertBot := notifier.NewTelegramBot(client, locales, userRepo, cfg.Bot.OversightID)
	g.Go(func() error {
		if err := alertBot.Run(ctx, closedDeals); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("notifier: %w", err)
		}

		return nil
	})

	// 8. Бот
	tgBot, err := bot.New(cfg, client, handler.New(sessionService, dealService, walletService, locales))
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}
	g.Go(func() error {
		return tgBot.Run(ctx)
	})

	// 9. Служебный HTTP API
	ops := server.NewServer(
		server.NewDealServer(dealService, logRepo),
		server.NewWalletServer(walletService),
	)

	modules.HTTPServer{ShutdownTimeout: cfg.Server.ShutdownTimeout}.Run(ctx, g, &http.Server{
		Addr:    cfg.Server.OpsAddress,
		Handler: newRouter(ops),
	})

	// 10. Пробы и метрики
	modules.ProbeServer{
		Name:          appName,
		Version:       Version,
		ListenAddress: cfg.Server.ProbeAddress,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Server.MetricsAddress,
	}.Run(ctx, g)

	// 11. Резервные копии
	if cfg.Backup.Enabled {
		backup := worker.NewBackupWorker(store, cfg.Backup.Dir, cfg.Backup.Interval, cfg.Backup.Keep)
		g.Go(func() error {
			if err := backup.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("backup: %w", err)
			}

			return nil
		})
	}

	log.Info("🚀 application started", slog.String("version", Version))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("application stopping...")

	return nil
}

func newRouter(ops server.Server) *chi.Mux {
	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	ops.RegisterRoutes(router)

	return router
}

func newLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: level}))
}
