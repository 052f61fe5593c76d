package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg_garant/internal/config"
	"tg_garant/internal/transport/bot/handler"
	"tg_garant/internal/transport/bot/middleware"
	"tg_garant/pkg/contextx"
	"tg_garant/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Bot представляет собой Telegram-бота
type Bot struct {
	bot        *telego.Bot
	botHandler *th.BotHandler

	handler *handler.Handler
}

// New собирает транспорт бота поверх общего клиента Telegram.
func New(cfg config.Config, bot *telego.Bot, h *handler.Handler) (*Bot, error) {
	// Получаем обновления через long polling
	updates, err := bot.UpdatesViaLongPolling(context.Background(), &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}

	// Создаем BotHandler
	botHandler, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	botHandler.Use(
		middleware.Recover(),
		middleware.RateLimit(cfg.Bot.RateInterval),
		middleware.Metrics(),
	)

	h.RegisterRoutes(botHandler)

	return &Bot{
		bot:        bot,
		botHandler: botHandler,
		handler:    h,
	}, nil
}

// Run запускает обработку обновлений и блокируется до отмены контекста.
func (b *Bot) Run(ctx context.Context) error {
	// Запускаем обработку обновлений
	go func() {
		if err := b.botHandler.Start(); err != nil {
			logger(ctx).Error("botHandler.Start", logx.Error(err))
		}
	}()

	logger(ctx).Info("bot started")

	// Ждем завершения
	<-ctx.Done()

	// Останавливаем обработчик
	if err := b.botHandler.Stop(); err != nil {
		logger(ctx).Error("botHandler.Stop", logx.Error(err))
	}

	logger(ctx).Info("bot stopped")

	return nil
}
