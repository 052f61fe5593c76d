package middleware

import (
	"github.com/mymmrac/telego"

	"tg_garant/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// updateUserID достает ID отправителя из апдейта, 0 если отправителя нет.
func updateUserID(update telego.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	}

	return 0
}

// updateKind классифицирует апдейт для метрик и логов.
func updateKind(update telego.Update) string {
	switch {
	case update.Message != nil:
		return "message"
	case update.CallbackQuery != nil:
		return "callback"
	}

	return "other"
}
