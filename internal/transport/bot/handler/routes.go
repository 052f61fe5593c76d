package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"tg_garant/internal/transport/bot/view"
)

// RegisterRoutes вешает обработчики на роутер бота. Команды регистрируются
// раньше общего текстового обработчика: приоритет определяется порядком
// регистрации.
func (h *Handler) RegisterRoutes(bh *th.BotHandler) {
	// Команда /start
	bh.HandleMessage(h.OnStart, th.CommandEqual("start"))

	// Команда /done
	bh.HandleMessage(h.OnDone, th.CommandEqual("done"))

	// Весь остальной текст уходит сессионной машине
	bh.HandleMessage(h.OnText, th.AnyMessage())

	// Кнопки по префиксам callback-данных
	bh.HandleCallbackQuery(h.OnLanguage, th.CallbackDataPrefix(view.CallbackLangPrefix))
	bh.HandleCallbackQuery(h.OnMenu, th.CallbackDataPrefix(view.CallbackMenuPrefix))
	bh.HandleCallbackQuery(h.OnKeypad, th.CallbackDataPrefix(view.CallbackNumPrefix))

	// Устаревшие кнопки просто гасим
	bh.HandleCallbackQuery(h.OnUnknownCallback, th.AnyCallbackQuery())
}
