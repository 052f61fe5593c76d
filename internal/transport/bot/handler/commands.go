package handler

import (
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	dealservice "tg_garant/internal/domain/service/deal"
	"tg_garant/internal/locale"
	"tg_garant/internal/transport/bot/view"
)

// OnStart начинает новую сессию: сбрасывает диалог и предлагает выбрать язык.
func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	if msg.From == nil {
		return nil
	}

	if _, err := h.sessions.Start(ctx, msg.From.ID, msg.From.Username); err != nil {
		return h.replyError(ctx, msg.Chat.ID, locale.DefaultLang, err, nil)
	}

	return h.sendWithKeyboard(ctx, msg.Chat.ID,
		h.locales.Render(locale.DefaultLang, locale.KeyChooseLang, nil),
		view.LanguageKeyboard(h.locales.Languages()),
	)
}

// OnDone завершает сделку по команде /done <код>.
func (h *Handler) OnDone(ctx *th.Context, msg telego.Message) error {
	if msg.From == nil {
		return nil
	}

	lang := h.lang(ctx, msg.From.ID)

	parts := strings.Fields(msg.Text)
	if len(parts) < 2 {
		return h.send(ctx, msg.Chat.ID, h.locales.Render(lang, locale.KeyDoneUsage, nil))
	}

	dealID := dealservice.NormalizeID(parts[1])

	if _, err := h.deals.Complete(ctx, dealID, msg.From.ID); err != nil {
		return h.replyError(ctx, msg.Chat.ID, lang, err, map[string]string{"id": dealID})
	}

	return h.send(ctx, msg.Chat.ID,
		h.locales.Render(lang, locale.KeyDealCompleted, map[string]string{"id": dealID}))
}
