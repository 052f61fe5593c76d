package handler

import (
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"tg_garant/internal/domain/entity"
	"tg_garant/internal/locale"
	"tg_garant/internal/transport/bot/view"
	"tg_garant/pkg/logx"
)

// OnLanguage фиксирует выбранный язык и превращает приглашение в главное меню.
func (h *Handler) OnLanguage(ctx *th.Context, query telego.CallbackQuery) error {
	lang := strings.TrimPrefix(query.Data, view.CallbackLangPrefix)
	if !h.locales.Has(lang) {
		return h.answer(ctx, query)
	}

	user, err := h.sessions.SelectLanguage(ctx, query.From.ID, lang)
	if err != nil {
		return h.answerAlert(ctx, query,
			h.locales.Render(h.lang(ctx, query.From.ID), errorKey(err), nil))
	}

	if err := h.answer(ctx, query); err != nil {
		return err
	}

	text := h.locales.Render(lang, locale.KeyMenu, map[string]string{
		"username": displayName(user),
	})

	return h.edit(ctx, query, text, h.menuKeyboard(lang))
}

// OnMenu обрабатывает кнопки главного меню: создание сделки, вход по коду
// и просмотр баланса.
func (h *Handler) OnMenu(ctx *th.Context, query telego.CallbackQuery) error {
	lang := h.lang(ctx, query.From.ID)

	switch query.Data {
	case view.CallbackMenuNew:
		if _, err := h.sessions.BeginDealCreation(ctx, query.From.ID); err != nil {
			return h.answerAlert(ctx, query, h.locales.Render(lang, errorKey(err), nil))
		}

		if err := h.answer(ctx, query); err != nil {
			return err
		}

		return h.send(ctx, query.From.ID, h.locales.Render(lang, locale.KeyAskTitle, nil))

	case view.CallbackMenuJoin:
		if _, err := h.sessions.BeginJoin(ctx, query.From.ID); err != nil {
			return h.answerAlert(ctx, query, h.locales.Render(lang, errorKey(err), nil))
		}

		if err := h.answer(ctx, query); err != nil {
			return err
		}

		return h.send(ctx, query.From.ID, h.locales.Render(lang, locale.KeyAskDealID, nil))

	case view.CallbackMenuBalance:
		// Баланс доступен с любой стадии и не двигает диалог.
		balance, err := h.wallet.Balance(ctx, query.From.ID)
		if err != nil {
			return h.answerAlert(ctx, query, h.locales.Render(lang, errorKey(err), nil))
		}

		if err := h.answer(ctx, query); err != nil {
			return err
		}

		user, ok := h.sessions.Get(ctx, query.From.ID)
		if !ok {
			user = entity.User{ID: query.From.ID, Username: query.From.Username}
		}

		return h.send(ctx, query.From.ID, h.locales.Render(lang, locale.KeyBalance, map[string]string{
			"username": displayName(user),
			"balance":  strconv.FormatFloat(balance.Amount, 'f', -1, 64),
		}))
	}

	return h.answer(ctx, query)
}

// OnKeypad обрабатывает клавиатуру цены: цифры, десятичную точку
// и подтверждение.
func (h *Handler) OnKeypad(ctx *th.Context, query telego.CallbackQuery) error {
	lang := h.lang(ctx, query.From.ID)

	switch query.Data {
	case view.CallbackNumOK:
		return h.commitPrice(ctx, query, lang)
	case view.CallbackNumDot:
		user, err := h.sessions.AppendDecimalSeparator(ctx, query.From.ID)

		return h.updateKeypad(ctx, query, lang, user, err)
	default:
		digit := strings.TrimPrefix(query.Data, view.CallbackNumPrefix)
		user, err := h.sessions.AppendDigit(ctx, query.From.ID, digit)

		return h.updateKeypad(ctx, query, lang, user, err)
	}
}

// OnUnknownCallback гасит часики на кнопках, которых больше нет.
func (h *Handler) OnUnknownCallback(ctx *th.Context, query telego.CallbackQuery) error {
	return h.answer(ctx, query)
}

// updateKeypad перерисовывает набранную цену в сообщении с клавиатурой.
func (h *Handler) updateKeypad(
	ctx *th.Context,
	query telego.CallbackQuery,
	lang string,
	user entity.User,
	err error,
) error {
	if err != nil {
		return h.answerAlert(ctx, query, h.locales.Render(lang, errorKey(err), nil))
	}

	if err := h.answer(ctx, query); err != nil {
		return err
	}

	text := h.locales.Render(lang, locale.KeyPriceProgress, map[string]string{
		"price": user.Draft.PriceBuffer,
	})

	return h.edit(ctx, query, text,
		view.PriceKeypad(h.locales.Render(lang, locale.KeyButtonOK, nil)))
}

// commitPrice подтверждает цену и создает сделку. Сообщение с клавиатурой
// превращается в карточку сделки с главным меню.
func (h *Handler) commitPrice(ctx *th.Context, query telego.CallbackQuery, lang string) error {
	deal, err := h.sessions.CommitPrice(ctx, query.From.ID)
	if err != nil {
		return h.answerAlert(ctx, query, h.locales.Render(lang, errorKey(err), nil))
	}

	if err := h.answer(ctx, query); err != nil {
		return err
	}

	text := h.locales.Render(lang, locale.KeyDealCreated, map[string]string{
		"id":    deal.ID,
		"title": deal.Title,
		"desc":  deal.Description,
		"price": deal.Price,
	})

	return h.edit(ctx, query, text, h.menuKeyboard(lang))
}

// edit переписывает сообщение, породившее callback. Если исходное сообщение
// недоступно, текст уходит отдельным сообщением.
func (h *Handler) edit(
	ctx *th.Context,
	query telego.CallbackQuery,
	text string,
	keyboard *telego.InlineKeyboardMarkup,
) error {
	if query.Message == nil {
		return h.sendWithKeyboard(ctx, query.From.ID, text, keyboard)
	}

	_, err := ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(query.Message.GetChat().ID),
		MessageID:   query.Message.GetMessageID(),
		Text:        text,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		// Телеграм отвечает ошибкой и на неизменившийся текст,
		// например на повторную десятичную точку.
		logger(ctx).Debug("edit message", logx.Error(err))
	}

	return nil
}
