package handler

import (
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg_garant/internal/domain/entity"
	dealservice "tg_garant/internal/domain/service/deal"
	"tg_garant/internal/locale"
	"tg_garant/internal/transport/bot/view"
	"tg_garant/pkg/logx"
)

// OnText продвигает диалог по текущей стадии: название, описание
// или код сделки. Что именно ждёт стадия, решает сессионный сервис.
func (h *Handler) OnText(ctx *th.Context, msg telego.Message) error {
	if msg.From == nil || msg.Text == "" {
		return nil
	}

	lang := h.lang(ctx, msg.From.ID)

	result, err := h.sessions.SubmitText(ctx, msg.From.ID, msg.Text)
	if err != nil {
		// Для deal_not_found в шаблон подставляется присланный код.
		params := map[string]string{"id": dealservice.NormalizeID(msg.Text)}

		return h.replyError(ctx, msg.Chat.ID, lang, err, params)
	}

	if result.Deal != nil {
		return h.confirmJoin(ctx, msg.Chat.ID, result.User, *result.Deal)
	}

	switch result.User.Stage {
	case entity.StageCreateDesc:
		return h.send(ctx, msg.Chat.ID, h.locales.Render(lang, locale.KeyAskDesc, nil))
	case entity.StageCreatePrice:
		return h.sendWithKeyboard(ctx, msg.Chat.ID,
			h.locales.Render(lang, locale.KeyAskPrice, nil),
			view.PriceKeypad(h.locales.Render(lang, locale.KeyButtonOK, nil)),
		)
	}

	return nil
}

// confirmJoin подтверждает вход покупателю и уведомляет продавца
// в его собственном чате. Недоставленное уведомление продавцу не
// считается ошибкой входа.
func (h *Handler) confirmJoin(ctx *th.Context, chatID int64, buyer entity.User, deal entity.Deal) error {
	seller, ok := h.sessions.Get(ctx, deal.SellerID)
	if !ok {
		seller = entity.User{ID: deal.SellerID}
	}

	buyerLang := buyer.Lang
	if buyerLang == "" {
		buyerLang = locale.DefaultLang
	}

	err := h.send(ctx, chatID, h.locales.Render(buyerLang, locale.KeyDealJoined, map[string]string{
		"id":     deal.ID,
		"title":  deal.Title,
		"desc":   deal.Description,
		"price":  deal.Price,
		"seller": displayName(seller),
	}))
	if err != nil {
		return err
	}

	sellerLang := seller.Lang
	if sellerLang == "" {
		sellerLang = locale.DefaultLang
	}

	err = h.send(ctx, deal.SellerID, h.locales.Render(sellerLang, locale.KeyDealJoinedOwner, map[string]string{
		"id":    deal.ID,
		"buyer": displayName(buyer),
	}))
	if err != nil {
		logger(ctx).Warn("failed to notify seller",
			slog.String("deal_id", deal.ID),
			slog.Int64("seller_id", deal.SellerID),
			logx.Error(err),
		)
	}

	return nil
}
