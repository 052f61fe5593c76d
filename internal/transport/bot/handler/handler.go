package handler

import (
	"strconv"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	dealservice "tg_garant/internal/domain/service/deal"
	"tg_garant/internal/domain/service/session"
	"tg_garant/internal/domain/service/wallet"
	"tg_garant/internal/locale"
	"tg_garant/internal/transport/bot/view"
	"tg_garant/pkg/contextx"
	"tg_garant/pkg/errcodes"
	"tg_garant/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Handler связывает апдейты бота с доменными сервисами: сессиями,
// сделками и балансами.
type Handler struct {
	sessions *session.SessionService
	deals    *dealservice.DealService
	wallet   *wallet.WalletService
	locales  *locale.Locales
}

func New(
	sessions *session.SessionService,
	deals *dealservice.DealService,
	wallet *wallet.WalletService,
	locales *locale.Locales,
) *Handler {
	return &Handler{
		sessions: sessions,
		deals:    deals,
		wallet:   wallet,
		locales:  locales,
	}
}

// lang возвращает язык сессии пользователя, до выбора — язык по умолчанию.
func (h *Handler) lang(ctx *th.Context, userID int64) string {
	user, ok := h.sessions.Get(ctx, userID)
	if !ok || user.Lang == "" {
		return locale.DefaultLang
	}

	return user.Lang
}

// errorKey подбирает шаблон ответа под код доменной ошибки.
func errorKey(err error) string {
	code, ok := domain.GetCode(err)
	if !ok {
		return locale.KeyInternalError
	}

	switch code {
	case errcodes.DealNotFound, errcodes.InvalidDealID:
		return locale.KeyDealNotFound
	case errcodes.DealAlreadyTaken:
		return locale.KeyDealTaken
	case errcodes.SelfTrade:
		return locale.KeySelfTrade
	case errcodes.DealAlreadyCompleted:
		return locale.KeyAlreadyDone
	case errcodes.InvalidTitle:
		return locale.KeyInvalidTitle
	case errcodes.InvalidDescription:
		return locale.KeyInvalidDesc
	case errcodes.InvalidPrice:
		return locale.KeyInvalidPrice
	case errcodes.Forbidden:
		return locale.KeyForbidden
	case errcodes.UnexpectedInput, errcodes.InvalidStage, errcodes.ValidationError:
		return locale.KeyUnexpectedInput
	case errcodes.NotFound:
		return locale.KeyStartRequired
	}

	return locale.KeyInternalError
}

// displayName показывает пользователя как @username либо числовой ID.
func displayName(u entity.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}

	return strconv.FormatInt(u.ID, 10)
}

// Вспомогательные методы

func (h *Handler) send(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})

	return err
}

func (h *Handler) sendWithKeyboard(
	ctx *th.Context,
	chatID int64,
	text string,
	keyboard *telego.InlineKeyboardMarkup,
) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: chatID},
		Text:        text,
		ReplyMarkup: keyboard,
	})

	return err
}

// replyError отвечает на ошибку шаблоном на языке пользователя.
// Неизвестные ошибки дополнительно попадают в лог.
func (h *Handler) replyError(ctx *th.Context, chatID int64, lang string, err error, params map[string]string) error {
	key := errorKey(err)
	if key == locale.KeyInternalError {
		logger(ctx).Error("update failed", logx.Error(err))
	}

	return h.send(ctx, chatID, h.locales.Render(lang, key, params))
}

func (h *Handler) menuKeyboard(lang string) *telego.InlineKeyboardMarkup {
	return view.MenuKeyboard(
		h.locales.Render(lang, locale.KeyButtonCreate, nil),
		h.locales.Render(lang, locale.KeyButtonJoin, nil),
		h.locales.Render(lang, locale.KeyButtonBalance, nil),
	)
}

func (h *Handler) answer(ctx *th.Context, query telego.CallbackQuery) error {
	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))
}

func (h *Handler) answerAlert(ctx *th.Context, query telego.CallbackQuery, text string) error {
	return ctx.Bot().AnswerCallbackQuery(ctx,
		tu.CallbackQuery(query.ID).WithText(text).WithShowAlert())
}
