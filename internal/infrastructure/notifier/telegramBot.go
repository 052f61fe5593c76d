package notifier

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"tg_garant/internal/domain/entity"
	"tg_garant/internal/locale"
	"tg_garant/pkg/contextx"
	"tg_garant/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const closedAtLayout = "02.01.2006 15:04"

// MessageSender покрывает единственный вызов Bot API, нужный рассылке.
type MessageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// UserDirectory отдает сессию пользователя, чтобы выбрать язык уведомления.
type UserDirectory interface {
	Get(ctx context.Context, userID int64) (entity.User, bool)
}

// TelegramBot рассылает уведомления о закрытых сделках: продавцу,
// покупателю и контролирующему аккаунту.
type TelegramBot struct {
	bot         MessageSender
	locales     *locale.Locales
	users       UserDirectory
	oversightID int64
}

func NewTelegramBot(
	bot MessageSender,
	locales *locale.Locales,
	users UserDirectory,
	oversightID int64,
) *TelegramBot {
	return &TelegramBot{
		bot:         bot,
		locales:     locales,
		users:       users,
		oversightID: oversightID,
	}
}

// Run запускает рассылку закрытых сделок из канала.
func (b *TelegramBot) Run(ctx context.Context, closed <-chan entity.TradeLog) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry, ok := <-closed:
			if !ok {
				return nil
			}
			if err := b.SendTradeClosed(ctx, entry); err != nil {
				logger(ctx).Error("failed to send trade notification", logx.Error(err))
			}
		}
	}
}

// SendTradeClosed уведомляет участников сделки каждого на его языке,
// контролирующий аккаунт — на языке по умолчанию. Недоставка одному
// получателю не мешает остальным.
func (b *TelegramBot) SendTradeClosed(ctx context.Context, entry entity.TradeLog) error {
	deal := entry.Deal

	seller := b.user(ctx, deal.SellerID)
	buyer := b.user(ctx, deal.BuyerID)

	params := map[string]string{
		"id":     deal.ID,
		"title":  deal.Title,
		"price":  deal.Price,
		"seller": displayName(seller),
		"buyer":  displayName(buyer),
		"date":   entry.CompletedAt.Format(closedAtLayout),
	}

	var errs []error

	for _, u := range []entity.User{seller, buyer} {
		if u.ID == 0 {
			continue
		}

		if err := b.sendTo(ctx, u.ID, u.Lang, locale.KeyTradeClosed, params); err != nil {
			errs = append(errs, fmt.Errorf("notify %d: %w", u.ID, err))
		}
	}

	if b.oversightID != 0 {
		if err := b.sendTo(ctx, b.oversightID, "", locale.KeyTradeClosedOver, params); err != nil {
			errs = append(errs, fmt.Errorf("notify oversight: %w", err))
		}
	}

	return errors.Join(errs...)
}

// sendTo отправляет один шаблон в личный чат. Пустой язык рисует шаблон
// на языке по умолчанию.
func (b *TelegramBot) sendTo(ctx context.Context, chatID int64, lang, key string, params map[string]string) error {
	msg := tu.Message(tu.ID(chatID), b.locales.Render(lang, key, params))

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

func (b *TelegramBot) user(ctx context.Context, userID int64) entity.User {
	if userID == 0 {
		return entity.User{}
	}

	user, ok := b.users.Get(ctx, userID)
	if !ok {
		return entity.User{ID: userID}
	}

	return user
}

func displayName(u entity.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}

	if u.ID == 0 {
		return "-"
	}

	return strconv.FormatInt(u.ID, 10)
}
