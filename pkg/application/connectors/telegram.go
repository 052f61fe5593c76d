package connectors

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mymmrac/telego"
	"github.com/samber/lo"

	"tg_garant/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Telegram struct {
	value *telego.Bot
	Token string
	init  sync.Once
}

func (t *Telegram) Client(ctx context.Context) *telego.Bot {
	t.init.Do(func() {
		t.value = lo.Must(telego.NewBot(t.Token))

		me := lo.Must(t.value.GetMe(ctx))

		logger(ctx).Info(
			"telegram bot connected",
			slog.String("username", me.Username),
		)
	})

	return t.value
}
