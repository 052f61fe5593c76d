package middleware

import (
	"log/slog"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg_garant/pkg/logx"
	"tg_garant/pkg/metrics"
)

// Metrics считает обработанные апдейты по типам и длительность обработки.
func Metrics() th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		started := time.Now()

		err := ctx.Next(update)

		kind := updateKind(update)
		metrics.UpdatesTotal.WithLabelValues(kind).Inc()
		metrics.UpdateDuration.Observe(time.Since(started).Seconds())

		if err != nil {
			logger(ctx).Error("update handling failed",
				slog.String("kind", kind),
				logx.Error(err),
			)
		}

		return err
	}
}
