package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

// Recover перехватывает панику обработчика, чтобы один кривой апдейт
// не ронял весь цикл бота.
func Recover() th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		defer func() {
			if r := recover(); r != nil {
				logger(ctx).Error("panic recovered",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()

		return ctx.Next(update)
	}
}
