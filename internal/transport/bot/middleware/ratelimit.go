package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	"github.com/patrickmn/go-cache"
)

// RateLimit отбрасывает апдейты пользователя, пришедшие чаще заданного
// интервала. Окно хранится в go-cache, ключом служит ID отправителя.
func RateLimit(interval time.Duration) th.Handler {
	seen := cache.New(interval, 2*interval)

	return func(ctx *th.Context, update telego.Update) error {
		if interval <= 0 {
			return ctx.Next(update)
		}

		userID := updateUserID(update)
		if userID == 0 {
			return ctx.Next(update)
		}

		key := strconv.FormatInt(userID, 10)
		if _, limited := seen.Get(key); limited {
			logger(ctx).Warn("rate limit", slog.Int64("user_id", userID))
			return nil
		}

		seen.Set(key, true, cache.DefaultExpiration)

		return ctx.Next(update)
	}
}
