package router

import (
	"log/slog"

	"loyaltybot/core/logger"
	"loyaltybot/core/telegram"
	tghelpers "loyaltybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute returns a single handler for tele.OnCallback that resolves
// callbacks against the registry by their unique key.
func CallbackRoute(reg *telegram.Registry) tele.HandlerFunc {
	return func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		key, _ := parseCallback(cb.Data)
		handler, ok := reg.GetCallback(key)
		if !ok {
			ctx := tghelpers.BuildContext(c)
			logger.Warn(ctx, "tg", "callback.unknown",
				slog.String("key", logger.Sanitize(key)),
			)
			if fallback := reg.CallbackNotFound(); fallback != nil {
				return handleWithSummary(c, "callback.not_found", fallback)
			}
			return nil
		}

		// Acknowledge early so the client stops showing the spinner even if
		// the handler takes a while.
		_ = c.Respond()

		return handleWithSummary(c, normalizeHandlerName("callback", key), handler)
	}
}
