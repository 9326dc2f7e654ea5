package router

import (
	"log/slog"
	"strings"
	"time"

	"loyaltybot/core/logger"
	tghelpers "loyaltybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// handleWithSummary runs the handler and emits a single summary log line
// with the outcome and duration.
func handleWithSummary(c tele.Context, name string, handler tele.HandlerFunc) error {
	ctx := tghelpers.WithHandler(c, name)
	start := time.Now()
	err := handler(c)
	took := time.Since(start)

	attrs := []slog.Attr{
		slog.String("handler", name),
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.RoundMS(took)),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
		logger.Error(ctx, "tg", "handler.done", attrs...)
		return err
	}
	logger.Debug(ctx, "tg", "handler.done", attrs...)
	return nil
}

// normalizeHandlerName converts a command or callback key into a stable
// handler label for logs.
func normalizeHandlerName(kind, name string) string {
	name = strings.TrimPrefix(name, "/")
	name = strings.TrimSpace(name)
	if name == "" {
		name = "unknown"
	}
	return kind + "." + name
}

// parseCallback splits raw telebot callback data ("\funique|payload")
// into its unique key and payload.
func parseCallback(data string) (key, payload string) {
	data = strings.TrimPrefix(data, "\f")
	if i := strings.IndexByte(data, '|'); i >= 0 {
		return data[:i], data[i+1:]
	}
	return data, ""
}
