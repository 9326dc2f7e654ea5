package app

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"loyaltybot/core/logger"
	"loyaltybot/core/telegram/commands"
	tghelpers "loyaltybot/core/telegram/helpers"
	"loyaltybot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

func (a *App) registerCommands() {
	a.registry.RegisterCommand("/start", commands.Command{
		Handler:     a.onStart,
		Description: "Начать регистрацию",
	})
}

func (a *App) registerAdminCommands() {
	guard := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AllowList: a.cfg.Admins,
		OnReject: func(c tele.Context) error {
			return tghelpers.SendHTML(c, textAdminDenied)
		},
	})

	admin := func(h tele.HandlerFunc) tele.HandlerFunc { return guard(h) }

	a.registry.RegisterCommand("/admin", commands.Command{
		Handler:     admin(a.onAdmin),
		Description: "Список команд администратора",
		AdminOnly:   true,
		Hidden:      true,
	})
	a.registry.RegisterCommand("/stats", commands.Command{
		Handler:     admin(a.onStats),
		Description: "Статистика регистраций",
		AdminOnly:   true,
		Hidden:      true,
	})
	a.registry.RegisterCommand("/setup_sheet", commands.Command{
		Handler:     admin(a.onSetupSheet),
		Description: "Проверить и создать заголовок таблицы",
		AdminOnly:   true,
		Hidden:      true,
	})
	a.registry.RegisterCommand("/table_info", commands.Command{
		Handler:     admin(a.onTableInfo),
		Description: "Информация о таблице",
		AdminOnly:   true,
		Hidden:      true,
	})
}

func (a *App) onAdmin(c tele.Context) error {
	var b strings.Builder
	b.WriteString("🛠 <b>Команды администратора</b>\n\n")
	for name, cmd := range a.registry.Commands() {
		if !cmd.AdminOnly {
			continue
		}
		fmt.Fprintf(&b, "%s — %s\n", name, cmd.Description)
	}
	return tghelpers.SendHTML(c, b.String())
}

func (a *App) onStats(c tele.Context) error {
	if a.sheetsAPI == nil {
		return tghelpers.SendHTML(c, "Таблица не настроена.")
	}

	ctx := tghelpers.BuildContext(c)
	total, today, err := a.sheetsAPI.Stats(ctx)
	if err != nil {
		return tghelpers.SendHTML(c, "Не удалось получить статистику: "+html.EscapeString(err.Error()))
	}

	archived := int64(-1)
	if a.archiveStore != nil {
		n, cntErr := a.archiveStore.Count(ctx)
		if cntErr != nil {
			logger.Warn(ctx, "app", "archive.count_failed",
				slog.String("err", cntErr.Error()),
			)
		} else {
			archived = n
		}
	}

	return tghelpers.SendHTML(c, statsMessage(total, today, archived))
}

// statsMessage renders the /stats reply; a negative archived count means
// the archive is disabled or unreachable and its line is omitted.
func statsMessage(total, today int, archived int64) string {
	msg := fmt.Sprintf("📊 <b>Статистика</b>\n\nВсего регистраций: %d\nСегодня: %d", total, today)
	if archived >= 0 {
		msg += fmt.Sprintf("\nВ архиве: %d", archived)
	}
	return msg
}

func (a *App) onSetupSheet(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if err := a.store.EnsureHeader(ctx); err != nil {
		return tghelpers.SendHTML(c, "Не удалось настроить таблицу: "+html.EscapeString(err.Error()))
	}
	return tghelpers.SendHTML(c, "✅ Заголовок таблицы на месте.")
}

func (a *App) onTableInfo(c tele.Context) error {
	if a.sheetsAPI == nil {
		return tghelpers.SendHTML(c, "Таблица не настроена.")
	}

	ctx := tghelpers.BuildContext(c)
	title, worksheets, err := a.sheetsAPI.Info(ctx)
	if err != nil {
		return tghelpers.SendHTML(c, "Не удалось получить информацию: "+html.EscapeString(err.Error()))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📄 <b>%s</b>\n\nЛисты:\n", html.EscapeString(title))
	for _, ws := range worksheets {
		fmt.Fprintf(&b, "• %s (%d строк)\n", html.EscapeString(ws.Title), ws.Rows)
	}
	return tghelpers.SendHTML(c, b.String())
}
