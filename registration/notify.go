package registration

import (
	"context"
	"fmt"
	"html"

	tele "gopkg.in/telebot.v4"
)

// ChannelNotifier posts registration summaries to the staff channel.
type ChannelNotifier struct {
	bot       *tele.Bot
	channelID int64
}

var _ StaffNotifier = (*ChannelNotifier)(nil)

// NewChannelNotifier builds a notifier for the given channel.
func NewChannelNotifier(bot *tele.Bot, channelID int64) *ChannelNotifier {
	return &ChannelNotifier{bot: bot, channelID: channelID}
}

// NotifyStaff sends an HTML summary of the registration to the channel.
func (n *ChannelNotifier) NotifyStaff(ctx context.Context, rec Record, address string) error {
	_, err := n.bot.Send(
		tele.ChatID(n.channelID),
		StaffMessage(rec, address),
		&tele.SendOptions{ParseMode: tele.ModeHTML, DisableWebPagePreview: true},
	)
	return err
}

// StaffMessage renders the staff channel summary for one registration.
// User-supplied fields are HTML-escaped; the user id links to the profile.
func StaffMessage(rec Record, address string) string {
	username := "—"
	if rec.Username != "" {
		username = "@" + html.EscapeString(rec.Username)
	}
	return fmt.Sprintf(
		"🆕 <b>Новая регистрация!</b>\n\n"+
			"🏙 Город: %s\n"+
			"📍 Адрес: %s\n"+
			"👤 Имя: %s\n"+
			"📱 Телефон: %s\n"+
			"🔗 Username: %s\n"+
			"🆔 ID: <a href=\"tg://user?id=%d\">%d</a>\n"+
			"📅 Дата: %s",
		html.EscapeString(rec.City),
		html.EscapeString(address),
		html.EscapeString(rec.Name),
		html.EscapeString(rec.Phone),
		username,
		rec.UserID, rec.UserID,
		rec.SubmittedAt.Format("02.01.2006 15:04"),
	)
}
