package app

import (
	"errors"
	"fmt"
	"html"
	"log/slog"
	"os"

	"loyaltybot/core/logger"
	"loyaltybot/core/telegram/callbacks"
	tghelpers "loyaltybot/core/telegram/helpers"
	"loyaltybot/core/telegram/keyboard"
	"loyaltybot/core/telegram/state"
	"loyaltybot/registration"

	tele "gopkg.in/telebot.v4"
)

const (
	cbStartRegistration = "start_reg"
	cbCity              = "city"
)

func (a *App) registerHandlers() {
	a.registerCommands()
	a.registerAdminCommands()

	_ = a.registry.RegisterCallback(cbStartRegistration, a.onStartRegistration)
	_ = a.registry.RegisterCallback(cbCity, a.onCitySelected)

	state.RegisterHandler(registration.StateAwaitingName, a.onName)
	state.RegisterHandler(registration.StateAwaitingPhone, a.onPhone)

	a.registry.SetTextFallback(a.onUnknownMessage)
}

func startKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: textStartButton, Unique: cbStartRegistration},
	})
}

func cityKeyboard(cities []string) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, len(cities))
	for i, city := range cities {
		buttons[i] = keyboard.InlineBtn{Text: city, Unique: cbCity, Data: city}
	}
	return keyboard.InlineButtonsNPerRow(buttons, 2)
}

// onStart handles /start: the dialogue begins immediately with the city
// choice. Any progress from an earlier attempt is discarded by Begin.
func (a *App) onStart(c tele.Context) error {
	a.markGreeted(c.Sender().ID)
	return a.beginDialogue(c)
}

// onUnknownMessage greets first-time users and nudges everyone else back
// to the buttons.
func (a *App) onUnknownMessage(c tele.Context) error {
	if a.markGreeted(c.Sender().ID) {
		return tghelpers.SendHTML(c, textWelcome, startKeyboard())
	}
	return tghelpers.SendHTML(c, textUseButtons, startKeyboard())
}

// onStartRegistration handles the start button; it is /start minus the
// greeted bookkeeping, editing the originating message where possible.
func (a *App) onStartRegistration(c tele.Context) error {
	return a.beginDialogue(c)
}

func (a *App) beginDialogue(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	cities, err := a.flow.Begin(ctx, c.Sender().ID)
	if err != nil {
		if errors.Is(err, registration.ErrDirectoryUnavailable) {
			return tghelpers.EditOrSendHTML(c, textNoCities)
		}
		return err
	}
	return tghelpers.EditOrSendHTML(c, textChooseCity, cityKeyboard(cities))
}

// onCitySelected handles a city button press.
func (a *App) onCitySelected(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	city := callbacks.Payload(c)

	address, err := a.flow.SelectCity(ctx, userID, city)
	switch {
	case err == nil:
		return tghelpers.EditOrSendHTML(c,
			fmt.Sprintf(textAskName, html.EscapeString(city), html.EscapeString(address)))
	case errors.Is(err, registration.ErrUnknownCity):
		// The keyboard was stale; re-read the directory and show the
		// current one.
		cities, dirErr := a.flow.Begin(ctx, userID)
		if dirErr != nil {
			return tghelpers.EditOrSendHTML(c, textNoCities)
		}
		return tghelpers.EditOrSendHTML(c, textCityUnavailable, cityKeyboard(cities))
	case errors.Is(err, registration.ErrWrongStep):
		return c.Respond(&tele.CallbackResponse{Text: "Регистрация уже идёт"})
	case errors.Is(err, registration.ErrDirectoryUnavailable):
		return tghelpers.EditOrSendHTML(c, textNoCities)
	default:
		return err
	}
}

// onName handles the name step of the dialogue.
func (a *App) onName(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	name := c.Text()

	err := a.flow.SubmitName(ctx, c.Sender().ID, name)
	switch {
	case err == nil:
		first, _ := registration.ValidateName(name)
		return tghelpers.SendHTML(c,
			fmt.Sprintf(textAskPhone, html.EscapeString(first)),
			keyboard.ContactRequest(textShareContact))
	case errors.Is(err, registration.ErrNameTooShort):
		return tghelpers.SendHTML(c, textNameTooShort)
	case errors.Is(err, registration.ErrWrongStep):
		return a.onUnknownMessage(c)
	default:
		return err
	}
}

// onPhone handles the final step: a typed number or a shared contact.
func (a *App) onPhone(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sender := c.Sender()

	phone := c.Text()
	trusted := false
	if msg := c.Message(); msg != nil && msg.Contact != nil {
		phone = msg.Contact.PhoneNumber
		trusted = true
	}

	rec, address, err := a.flow.SubmitPhone(ctx, sender.ID, sender.Username, phone, trusted)
	switch {
	case err == nil:
	case errors.Is(err, registration.ErrBadPhone):
		return tghelpers.SendHTML(c, textBadPhone, keyboard.ContactRequest(textShareContact))
	case errors.Is(err, registration.ErrWrongStep):
		return a.onUnknownMessage(c)
	default:
		return err
	}

	// Acknowledge first and drop the contact keyboard; delivery happens
	// behind this message.
	if err := c.Send(textProcessing, keyboard.RemoveKeyboard()); err != nil {
		logger.Warn(ctx, "app", "processing_message.failed",
			slog.String("err", err.Error()),
		)
	}

	// Failures inside Complete are logged there; the user still gets the
	// confirmation and staff recover the record from the channel message.
	_ = a.flow.Complete(ctx, rec, address)

	return a.congratulate(c, rec, address)
}

// congratulate sends the final confirmation with a photo, falling back to
// plain text when the configured image is not on disk.
func (a *App) congratulate(c tele.Context, rec registration.Record, address string) error {
	caption := fmt.Sprintf(textCongrats, html.EscapeString(rec.Name), html.EscapeString(address))

	path := a.cfg.Assets.CongratsImage
	if !hasCongratsImage(path) {
		ctx := tghelpers.BuildContext(c)
		logger.Warn(ctx, "app", "congrats_photo.missing",
			slog.String("image", path),
		)
		return tghelpers.SendHTML(c, caption)
	}

	return tghelpers.SendPhotoHTML(c, &tele.Photo{
		File:    tele.FromDisk(path),
		Caption: caption,
	})
}

func hasCongratsImage(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
