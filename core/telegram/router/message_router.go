package router

import (
	"strings"

	"loyaltybot/core/telegram"
	"loyaltybot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// TextRoute returns a handler for tele.OnText.
//
// Dispatch order: an active conversation state wins, then registered
// commands, then the registry's text fallback. Text that arrives while a
// state is active but has no registered state handler also falls through
// to the fallback.
func TextRoute(reg *telegram.Registry, sm state.Manager) tele.HandlerFunc {
	return func(c tele.Context) error {
		if sm != nil && sm.InProgress(c.Sender().ID) {
			handled, err := dispatchState(c, sm)
			if handled {
				return err
			}
		}

		text := strings.TrimSpace(c.Text())
		if strings.HasPrefix(text, "/") {
			name := text
			if i := strings.IndexAny(name, " @"); i >= 0 {
				name = name[:i]
			}
			if key, cmd, ok := reg.LookupCommand(name); ok {
				return handleWithSummary(c, normalizeHandlerName("command", key), cmd.Handler)
			}
		}

		if fallback := reg.TextFallback(); fallback != nil {
			return handleWithSummary(c, "text.fallback", fallback)
		}
		return nil
	}
}

// ContactRoute returns a handler for tele.OnContact. Shared contacts are fed
// into the active conversation state; outside a conversation they hit the
// text fallback.
func ContactRoute(reg *telegram.Registry, sm state.Manager) tele.HandlerFunc {
	return func(c tele.Context) error {
		if sm != nil && sm.InProgress(c.Sender().ID) {
			handled, err := dispatchState(c, sm)
			if handled {
				return err
			}
		}
		if fallback := reg.TextFallback(); fallback != nil {
			return handleWithSummary(c, "contact.fallback", fallback)
		}
		return nil
	}
}

func dispatchState(c tele.Context, sm state.Manager) (bool, error) {
	name := "fsm." + string(sm.GetState(c.Sender().ID))
	var handled bool
	err := handleWithSummary(c, name, func(c tele.Context) error {
		var err error
		handled, err = sm.Handle(c)
		return err
	})
	return handled, err
}
