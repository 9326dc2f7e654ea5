package middleware

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func offlineBot(t *testing.T) *tele.Bot {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("offline bot: %v", err)
	}
	return b
}

func contextFor(t *testing.T, b *tele.Bot, userID int64) tele.Context {
	t.Helper()
	return b.NewContext(tele.Update{
		ID: 1,
		Message: &tele.Message{
			Sender: &tele.User{ID: userID},
			Chat:   &tele.Chat{ID: userID},
			Text:   "/stats",
		},
	})
}

func TestAdminOnlyMiddleware(t *testing.T) {
	b := offlineBot(t)

	var called, rejected bool
	mw := AdminOnlyMiddleware(AdminOptions{
		AllowList: []int64{42},
		OnReject: func(tele.Context) error {
			rejected = true
			return nil
		},
	})
	handler := mw(func(tele.Context) error {
		called = true
		return nil
	})

	if err := handler(contextFor(t, b, 42)); err != nil {
		t.Fatalf("admin call: %v", err)
	}
	if !called || rejected {
		t.Fatalf("admin call: called=%v rejected=%v", called, rejected)
	}

	called, rejected = false, false
	if err := handler(contextFor(t, b, 7)); err != nil {
		t.Fatalf("non-admin call: %v", err)
	}
	if called || !rejected {
		t.Fatalf("non-admin call: called=%v rejected=%v", called, rejected)
	}
}

func TestAdminOnlyMiddlewareEmptyAllowList(t *testing.T) {
	b := offlineBot(t)

	var called bool
	handler := AdminOnlyMiddleware(AdminOptions{})(func(tele.Context) error {
		called = true
		return nil
	})

	if err := handler(contextFor(t, b, 1)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if called {
		t.Fatal("empty allow-list let a user through")
	}
}
