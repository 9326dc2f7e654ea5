package middleware

import (
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

func messageContext(b *tele.Bot, userID int64) tele.Context {
	return b.NewContext(tele.Update{
		ID: 2,
		Message: &tele.Message{
			Sender: &tele.User{ID: userID},
			Chat:   &tele.Chat{ID: userID},
			Text:   "hello",
		},
	})
}

func callbackContext(b *tele.Bot, userID int64) tele.Context {
	return b.NewContext(tele.Update{
		ID: 3,
		Callback: &tele.Callback{
			Sender: &tele.User{ID: userID},
			Data:   "\fcity|Тула",
		},
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	b := offlineBot(t)

	var passed int
	handler := RateLimitMiddleware(RateLimitOptions{Interval: time.Minute})(func(tele.Context) error {
		passed++
		return nil
	})

	if err := handler(messageContext(b, 1)); err != nil {
		t.Fatalf("first message: %v", err)
	}
	if err := handler(messageContext(b, 1)); err != nil {
		t.Fatalf("second message: %v", err)
	}
	if passed != 1 {
		t.Fatalf("passed %d messages, want 1", passed)
	}

	// A different user has an independent window.
	if err := handler(messageContext(b, 2)); err != nil {
		t.Fatalf("other user: %v", err)
	}
	if passed != 2 {
		t.Fatalf("passed %d messages, want 2", passed)
	}
}

func TestRateLimitMiddlewareExclusions(t *testing.T) {
	b := offlineBot(t)

	var passed int
	handler := RateLimitMiddleware(RateLimitOptions{
		Interval: time.Minute,
		Exclude:  map[string]struct{}{"callback": {}},
	})(func(tele.Context) error {
		passed++
		return nil
	})

	for i := 0; i < 3; i++ {
		if err := handler(callbackContext(b, 1)); err != nil {
			t.Fatalf("callback %d: %v", i, err)
		}
	}
	if passed != 3 {
		t.Fatalf("passed %d callbacks, want 3", passed)
	}
}

func TestRateLimitMiddlewareOnLimited(t *testing.T) {
	b := offlineBot(t)

	var limited bool
	handler := RateLimitMiddleware(RateLimitOptions{
		Interval: time.Minute,
		OnLimited: func(tele.Context) error {
			limited = true
			return nil
		},
	})(func(tele.Context) error { return nil })

	_ = handler(messageContext(b, 5))
	_ = handler(messageContext(b, 5))
	if !limited {
		t.Fatal("OnLimited not invoked for throttled update")
	}
}
