package keyboard

import "testing"

func TestInlineButtonsNPerRow(t *testing.T) {
	buttons := []InlineBtn{
		{Text: "Тула", Unique: "city", Data: "Тула"},
		{Text: "Калуга", Unique: "city", Data: "Калуга"},
		{Text: "Орёл", Unique: "city", Data: "Орёл"},
	}

	markup := InlineButtonsNPerRow(buttons, 2)
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	if len(markup.InlineKeyboard[0]) != 2 || len(markup.InlineKeyboard[1]) != 1 {
		t.Fatalf("row sizes = %d, %d", len(markup.InlineKeyboard[0]), len(markup.InlineKeyboard[1]))
	}
	if markup.InlineKeyboard[0][0].Text != "Тула" {
		t.Fatalf("first button = %q", markup.InlineKeyboard[0][0].Text)
	}

	single := InlineButtonsNPerRow(buttons, 0)
	if len(single.InlineKeyboard) != 3 {
		t.Fatalf("n<=1 rows = %d, want 3", len(single.InlineKeyboard))
	}
}

func TestContactRequest(t *testing.T) {
	markup := ContactRequest("Поделиться номером")
	if !markup.OneTimeKeyboard || !markup.ResizeKeyboard {
		t.Fatal("contact keyboard must be one-time and resized")
	}
	if len(markup.ReplyKeyboard) != 1 || len(markup.ReplyKeyboard[0]) != 1 {
		t.Fatalf("unexpected layout: %v", markup.ReplyKeyboard)
	}
	if !markup.ReplyKeyboard[0][0].Contact {
		t.Fatal("button does not request contact")
	}
}

func TestRemoveKeyboard(t *testing.T) {
	if !RemoveKeyboard().RemoveKeyboard {
		t.Fatal("RemoveKeyboard flag not set")
	}
}
