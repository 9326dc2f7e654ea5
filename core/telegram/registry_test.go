package telegram

import (
	"testing"

	"loyaltybot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noopHandler(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	r := NewRegistry()

	r.RegisterCommand("/start", commands.Command{
		Handler:     noopHandler,
		Description: "start",
		Aliases:     []string{"begin"},
	})
	r.RegisterCommand("/stats", commands.Command{
		Handler:     noopHandler,
		Description: "stats",
		AdminOnly:   true,
		Hidden:      true,
	})

	// Invalid registrations are dropped.
	r.RegisterCommand("start", commands.Command{Handler: noopHandler, Description: "no slash"})
	r.RegisterCommand("/broken", commands.Command{Description: "nil handler"})
	r.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "duplicate"})

	if len(r.Commands()) != 2 {
		t.Fatalf("registered %d commands, want 2", len(r.Commands()))
	}

	visible := r.ListCommands(true)
	if len(visible) != 1 || visible[0].Text != "/start" {
		t.Fatalf("visible commands = %v", visible)
	}

	if _, _, ok := r.LookupCommand("/start"); !ok {
		t.Fatal("lookup by name failed")
	}
	if key, _, ok := r.LookupCommand("begin"); !ok || key != "/start" {
		t.Fatalf("lookup by alias = %q, %v", key, ok)
	}
	if _, _, ok := r.LookupCommand("/missing"); ok {
		t.Fatal("lookup of unknown command succeeded")
	}
}

func TestRegistryCallbacks(t *testing.T) {
	r := NewRegistry()

	if err := r.RegisterCallback("city", noopHandler); err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	if err := r.RegisterCallback("city", noopHandler); err == nil {
		t.Fatal("duplicate callback accepted")
	}
	if err := r.RegisterCallback("", noopHandler); err == nil {
		t.Fatal("empty callback key accepted")
	}

	if _, ok := r.GetCallback("city"); !ok {
		t.Fatal("registered callback not found")
	}
	if _, ok := r.GetCallback("missing"); ok {
		t.Fatal("unknown callback found")
	}

	if keys := r.ListCallbacks(); len(keys) != 1 || keys[0] != "city" {
		t.Fatalf("ListCallbacks = %v", keys)
	}
}
