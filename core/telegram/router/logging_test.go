package router

import "testing"

func TestParseCallback(t *testing.T) {
	cases := []struct {
		in           string
		key, payload string
	}{
		{"\fcity|Тула", "city", "Тула"},
		{"\fstart_reg", "start_reg", ""},
		{"city|Тула", "city", "Тула"},
		{"\fcity|а|б", "city", "а|б"},
		{"", "", ""},
	}
	for _, tc := range cases {
		key, payload := parseCallback(tc.in)
		if key != tc.key || payload != tc.payload {
			t.Fatalf("parseCallback(%q) = %q, %q; want %q, %q", tc.in, key, payload, tc.key, tc.payload)
		}
	}
}

func TestNormalizeHandlerName(t *testing.T) {
	cases := []struct {
		kind, name, want string
	}{
		{"command", "/start", "command.start"},
		{"callback", "city", "callback.city"},
		{"command", "  ", "command.unknown"},
	}
	for _, tc := range cases {
		if got := normalizeHandlerName(tc.kind, tc.name); got != tc.want {
			t.Fatalf("normalizeHandlerName(%q, %q) = %q, want %q", tc.kind, tc.name, got, tc.want)
		}
	}
}
