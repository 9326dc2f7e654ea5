package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		data         string
		key, payload string
	}{
		{"\fcity|Тула", "city", "Тула"},
		{"\fstart_reg", "start_reg", ""},
		{"city|Тула", "city", "Тула"},
		{"", "", ""},
	}
	for _, tc := range cases {
		key, payload := ParseCallbackData(&tele.Callback{Data: tc.data})
		if key != tc.key || payload != tc.payload {
			t.Fatalf("ParseCallbackData(%q) = %q, %q; want %q, %q", tc.data, key, payload, tc.key, tc.payload)
		}
	}

	if key, payload := ParseCallbackData(nil); key != "" || payload != "" {
		t.Fatalf("nil callback parsed to %q, %q", key, payload)
	}
}
