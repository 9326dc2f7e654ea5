package sheets

import (
	"reflect"
	"testing"
	"time"

	"loyaltybot/registration"
)

func row(values ...string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func TestHeaderAction(t *testing.T) {
	cases := []struct {
		name string
		rows [][]interface{}
		want headerStep
	}{
		{
			name: "empty worksheet",
			rows: nil,
			want: headerAppend,
		},
		{
			name: "empty first row",
			rows: [][]interface{}{{}},
			want: headerAppend,
		},
		{
			name: "correct header",
			rows: [][]interface{}{row("Город", "Имя", "Телефон", "Username", "User ID", "Дата")},
			want: headerOK,
		},
		{
			name: "data without header",
			rows: [][]interface{}{row("Тула", "Анна", "+79991234567", "ann", "42", "28.08.2026 14:05")},
			want: headerInsert,
		},
		{
			name: "short first row",
			rows: [][]interface{}{row("Город", "Имя")},
			want: headerInsert,
		},
		{
			name: "outdated header",
			rows: [][]interface{}{row("Имя", "Телефон", "Username", "User ID", "Дата", "")},
			want: headerInsert,
		},
	}
	for _, tc := range cases {
		if got := headerAction(tc.rows); got != tc.want {
			t.Fatalf("%s: headerAction = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHeaderActionIdempotent(t *testing.T) {
	// After the header has been written, a second pass must be a no-op.
	if got := headerAction([][]interface{}{headerRow()}); got != headerOK {
		t.Fatalf("headerAction on own header row = %v, want headerOK", got)
	}
}

func TestParseDirectory(t *testing.T) {
	rows := [][]interface{}{
		row("Тула", "ул. Ленина, 1"),
		row("", "пустая строка"),
		row("Калуга"),
		row("Орёл", "  "),
		{},
		row("Тула", "дубль, игнорируется в списке"),
	}

	cities, addresses := parseDirectory(rows)

	if want := []string{"Тула", "Калуга", "Орёл"}; !reflect.DeepEqual(cities, want) {
		t.Fatalf("cities = %v, want %v", cities, want)
	}
	if addresses["Тула"] != "дубль, игнорируется в списке" {
		t.Fatalf("duplicate row must win the address: %q", addresses["Тула"])
	}
	if addresses["Калуга"] != "Адрес не указан" {
		t.Fatalf("missing address placeholder: %q", addresses["Калуга"])
	}
	if addresses["Орёл"] != "Адрес не указан" {
		t.Fatalf("blank address placeholder: %q", addresses["Орёл"])
	}
}

func TestRecordRow(t *testing.T) {
	rec := registration.Record{
		City:        "Тула",
		Name:        "Анна",
		Phone:       "+79991234567",
		Username:    "ann",
		UserID:      42,
		SubmittedAt: time.Date(2026, 8, 28, 14, 5, 0, 0, time.UTC),
	}

	got := recordRow(rec)
	want := row("Тула", "Анна", "+79991234567", "ann", "42", "28.08.2026 14:05")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("recordRow = %v, want %v", got, want)
	}
}

func TestRecordRowUsernamePlaceholder(t *testing.T) {
	got := recordRow(registration.Record{UserID: 1, SubmittedAt: time.Now()})
	if got[3] != "Не указан" {
		t.Fatalf("username cell = %v, want placeholder", got[3])
	}
}
