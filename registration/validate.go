package registration

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// ErrDirectoryUnavailable means the city directory could not be read or
	// is empty, so the dialogue cannot start.
	ErrDirectoryUnavailable = errors.New("city directory unavailable")
	// ErrUnknownCity means the chosen city is not in the current directory.
	ErrUnknownCity = errors.New("unknown city")
	// ErrWrongStep means the input does not match the user's current
	// dialogue step.
	ErrWrongStep = errors.New("input out of dialogue order")
	// ErrNameTooShort rejects names shorter than two characters.
	ErrNameTooShort = errors.New("name too short")
	// ErrBadPhone rejects phone numbers that fail the format check.
	ErrBadPhone = errors.New("phone number format invalid")
)

// phoneRe accepts an optional leading plus and 10 to 15 digits, spaces,
// dashes or parentheses.
var phoneRe = regexp.MustCompile(`^[+]?[0-9 \-()]{10,15}$`)

// ValidateName trims the name and requires at least two characters.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 2 {
		return "", ErrNameTooShort
	}
	return name, nil
}

// ValidatePhone trims the phone number and checks it against the allowed
// format.
func ValidatePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if !phoneRe.MatchString(phone) {
		return "", ErrBadPhone
	}
	return phone, nil
}
