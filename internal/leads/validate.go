package leads

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidPhoneFormat indicates the input could not be normalized into a
// 10-digit Indian mobile number.
var ErrInvalidPhoneFormat = errors.New("invalid phone format")

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

	// Letter start, then letters/spaces/periods/apostrophes/hyphens.
	namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z .'-]*$`)

	tenDigits = regexp.MustCompile(`^[0-9]{10}$`)
)

// nameBlocklist keeps buying-signal keywords and conversational filler from
// being misread as a person's name ("pricing please" is not a name).
var nameBlocklist = buildNameBlocklist()

func buildNameBlocklist() map[string]struct{} {
	words := append([]string{}, LeadSignals...)
	words = append(words,
		"help", "thanks", "thank", "interested", "info", "information",
		"please", "hello", "hi", "hey", "yes", "no", "okay", "ok", "sure",
	)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsValidEmail reports whether the trimmed text is, in its entirety, an
// email of the form local@domain.tld.
func IsValidEmail(text string) bool {
	return emailPattern.MatchString(strings.TrimSpace(text))
}

// stripPhonePrefix removes spaces/hyphens and a leading +91, a leading 91
// on 12-digit input, or a leading 0 on 11-digit input.
func stripPhonePrefix(text string) string {
	phone := strings.TrimSpace(text)
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")

	switch {
	case strings.HasPrefix(phone, "+91"):
		phone = phone[3:]
	case strings.HasPrefix(phone, "91") && len(phone) == 12:
		phone = phone[2:]
	case strings.HasPrefix(phone, "0") && len(phone) == 11:
		phone = phone[1:]
	}
	return phone
}

// IsValidIndianPhone reports whether the text normalizes to a 10-digit
// Indian mobile number (first digit 6-9).
func IsValidIndianPhone(text string) bool {
	phone := stripPhonePrefix(text)
	if !tenDigits.MatchString(phone) {
		return false
	}
	return phone[0] >= '6' && phone[0] <= '9'
}

// NormalizeIndianPhone returns the canonical 10-digit form, or
// ErrInvalidPhoneFormat if the input is not a valid Indian mobile number.
func NormalizeIndianPhone(text string) (string, error) {
	phone := stripPhonePrefix(text)
	if !tenDigits.MatchString(phone) || phone[0] < '6' || phone[0] > '9' {
		return "", ErrInvalidPhoneFormat
	}
	return phone, nil
}

// IsValidName reports whether the text is a plausible human name:
// 2-60 chars, no digits or '@', letter start, 1-3 words, and no word from
// the signal/filler blocklist.
func IsValidName(text string) bool {
	name := strings.TrimSpace(text)

	if len(name) < 2 || len(name) > 60 {
		return false
	}
	if strings.ContainsAny(name, "0123456789@") {
		return false
	}
	if !namePattern.MatchString(name) {
		return false
	}

	words := strings.Fields(name)
	if len(words) < 1 || len(words) > 3 {
		return false
	}

	for _, word := range words {
		normalized := strings.ToLower(strings.TrimSuffix(word, "."))
		if _, blocked := nameBlocklist[normalized]; blocked {
			return false
		}
	}
	return true
}
