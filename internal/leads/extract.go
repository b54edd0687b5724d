package leads

import (
	"regexp"
	"strings"
)

// ContactFields holds whatever contact details a single message yielded.
// Empty fields mean nothing usable was found.
type ContactFields struct {
	Email string
	Phone string
	Name  string
}

var (
	emailSearch = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// Runs of digits with optional spacing that could be a phone number;
	// each candidate still has to survive normalization.
	phoneSearch = regexp.MustCompile(`\+?[0-9][0-9\s-]{8,13}[0-9]`)
)

var namePrefixes = []string{"my name is ", "i am ", "i'm ", "this is "}

var casualPhrases = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "yo": {}, "hii": {},
	"ok": {}, "okay": {}, "sure": {}, "hmm": {}, "hmmm": {},
	"thanks": {}, "thank you": {}, "cool": {}, "fine": {},
}

// ExtractContactFields opportunistically pulls an email, phone, and name
// candidate out of a raw message, independent of conversation state. A
// single message may yield all three ("My name is Priya, priya@x.com,
// 9876543210"). Normalization failures surface as empty fields, not errors.
func ExtractContactFields(text string) ContactFields {
	fields := ContactFields{
		Name: ExtractNameCandidate(text),
	}

	fields.Email = emailSearch.FindString(text)

	for _, candidate := range phoneSearch.FindAllString(text, -1) {
		if phone, err := NormalizeIndianPhone(candidate); err == nil {
			fields.Phone = phone
			break
		}
	}

	return fields
}

// ExtractNameCandidate returns a validated name from the message, or "".
// Messages starting with a lead-in ("my name is ...") have the prefix
// stripped and the candidate cut at the first comma, since the lead-in is
// often followed by contact details; otherwise the whole trimmed message
// must validate as a name.
func ExtractNameCandidate(text string) string {
	cleaned := strings.TrimSpace(text)
	lowered := strings.ToLower(cleaned)

	for _, prefix := range namePrefixes {
		if !strings.HasPrefix(lowered, prefix) {
			continue
		}
		candidate := cleaned[len(prefix):]
		if i := strings.IndexByte(candidate, ','); i >= 0 {
			candidate = candidate[:i]
		}
		candidate = strings.Trim(candidate, " .,!?:;")
		if IsValidName(candidate) {
			return candidate
		}
		return ""
	}

	if IsValidName(cleaned) {
		return cleaned
	}
	return ""
}

// IsCasualMessage reports whether the message is exactly one of the fixed
// casual phrases (case-insensitive).
func IsCasualMessage(text string) bool {
	lowered := strings.ToLower(strings.TrimSpace(text))
	_, ok := casualPhrases[lowered]
	return ok
}
