// Package normalize cleans raw ActionKit signup fields into the shapes VAN
// accepts. Every function is pure and degrades invalid input to the empty
// string, which downstream code reads as "omit this field".
package normalize

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

// tags matches complete HTML tags. They are removed whole, before the
// character pass, so a tag's name does not leak into the cleaned value.
var tags = regexp.MustCompile(`<[^>]*>`)

// markers matches the leftover fragments VAN rejects in free-text fields:
// stray angle brackets, the start of an HTML entity, and digits.
var markers = regexp.MustCompile(`[<>0-9]|&#`)

var nonDigit = regexp.MustCompile(`\D`)

// Name cleans a name or place string: markup and digits are stripped, then
// the remainder is title-cased.
func Name(s string) string {
	s = tags.ReplaceAllString(s, "")
	return titleCase(markers.ReplaceAllString(s, ""))
}

// Zip reduces a zip string to its digits and keeps the first five. Anything
// that does not yield exactly five digits is discarded.
func Zip(s string) string {
	d := nonDigit.ReplaceAllString(s, "")
	if len(d) > 5 {
		d = d[:5]
	}
	if len(d) != 5 {
		return ""
	}
	return d
}

// Email rejects strings carrying markup fragments or a slash, then parses
// the remainder as an address and returns its bare addr-spec.
func Email(s string) string {
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "<>/") || strings.Contains(s, "&#") {
		return ""
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Address
}

// Sex maps the gender question to VAN's sex code. Only "Man" and "Woman"
// carry a code; everything else is left blank.
func Sex(questionName, questionResponse string) string {
	if questionName != "gender" {
		return ""
	}
	switch questionResponse {
	case "Man":
		return "M"
	case "Woman":
		return "F"
	}
	return ""
}

// SubscribeStatus maps the ActionKit email subscription status to VAN's
// single-letter code: S subscribed, U unsubscribed, N neutral.
func SubscribeStatus(s string) string {
	switch s {
	case "subscribed":
		return "S"
	case "unsubscribed":
		return "U"
	}
	return "N"
}

// OptIn maps the sms_subscriber question to VAN's phone opt-in code. VAN
// defaults an empty code to "unknown".
func OptIn(questionName, questionResponse string) string {
	if questionName == "sms_subscriber" && questionResponse == "Yes" {
		return "I"
	}
	return ""
}

// titleCase capitalizes the letter following any non-letter and lowercases
// the rest, so "o'brien" becomes "O'Brien". x/text's cases.Title follows
// Unicode word breaks, which keep a medial apostrophe word-internal and
// would produce "O'brien" instead.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
