package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "austin", "Austin"},
		{"already_cased", "Austin", "Austin"},
		{"all_caps", "HOUSTON", "Houston"},
		{"apostrophe", "o'brien", "O'Brien"},
		{"markup_and_digit", "o'brien3<b>", "O'Brien"},
		{"tag_name_does_not_leak", "smith<span>", "Smith"},
		{"closing_tag", "smith</b>", "Smith"},
		{"stray_open_bracket", "jane<", "Jane"},
		{"stray_close_bracket", "jane>", "Jane"},
		{"entity_fragment", "mar&#237a", "Mara"},
		{"two_words", "san antonio", "San Antonio"},
		{"hyphen", "smith-jones", "Smith-Jones"},
		{"digits_only", "12345", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.in))
		})
	}
}

func TestZip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "78701", "78701"},
		{"zip_plus_four", "78701-1234", "78701"},
		{"too_short", "123", ""},
		{"letters_stripped", "TX 78701", "78701"},
		{"letters_only", "austin", ""},
		{"six_digits", "787011", "78701"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Zip(tt.in))
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"valid", "test@example.com", "test@example.com"},
		{"mixed_case_kept", "Test@Example.COM", "Test@Example.COM"},
		{"trailing_slash", "test@example.com/x", ""},
		{"angle_bracket", "test@example.com<b>", ""},
		{"entity_fragment", "test&#64;example.com", ""},
		{"not_an_email", "not-an-email", ""},
		{"missing_domain", "test@", ""},
		{"surrounding_space", " test@example.com ", "test@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(tt.in))
		})
	}
}

func TestSex(t *testing.T) {
	assert.Equal(t, "M", Sex("gender", "Man"))
	assert.Equal(t, "F", Sex("gender", "Woman"))
	assert.Equal(t, "", Sex("gender", "Non-Binary"))
	assert.Equal(t, "", Sex("gender", "Prefer not to say"))
	assert.Equal(t, "", Sex("race", "Man"))
}

func TestSubscribeStatus(t *testing.T) {
	assert.Equal(t, "S", SubscribeStatus("subscribed"))
	assert.Equal(t, "U", SubscribeStatus("unsubscribed"))
	assert.Equal(t, "N", SubscribeStatus("bouncing"))
	assert.Equal(t, "N", SubscribeStatus(""))
}

func TestOptIn(t *testing.T) {
	assert.Equal(t, "I", OptIn("sms_subscriber", "Yes"))
	assert.Equal(t, "", OptIn("sms_subscriber", "No"))
	assert.Equal(t, "", OptIn("gender", "Yes"))
}
