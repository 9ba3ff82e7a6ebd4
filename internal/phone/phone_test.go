package phone_test

import (
	"testing"

	"github.com/grana-sh/grana/internal/phone"
	. "github.com/onsi/gomega"
)

func TestExtractDigits(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "formatted number",
			input:    "(84) 98899-2141",
			expected: "84988992141",
		},
		{
			name:     "international format",
			input:    "+55 84 98899-2141",
			expected: "5584988992141",
		},
		{
			name:     "digits only",
			input:    "5584988992141",
			expected: "5584988992141",
		},
		{
			name:     "channel address",
			input:    "5584988992141@s.whatsapp.net",
			expected: "5584988992141",
		},
		{
			name:     "no digits",
			input:    "abc",
			expected: "",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			g.Expect(phone.ExtractDigits(tt.input)).To(Equal(tt.expected))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "formatted local number gets country prefix",
			input:    "(84) 98899-2141",
			expected: "5584988992141",
		},
		{
			name:     "already canonical",
			input:    "5584988992141",
			expected: "5584988992141",
		},
		{
			name:     "international format",
			input:    "+55 84 98899-2141",
			expected: "5584988992141",
		},
		{
			name:     "channel address input",
			input:    "5584988992141@s.whatsapp.net",
			expected: "5584988992141",
		},
		{
			name:     "landline keeps eight digits",
			input:    "558432215566",
			expected: "558432215566",
		},
		{
			name:     "twelve digits without country prefix pass through",
			input:    "618488992141",
			expected: "618488992141",
		},
		{
			name:     "short garbage only gains the prefix",
			input:    "123",
			expected: "55123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			g.Expect(phone.Normalize(tt.input)).To(Equal(tt.expected))
		})
	}
}

// Pins the canonical digit-count policy: legacy eight-digit mobile numbers are
// expanded to nine digits by inserting a leading 9, never the other way around.
func TestNormalize_ExpandsLegacyEightDigitMobile(t *testing.T) {
	g := NewWithT(t)
	g.Expect(phone.Normalize("55 84 96843647")).To(Equal("5584996843647"))
	g.Expect(phone.Normalize("(84) 9684-3647")).To(Equal("5584996843647"))
	// nine-digit numbers are never collapsed
	g.Expect(phone.Normalize("5584996843647")).To(Equal("5584996843647"))
}

func TestNormalize_Idempotent(t *testing.T) {
	g := NewWithT(t)
	inputs := []string{
		"(84) 98899-2141",
		"+55 84 98899-2141",
		"55 84 96843647",
		"558432215566",
		"5584988992141@s.whatsapp.net",
		"123",
		"",
	}
	for _, input := range inputs {
		once := phone.Normalize(input)
		g.Expect(phone.Normalize(once)).To(Equal(once), "input: %s", input)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{
			name:  "formatted mobile",
			input: "(84) 98899-2141",
			valid: true,
		},
		{
			name:  "canonical mobile",
			input: "5584988992141",
			valid: true,
		},
		{
			name:  "landline",
			input: "558432215566",
			valid: true,
		},
		{
			name:  "too short",
			input: "123",
			valid: false,
		},
		{
			name:  "empty",
			input: "",
			valid: false,
		},
		{
			name:  "too long",
			input: "55849889921415555",
			valid: false,
		},
		{
			name:  "nine digits without area code",
			input: "123456789",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			g.Expect(phone.IsValid(tt.input)).To(Equal(tt.valid))
		})
	}
}

func TestChannelAddress(t *testing.T) {
	g := NewWithT(t)
	g.Expect(phone.ChannelAddress("(84) 98899-2141")).To(Equal("5584988992141@s.whatsapp.net"))
	g.Expect(phone.FromChannelAddress("5584988992141@s.whatsapp.net")).To(Equal("5584988992141"))
	// round trip
	addr := phone.ChannelAddress("5584988992141")
	g.Expect(phone.ChannelAddress(phone.FromChannelAddress(addr))).To(Equal(addr))
}
