// Package phone normalizes Brazilian phone numbers into the canonical digit
// form used for WhatsApp channel addresses.
package phone

import (
	"regexp"
	"strings"
)

const (
	// countryPrefix is the Brazilian country code. All stored numbers carry it.
	countryPrefix = "55"
	// channelDomain is the WhatsApp JID suffix appended to normalized digits.
	channelDomain = "@s.whatsapp.net"
)

var validPhonePattern = regexp.MustCompile(`^55\d{10,11}$`)

// ExtractDigits strips every character that is not a decimal digit.
func ExtractDigits(input string) string {
	var sb strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Normalize converts free-form phone input into the canonical digit string:
// country prefix, two-digit area code, nine-digit mobile subscriber number.
//
// Accepted inputs include "(84) 98899-2141", "+55 84 98899-2141",
// "5584988992141" and channel addresses ("5584988992141@s.whatsapp.net").
// Normalize is total and idempotent; invalid input comes out unchanged apart
// from digit extraction and is rejected by IsValid.
func Normalize(input string) string {
	digits := ExtractDigits(input)

	// Prepend the country prefix for locally formatted numbers. Longer digit
	// strings without the prefix pass through unexamined; the threshold is
	// deliberate and matches the upstream product behavior.
	if !strings.HasPrefix(digits, countryPrefix) && len(digits) <= 11 {
		digits = countryPrefix + digits
	}

	// Mobile numbers in the legacy eight-digit form get the leading 9 the
	// national numbering plan added, so that both spellings of the same phone
	// normalize to one storage key. Only subscriber numbers starting with 6-9
	// are mobile; landlines keep their eight digits.
	if len(digits) == 12 && strings.HasPrefix(digits, countryPrefix) {
		subscriber := digits[4:]
		if subscriber[0] >= '6' && subscriber[0] <= '9' {
			digits = digits[:4] + "9" + subscriber
		}
	}

	return digits
}

// IsValid reports whether the input normalizes to a well-formed Brazilian
// number: country prefix plus 10 or 11 further digits.
func IsValid(input string) bool {
	return validPhonePattern.MatchString(Normalize(input))
}

// ChannelAddress derives the canonical messaging identifier persisted on the
// user account, e.g. "5584988992141@s.whatsapp.net".
func ChannelAddress(input string) string {
	return Normalize(input) + channelDomain
}

// FromChannelAddress returns the human-readable digit portion of a channel
// address.
func FromChannelAddress(address string) string {
	return strings.TrimSuffix(address, channelDomain)
}
