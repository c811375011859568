package phone

import "strings"

// DefaultCountryCode is prepended to bare 10-digit national numbers.
const DefaultCountryCode = "91"

// Normalize reduces raw phone text to the canonical digit-only channel
// address. A bare 10-digit number gets the country code prefixed; any
// other digit count passes through unchanged. Normalization never fails:
// a malformed input yields a digit string that surfaces later as a send
// error.
func Normalize(raw, countryCode string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 {
		return countryCode + digits
	}
	return digits
}
