package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare ten digits gets country code", "9876543210", "919876543210"},
		{"formatted ten digits gets country code", "(987) 654-3210", "919876543210"},
		{"plus and country code pass through", "+91 98765 43210", "919876543210"},
		{"short number passes through", "12345", "12345"},
		{"long number passes through", "4479460123456", "4479460123456"},
		{"letters stripped", "98a76b54c32d10", "919876543210"},
		{"empty input", "", ""},
		{"no digits at all", "call me", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input, DefaultCountryCode))
		})
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	first := Normalize("987-654-3210", "91")
	second := Normalize("987-654-3210", "91")
	assert.Equal(t, first, second)
}

func TestNormalizeCustomCountryCode(t *testing.T) {
	assert.Equal(t, "9725551234567", Normalize("5551234567", "972"))
}
