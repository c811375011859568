package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		guest    string
		seat     string
		expected string
	}{
		{
			name:     "both placeholders",
			template: "Welcome {name}, seat {seat}",
			guest:    "Alice",
			seat:     "A12",
			expected: "Welcome Alice, seat A12",
		},
		{
			name:     "repeated placeholders all replaced",
			template: "{name} {name}, your seat is {seat} ({seat})",
			guest:    "Bob",
			seat:     "B1",
			expected: "Bob Bob, your seat is B1 (B1)",
		},
		{
			name:     "no placeholders renders unchanged",
			template: "Doors open at 6pm.",
			guest:    "Carol",
			seat:     "C3",
			expected: "Doors open at 6pm.",
		},
		{
			name:     "unknown placeholder left verbatim",
			template: "Hi {name}, table {table}",
			guest:    "Dan",
			seat:     "D4",
			expected: "Hi Dan, table {table}",
		},
		{
			name:     "multiline default-style template",
			template: "Dear {name}\nSeat: {seat}",
			guest:    "Eve",
			seat:     "General",
			expected: "Dear Eve\nSeat: General",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.template, tt.guest, tt.seat))
		})
	}
}
