package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCode(t *testing.T) {
	testCases := []struct {
		name     string
		category string
		value    int64
		expected string
	}{
		{
			name:     "Zero-pads to four digits",
			category: "service",
			value:    7,
			expected: "S-0007",
		},
		{
			name:     "Never truncates past the pad floor",
			category: "repair",
			value:    12345,
			expected: "R-12345",
		},
		{
			name:     "Installation namespace",
			category: "installation",
			value:    42,
			expected: "I-0042",
		},
		{
			name:     "Invoice namespace",
			category: "invoice",
			value:    1,
			expected: "I-0001",
		},
		{
			name:     "QR namespace",
			category: "qr",
			value:    9999,
			expected: "Q-9999",
		},
		{
			name:     "Five digits",
			category: "service",
			value:    10000,
			expected: "S-10000",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatCode(tc.category, tc.value))
		})
	}
}
