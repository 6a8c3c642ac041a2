package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return parsed
}

func TestDaysBetween(t *testing.T) {
	start := mustDate(t, "2024-01-15")
	end := mustDate(t, "2024-01-22")
	if got := DaysBetween(start, end); got != 7 {
		t.Errorf("DaysBetween = %d, want 7", got)
	}
}
