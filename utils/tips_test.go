package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateTip(t *testing.T) {
	testCases := []struct {
		name          string
		technicians   int
		helpers       int
		total         float64
		perTechnician float64
		perHelper     float64
	}{
		{
			name:          "Both roles present split 60/40",
			technicians:   2,
			helpers:       1,
			total:         300,
			perTechnician: 90,
			perHelper:     120,
		},
		{
			name:          "Helpers only get everything",
			technicians:   0,
			helpers:       3,
			total:         90,
			perTechnician: 0,
			perHelper:     30,
		},
		{
			name:          "Technicians only get everything",
			technicians:   2,
			helpers:       0,
			total:         100,
			perTechnician: 50,
			perHelper:     0,
		},
		{
			name:          "Nobody assigned",
			technicians:   0,
			helpers:       0,
			total:         100,
			perTechnician: 0,
			perHelper:     0,
		},
		{
			name:          "Zero amount",
			technicians:   2,
			helpers:       2,
			total:         0,
			perTechnician: 0,
			perHelper:     0,
		},
		{
			name:          "Rounds to currency precision",
			technicians:   3,
			helpers:       0,
			total:         100,
			perTechnician: 33.33,
			perHelper:     0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			perTechnician, perHelper := AllocateTip(tc.technicians, tc.helpers, tc.total)
			assert.Equal(t, tc.perTechnician, perTechnician)
			assert.Equal(t, tc.perHelper, perHelper)
		})
	}
}

func TestAddMonths(t *testing.T) {
	jan := mustDate(t, "2024-01-15")
	assert.Equal(t, mustDate(t, "2024-04-15"), AddMonths(jan, 3))

	// Calendar rollover, not a fixed day count
	nov := mustDate(t, "2023-11-30")
	assert.Equal(t, mustDate(t, "2024-03-01"), AddMonths(nov, 3))
}
