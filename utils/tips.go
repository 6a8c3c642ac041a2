// utils/tips.go
package utils

import "math"

// AllocateTip splits a gratuity between the two worker roles on a job.
// With both roles present technicians collectively get 60% and helpers 40%,
// each group's share divided evenly. A sole present role gets the full
// amount; an absent role gets 0. Amounts are rounded to currency precision.
func AllocateTip(technicians, helpers int, total float64) (perTechnician, perHelper float64) {
	if total <= 0 {
		return 0, 0
	}

	switch {
	case technicians > 0 && helpers > 0:
		perTechnician = round2(total * 0.6 / float64(technicians))
		perHelper = round2(total * 0.4 / float64(helpers))
	case technicians > 0:
		perTechnician = round2(total / float64(technicians))
	case helpers > 0:
		perHelper = round2(total / float64(helpers))
	}
	return perTechnician, perHelper
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
