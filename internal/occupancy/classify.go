package occupancy

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUndefinedRate is returned when there are no beds to compute a rate over.
	ErrUndefinedRate = errors.New("occupancy rate is undefined for zero beds")
	// ErrInvalidCounts is returned for negative counts or more occupied than total beds.
	ErrInvalidCounts = errors.New("invalid bed counts")
)

// Tier is the severity bucket derived from an occupancy rate.
type Tier string

const (
	TierLow    Tier = "LOW"
	TierMedium Tier = "MEDIUM"
	TierHigh   Tier = "HIGH"
)

// Percentages at which the higher tiers start (inclusive).
const (
	mediumThreshold = 70
	highThreshold   = 90
)

// Variant returns the badge treatment the dashboard uses for the tier.
func (t Tier) Variant() string {
	switch t {
	case TierHigh:
		return "destructive"
	case TierMedium:
		return "warning"
	case TierLow:
		return "success"
	}
	return "secondary"
}

// Classification is the derived occupancy of a unit or a group of units.
type Classification struct {
	Rate float64
	Tier Tier
}

// Classify computes the occupancy rate and tier for the given bed counts.
func Classify(totalBeds, occupiedBeds int) (Classification, error) {
	if totalBeds < 0 || occupiedBeds < 0 || occupiedBeds > totalBeds {
		return Classification{}, fmt.Errorf("%w: total=%d occupied=%d", ErrInvalidCounts, totalBeds, occupiedBeds)
	}
	if totalBeds == 0 {
		return Classification{}, ErrUndefinedRate
	}

	// Thresholds compare in integers so boundary values land in the higher tier.
	tier := TierLow
	switch scaled := occupiedBeds * 100; {
	case scaled >= highThreshold*totalBeds:
		tier = TierHigh
	case scaled >= mediumThreshold*totalBeds:
		tier = TierMedium
	}

	return Classification{
		Rate: float64(occupiedBeds*100) / float64(totalBeds),
		Tier: tier,
	}, nil
}

// Round1 rounds a rate to one decimal place.
func Round1(rate float64) float64 {
	return math.Round(rate*10) / 10
}

// Label formats a rate the way the unit cards show it, e.g. "91.7%".
func Label(rate float64) string {
	return fmt.Sprintf("%.1f%%", Round1(rate))
}
