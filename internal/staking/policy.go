// Package staking sizes bets and replays settled trades. The edge
// classifier, the per-bet and daily risk caps, and the bankroll simulator
// all live here so that live sizing and historical backtests share one
// policy implementation.
package staking

import "time"

// Quality is the edge band a signal falls into
type Quality string

const (
	QualityNoBet     Quality = "no-bet"
	QualityLow       Quality = "low"
	QualitySweetSpot Quality = "sweet-spot"
	QualityHigh      Quality = "high"
	QualityCaution   Quality = "caution"
)

// Risk caps, as fractions of bankroll. The daily cap is further scaled by
// the chosen Kelly fraction.
const (
	MaxBetPct  = 0.05
	MaxRiskPct = 0.15
)

// Allowed Kelly fraction settings
const (
	KellyFull    = 1.0
	KellyHalf    = 0.5
	KellyQuarter = 0.25
)

// ValidKellyFraction reports whether f is one of the allowed settings
func ValidKellyFraction(f float64) bool {
	switch f {
	case KellyFull, KellyHalf, KellyQuarter:
		return true
	}
	return false
}

// ClassifierCutover is the day the edge classifier went live. Trades dated
// before it were staked flat and must replay that way in backtests.
var ClassifierCutover = time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)

// Classify maps a model edge (percentage points) to a stake multiplier and
// quality band. 5 and 15 are inside the sweet spot; 3 starts the low band;
// anything above 25 is treated with caution.
func Classify(edgePct float64) (float64, Quality) {
	switch {
	case edgePct < 3:
		return 0, QualityNoBet
	case edgePct < 5:
		return 0.25, QualityLow
	case edgePct <= 15:
		return 1.0, QualitySweetSpot
	case edgePct <= 25:
		return 0.5, QualityHigh
	default:
		return 0.25, QualityCaution
	}
}

// IsSweetSpot reports whether a signal counts toward performance stats and
// the bankroll simulation. Any non-zero multiplier counts, so the low and
// caution bands are included even though they are not the named sweet spot.
func IsSweetSpot(edgePct float64) bool {
	mult, _ := Classify(edgePct)
	return mult > 0
}

// Policy is the staking rule set in force for one trade date
type Policy struct {
	useClassifier bool
}

// PolicyFor selects the policy for a signal date ("2006-01-02").
// Unparseable dates fall through to the current (classifier) policy.
func PolicyFor(signalDate string) Policy {
	d, err := time.Parse("2006-01-02", signalDate)
	if err != nil {
		return Policy{useClassifier: true}
	}
	return Policy{useClassifier: !d.Before(ClassifierCutover)}
}

// Multiplier returns the edge-based stake multiplier under this policy.
// Pre-cutover every trade was staked flat; the per-bet and daily caps
// still applied.
func (p Policy) Multiplier(edgePct float64) float64 {
	if !p.useClassifier {
		return 1.0
	}
	mult, _ := Classify(edgePct)
	return mult
}

// Active reports whether a trade participates in stats and simulation
// under this policy.
func (p Policy) Active(edgePct float64) bool {
	if !p.useClassifier {
		return true
	}
	return IsSweetSpot(edgePct)
}
