package staking

import (
	"math"

	"github.com/XavierBriggs/splashtrack/pkg/models"
)

// SizedSignal is a signal with its allocated dollar stake. DollarBet is nil
// when no stake is assigned (zero multiplier, zero Kelly stake, or sizing
// disabled).
type SizedSignal struct {
	models.Signal
	DollarBet   *float64 `json:"dollarBet"`
	Quality     Quality  `json:"quality"`
	IsSweetSpot bool     `json:"isSweetSpot"`
}

// SizingResult is the output of one sizing pass. TotalRisk sums pending
// stakes only; settled signals never consume risk budget.
type SizingResult struct {
	Signals    []SizedSignal `json:"signals"`
	TotalRisk  float64       `json:"total_risk"`
	ActiveBets int           `json:"active_bets"`
}

// SizeBets allocates bankroll across signals under the per-bet cap and the
// daily risk cap. A nil or non-positive bankroll disables sizing: every
// dollar bet comes back nil. When the pending raw stakes exceed the daily
// cap, every pending stake is scaled down by the same factor, preserving
// their ratios; there is no priority ordering between signals.
func SizeBets(signals []models.Signal, bankroll *float64, kellyFraction float64) SizingResult {
	sized := make([]SizedSignal, len(signals))
	for i, s := range signals {
		_, quality := Classify(s.EdgePct)
		sized[i] = SizedSignal{
			Signal:      s,
			Quality:     quality,
			IsSweetSpot: PolicyFor(s.SignalDate).Active(s.EdgePct),
		}
	}

	if bankroll == nil || *bankroll <= 0 {
		return SizingResult{Signals: sized}
	}
	bank := *bankroll

	raw := make([]float64, len(signals))
	pendingTotal := 0.0
	for i, s := range signals {
		policy := PolicyFor(s.SignalDate)
		frac := math.Min(s.KellyStake, MaxBetPct) * kellyFraction * policy.Multiplier(s.EdgePct)
		raw[i] = frac * bank
		if s.IsPending() {
			pendingTotal += raw[i]
		}
	}

	dailyCap := bank * MaxRiskPct * kellyFraction
	scale := 1.0
	if pendingTotal > dailyCap && pendingTotal > 0 {
		scale = dailyCap / pendingTotal
	}

	result := SizingResult{Signals: sized}
	for i, s := range signals {
		stake := raw[i]
		if s.IsPending() {
			stake *= scale
		}
		if stake <= 0 {
			continue
		}
		dollar := stake
		result.Signals[i].DollarBet = &dollar
		if s.IsPending() {
			result.TotalRisk += stake
			result.ActiveBets++
		}
	}

	return result
}
