package staking

import (
	"math"
	"sort"

	"github.com/XavierBriggs/splashtrack/pkg/models"
	"github.com/XavierBriggs/splashtrack/pkg/oddsmath"
)

// BankrollPoint is the bankroll at the end of one simulated day
type BankrollPoint struct {
	Date     string  `json:"date"`
	Bankroll float64 `json:"bankroll"`
}

// Simulate replays settled trades chronologically and returns the end-of-day
// bankroll series plus the final bankroll. Every trade within a day is sized
// against the bankroll as of the start of that day, so stakes compound
// across days but not within one. Voided trades are excluded entirely;
// trades dated before the classifier cutover are all active, later ones are
// filtered through the sweet-spot predicate.
func Simulate(trades []models.Signal, startingBankroll, kellyFraction float64) ([]BankrollPoint, float64) {
	type day struct {
		date   string
		trades []models.Signal
	}

	var days []day
	dayIdx := make(map[string]int)
	for _, tr := range trades {
		if tr.Outcome == nil || *tr.Outcome == models.OutcomeVoided {
			continue
		}
		if !PolicyFor(tr.SignalDate).Active(tr.EdgePct) {
			continue
		}
		i, ok := dayIdx[tr.SignalDate]
		if !ok {
			i = len(days)
			dayIdx[tr.SignalDate] = i
			days = append(days, day{date: tr.SignalDate})
		}
		days[i].trades = append(days[i].trades, tr)
	}

	// Input is expected date-ordered already; sort keeps the replay
	// deterministic if it is not.
	sort.SliceStable(days, func(a, b int) bool { return days[a].date < days[b].date })

	bankroll := startingBankroll
	series := make([]BankrollPoint, 0, len(days))

	for _, d := range days {
		dayStart := bankroll

		raw := make([]float64, len(d.trades))
		rawTotal := 0.0
		for i, tr := range d.trades {
			policy := PolicyFor(tr.SignalDate)
			frac := math.Min(tr.KellyStake, MaxBetPct) * kellyFraction * policy.Multiplier(tr.EdgePct)
			raw[i] = frac * dayStart
			rawTotal += raw[i]
		}

		dailyCap := dayStart * MaxRiskPct * kellyFraction
		scale := 1.0
		if rawTotal > dailyCap && rawTotal > 0 {
			scale = dailyCap / rawTotal
		}

		for i, tr := range d.trades {
			stake := raw[i] * scale
			if stake <= 0 {
				continue
			}

			switch *tr.Outcome {
			case models.OutcomeWin:
				decimal, err := oddsmath.AmericanToDecimal(tr.Odds)
				if err != nil {
					continue
				}
				bankroll += stake * (decimal - 1.0)
			case models.OutcomeLoss:
				bankroll -= stake
			default:
				// push settles flat
			}
		}

		series = append(series, BankrollPoint{Date: d.date, Bankroll: bankroll})
	}

	return series, bankroll
}
