// Package reconcile joins persisted signals against live game snapshots.
// Every pass is pure: fresh inputs in, fresh grouping out, so it is safe to
// run on every poll tick.
package reconcile

import (
	"sort"

	"github.com/XavierBriggs/splashtrack/internal/names"
	"github.com/XavierBriggs/splashtrack/pkg/models"
)

// Result is the output of one reconciliation pass. Signals whose player has
// no live feed entry land in UnmatchedSignals with scheduled status.
type Result struct {
	GamesWithSignals []models.GameWithSignals `json:"gamesWithSignals"`
	UnmatchedSignals []models.EnrichedSignal  `json:"unmatchedSignals"`
}

type playerMatch struct {
	game   models.LiveGame
	player models.LivePlayer
}

// Reconcile matches signals to live games by normalized player name and
// groups them per game. Duplicate normalized names across games resolve
// last write wins; with one active game per player per day that is the
// known collision limitation, not a bug to fix here.
func Reconcile(signals []models.Signal, games []models.LiveGame) Result {
	if len(signals) == 0 {
		return Result{}
	}

	lookup := make(map[string]playerMatch)
	for _, game := range games {
		for _, player := range game.Players {
			lookup[names.Normalize(player.PlayerName)] = playerMatch{game: game, player: player}
		}
	}

	type bucket struct {
		game    models.LiveGame
		signals []models.EnrichedSignal
	}

	var buckets []bucket
	bucketIdx := make(map[string]int)
	var unmatched []models.EnrichedSignal

	for _, signal := range signals {
		match, ok := lookup[names.Normalize(signal.PlayerName)]
		if !ok {
			// No live feed entry — still surface the signal
			unmatched = append(unmatched, models.EnrichedSignal{
				Signal:       signal,
				SignalStatus: models.SignalScheduled,
			})
			continue
		}

		enriched := enrich(signal, match)

		i, ok := bucketIdx[match.game.GameID]
		if !ok {
			i = len(buckets)
			bucketIdx[match.game.GameID] = i
			buckets = append(buckets, bucket{game: match.game})
		}
		buckets[i].signals = append(buckets[i].signals, enriched)
	}

	// Live games first, then scheduled, then final; encounter order breaks ties
	statusOrder := map[models.GameStatus]int{
		models.StatusLive:      0,
		models.StatusScheduled: 1,
		models.StatusFinal:     2,
	}
	sort.SliceStable(buckets, func(a, b int) bool {
		return statusOrder[buckets[a].game.Status] < statusOrder[buckets[b].game.Status]
	})

	result := Result{UnmatchedSignals: unmatched}
	for _, b := range buckets {
		result.GamesWithSignals = append(result.GamesWithSignals, models.GameWithSignals{
			Game:    b.game,
			Signals: b.signals,
		})
	}

	return result
}

func enrich(signal models.Signal, match playerMatch) models.EnrichedSignal {
	threes := match.player.ThreePointersMade
	onCourt := match.player.IsOnCourt
	minutes := match.player.Minutes

	enriched := models.EnrichedSignal{
		Signal:                signal,
		LiveThreePointersMade: &threes,
		IsOnCourt:             &onCourt,
		MinutesPlayed:         &minutes,
		SignalStatus:          DeriveStatus(match.game.Status, signal.Side, signal.Line, threes),
	}

	// Backfill team from the live feed when the signal has none
	if enriched.Team == nil || *enriched.Team == "" {
		team := match.player.TeamTricode
		enriched.Team = &team
	}

	return enriched
}
