package scorefeed

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/XavierBriggs/splashtrack/pkg/models"
)

var durationPattern = regexp.MustCompile(`PT(\d+)M([\d.]+)S`)

// ParseGameClock converts the CDN's ISO 8601 duration to a display clock.
// "PT05M42.00S" -> "5:42". Seconds are floored, not rounded. Empty input
// stays empty and anything unrecognized passes through untouched.
func ParseGameClock(clock string) string {
	if clock == "" {
		return ""
	}
	return formatDuration(clock, clock)
}

// ParsePlayerMinutes converts played time to a display string.
// "PT34M12.00S" -> "34:12"; empty input means the player has not played.
func ParsePlayerMinutes(minutes string) string {
	if minutes == "" {
		return "0:00"
	}
	return formatDuration(minutes, minutes)
}

func formatDuration(raw, fallback string) string {
	match := durationPattern.FindStringSubmatch(raw)
	if match == nil {
		return fallback
	}
	mins, _ := strconv.Atoi(match[1])
	secs, _ := strconv.ParseFloat(match[2], 64)
	return fmt.Sprintf("%d:%02d", mins, int(secs))
}

// MapGameStatus converts the CDN's numeric status code.
// 1 scheduled, 2 live, anything else final.
func MapGameStatus(code int) models.GameStatus {
	switch code {
	case 1:
		return models.StatusScheduled
	case 2:
		return models.StatusLive
	default:
		return models.StatusFinal
	}
}

// buildGame shapes one scoreboard entry (plus its box score, if fetched)
// into a LiveGame snapshot
func buildGame(g rawGame, box *rawBoxScore) models.LiveGame {
	game := models.LiveGame{
		GameID:       g.GameID,
		HomeTeam:     models.TeamScore{Tricode: g.HomeTeam.TeamTricode, Score: g.HomeTeam.Score},
		AwayTeam:     models.TeamScore{Tricode: g.AwayTeam.TeamTricode, Score: g.AwayTeam.Score},
		Period:       g.Period,
		Clock:        ParseGameClock(g.GameClock),
		Status:       MapGameStatus(g.GameStatus),
		StartTimeUTC: g.GameTimeUTC,
	}

	if box != nil {
		game.Players = append(
			extractPlayers(box.Game.HomeTeam),
			extractPlayers(box.Game.AwayTeam)...,
		)
	}

	return game
}

func extractPlayers(team rawBoxTeam) []models.LivePlayer {
	players := make([]models.LivePlayer, 0, len(team.Players))
	for _, p := range team.Players {
		players = append(players, models.LivePlayer{
			PlayerID:          p.PersonID,
			PlayerName:        p.FirstName + " " + p.FamilyName,
			TeamTricode:       team.TeamTricode,
			ThreePointersMade: p.Statistics.ThreePointersMade,
			IsOnCourt:         p.OnCourt == "1",
			Minutes:           ParsePlayerMinutes(p.Statistics.Minutes),
		})
	}
	return players
}
