package models

import "time"

// Side is which side of the line a signal bets
type Side string

const (
	SideOver  Side = "over"
	SideUnder Side = "under"
)

// Outcome is the settled result of a signal
type Outcome string

const (
	OutcomeWin    Outcome = "win"
	OutcomeLoss   Outcome = "loss"
	OutcomePush   Outcome = "push"
	OutcomeVoided Outcome = "voided"
)

// GameStatus represents the current state of a game
type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusLive      GameStatus = "live"
	StatusFinal     GameStatus = "final"
)

// SignalStatus is the live tracking state of a signal
type SignalStatus string

const (
	SignalScheduled SignalStatus = "scheduled"
	SignalTracking  SignalStatus = "tracking"
	SignalHit       SignalStatus = "hit"
	SignalMiss      SignalStatus = "miss"
	SignalPush      SignalStatus = "push"
)

// Signal is a persisted model-generated prop bet recommendation.
// Outcome and Profit are both nil while the bet is pending; a settled
// signal carries both, except voided bets which may carry a nil profit.
type Signal struct {
	SignalID   string    `json:"signal_id"`
	SignalDate string    `json:"signal_date"` // "2006-01-02", exchange-local day
	PlayerName string    `json:"player_name"`
	PlayerID   string    `json:"player_id"`
	Line       float64   `json:"line"`
	Side       Side      `json:"side"`
	Odds       int       `json:"odds"` // American format, never 0
	EdgePct    float64   `json:"edge_pct"`
	KellyStake float64   `json:"kelly_stake"` // fraction of bankroll, pre-multiplier
	Bookmaker  string    `json:"bookmaker"`
	Team       *string   `json:"team"`
	Outcome    *Outcome  `json:"outcome"`
	Profit     *float64  `json:"profit"` // realized return as fraction of reference stake
	CreatedAt  time.Time `json:"created_at"`
}

// IsPending reports whether the signal has not settled yet
func (s *Signal) IsPending() bool {
	return s.Outcome == nil
}

// TeamScore is one side of a live game's scoreboard
type TeamScore struct {
	Tricode string `json:"tricode"`
	Score   int    `json:"score"`
}

// LivePlayer is a player's live box score line.
// ThreePointersMade is cumulative and never decreases within a game.
type LivePlayer struct {
	PlayerID          int    `json:"playerId"`
	PlayerName        string `json:"playerName"`
	TeamTricode       string `json:"teamTricode"`
	ThreePointersMade int    `json:"threePointersMade"`
	IsOnCourt         bool   `json:"isOnCourt"`
	Minutes           string `json:"minutes"` // "34:12"
}

// LiveGame is a full game snapshot from the score feed.
// Rebuilt wholesale on every poll; never mutated in place.
type LiveGame struct {
	GameID       string       `json:"gameId"`
	HomeTeam     TeamScore    `json:"homeTeam"`
	AwayTeam     TeamScore    `json:"awayTeam"`
	Period       int          `json:"period"`
	Clock        string       `json:"clock"` // "5:42", empty pre-tip
	Status       GameStatus   `json:"status"`
	StartTimeUTC string       `json:"startTimeUTC"`
	Players      []LivePlayer `json:"players"`
}

// ScoreboardSnapshot is the score feed proxy's response payload
type ScoreboardSnapshot struct {
	Games     []LiveGame `json:"games"`
	Timestamp string     `json:"timestamp"` // ISO 8601
}

// EnrichedSignal is a Signal joined against live game data.
// Live fields are nil when the player has no live feed match.
type EnrichedSignal struct {
	Signal
	LiveThreePointersMade *int         `json:"liveThreePointersMade"`
	IsOnCourt             *bool        `json:"isOnCourt"`
	MinutesPlayed         *string      `json:"minutesPlayed"`
	SignalStatus          SignalStatus `json:"signalStatus"`
}

// GameWithSignals pairs a live game with its matched signals
type GameWithSignals struct {
	Game    LiveGame         `json:"game"`
	Signals []EnrichedSignal `json:"signals"`
}

// PerformanceStats summarizes settled and pending signals
type PerformanceStats struct {
	TotalPnL    float64 `json:"total_pnl"`
	WinRate     float64 `json:"win_rate"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	TotalBets   int     `json:"total_bets"`
	PendingBets int     `json:"pending_bets"`
}

// DailyStats aggregates settled signals for one calendar day
type DailyStats struct {
	Date             string  `json:"date"`
	Bets             int     `json:"bets"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	Profit           float64 `json:"profit"`
	CumulativeProfit float64 `json:"cumulative_profit"`
}
