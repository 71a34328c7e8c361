// Package store reads persisted signals from Postgres. Signals are written
// and settled by the upstream model pipeline; this side only queries.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/XavierBriggs/splashtrack/pkg/models"
)

// SignalStore defines the read surface over persisted signals
type SignalStore interface {
	Ping(ctx context.Context) error
	SignalsForDate(ctx context.Context, date string) ([]models.Signal, error)
	SettledSignals(ctx context.Context) ([]models.Signal, error)
	RecentResults(ctx context.Context, limit int) ([]models.Signal, error)
	PerformanceStats(ctx context.Context) (*models.PerformanceStats, error)
	DailyStats(ctx context.Context) ([]models.DailyStats, error)
	TeamForPlayer(ctx context.Context, playerName, date string) (string, error)
	Close() error
}

// Postgres implements SignalStore over lib/pq
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection pool against the signals database
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Postgres{db: db}, nil
}

// Ping checks database connectivity
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the connection pool
func (p *Postgres) Close() error {
	return p.db.Close()
}

const signalColumns = `
	signal_id, to_char(signal_date, 'YYYY-MM-DD'), player_name, player_id,
	line, side, odds, edge_pct, kelly_stake, bookmaker, team, outcome,
	profit, created_at
`

// SignalsForDate returns all signals for one exchange-local day, strongest
// edge first
func (p *Postgres) SignalsForDate(ctx context.Context, date string) ([]models.Signal, error) {
	query := `
		SELECT ` + signalColumns + `
		FROM paper_trades
		WHERE signal_date = $1
		ORDER BY edge_pct DESC
	`

	rows, err := p.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query signals for date: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// SettledSignals returns every settled trade in chronological order, the
// exact input shape the bankroll simulator expects
func (p *Postgres) SettledSignals(ctx context.Context) ([]models.Signal, error) {
	query := `
		SELECT ` + signalColumns + `
		FROM paper_trades
		WHERE outcome IS NOT NULL
		ORDER BY signal_date ASC, created_at ASC
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query settled signals: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// RecentResults returns the latest settled trades, newest first
func (p *Postgres) RecentResults(ctx context.Context, limit int) ([]models.Signal, error) {
	query := `
		SELECT ` + signalColumns + `
		FROM paper_trades
		WHERE outcome IS NOT NULL
		ORDER BY signal_date DESC, created_at DESC
		LIMIT $1
	`

	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent results: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// PerformanceStats aggregates settled outcomes and the pending count
func (p *Postgres) PerformanceStats(ctx context.Context) (*models.PerformanceStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE outcome = 'win'),
			COUNT(*) FILTER (WHERE outcome = 'loss'),
			COUNT(*) FILTER (WHERE outcome IS NOT NULL),
			COUNT(*) FILTER (WHERE outcome IS NULL),
			COALESCE(SUM(profit) FILTER (WHERE outcome IS NOT NULL), 0)
		FROM paper_trades
	`

	stats := &models.PerformanceStats{}
	err := p.db.QueryRowContext(ctx, query).Scan(
		&stats.Wins,
		&stats.Losses,
		&stats.TotalBets,
		&stats.PendingBets,
		&stats.TotalPnL,
	)
	if err != nil {
		return nil, fmt.Errorf("query performance stats: %w", err)
	}

	if decided := stats.Wins + stats.Losses; decided > 0 {
		stats.WinRate = float64(stats.Wins) / float64(decided)
	}

	return stats, nil
}

// DailyStats returns per-day settled aggregates with a running cumulative
// profit, oldest day first
func (p *Postgres) DailyStats(ctx context.Context) ([]models.DailyStats, error) {
	query := `
		SELECT
			to_char(signal_date, 'YYYY-MM-DD'),
			COUNT(*),
			COUNT(*) FILTER (WHERE outcome = 'win'),
			COUNT(*) FILTER (WHERE outcome = 'loss'),
			COALESCE(SUM(profit), 0)
		FROM paper_trades
		WHERE outcome IS NOT NULL
		GROUP BY signal_date
		ORDER BY signal_date ASC
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	defer rows.Close()

	var daily []models.DailyStats
	cumulative := 0.0
	for rows.Next() {
		var d models.DailyStats
		if err := rows.Scan(&d.Date, &d.Bets, &d.Wins, &d.Losses, &d.Profit); err != nil {
			return nil, fmt.Errorf("scan daily stats: %w", err)
		}
		cumulative += d.Profit
		d.CumulativeProfit = cumulative
		daily = append(daily, d)
	}

	return daily, rows.Err()
}

// TeamForPlayer looks up a player's team from the historical roster table,
// the secondary backfill source when the live feed has no match. Returns
// an empty string when unknown.
func (p *Postgres) TeamForPlayer(ctx context.Context, playerName, date string) (string, error) {
	query := `
		SELECT team
		FROM player_team_history
		WHERE player_name = $1 AND roster_date <= $2
		ORDER BY roster_date DESC
		LIMIT 1
	`

	var team string
	err := p.db.QueryRowContext(ctx, query, playerName, date).Scan(&team)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query team history: %w", err)
	}

	return team, nil
}

func scanSignals(rows *sql.Rows) ([]models.Signal, error) {
	var signals []models.Signal
	for rows.Next() {
		var s models.Signal
		var team sql.NullString
		var outcome sql.NullString
		var profit sql.NullFloat64

		err := rows.Scan(
			&s.SignalID, &s.SignalDate, &s.PlayerName, &s.PlayerID,
			&s.Line, &s.Side, &s.Odds, &s.EdgePct, &s.KellyStake,
			&s.Bookmaker, &team, &outcome, &profit, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}

		if team.Valid {
			s.Team = &team.String
		}
		if outcome.Valid {
			o := models.Outcome(outcome.String)
			s.Outcome = &o
		}
		if profit.Valid {
			s.Profit = &profit.Float64
		}

		signals = append(signals, s)
	}

	return signals, rows.Err()
}
