package scorefeed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/XavierBriggs/splashtrack/pkg/models"
)

// ErrNoData means the upstream is down and nothing is cached anywhere.
// Handlers turn this into an empty 502 payload; it never reaches the
// reconciliation core.
var ErrNoData = errors.New("scorefeed: upstream unavailable and no cached snapshot")

// Fetcher is the upstream feed surface the service needs
type Fetcher interface {
	FetchScoreboard(ctx context.Context) (*rawScoreboard, error)
	FetchBoxScore(ctx context.Context, gameID string) (*rawBoxScore, error)
}

// LastGoodStore persists snapshots beyond process lifetime
type LastGoodStore interface {
	Write(ctx context.Context, snapshot models.ScoreboardSnapshot) error
	Read(ctx context.Context) (models.ScoreboardSnapshot, error)
}

// Service is the score feed proxy: fetch, shape, cache, degrade gracefully
type Service struct {
	fetcher Fetcher
	cache   *SnapshotCache
	store   LastGoodStore // optional
	now     func() time.Time
}

// NewService creates the proxy service. store may be nil; a nil clock uses
// wall time.
func NewService(fetcher Fetcher, cache *SnapshotCache, store LastGoodStore, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{fetcher: fetcher, cache: cache, store: store, now: now}
}

// Snapshot returns the current scoreboard. Freshness order: in-memory cache
// inside its TTL, then a live fetch, then the stale cache regardless of
// age, then the persisted last-good snapshot. Only when every layer is
// empty does it return ErrNoData.
func (s *Service) Snapshot(ctx context.Context) (models.ScoreboardSnapshot, error) {
	if snapshot, ok := s.cache.Fresh(); ok {
		return snapshot, nil
	}

	snapshot, err := s.refresh(ctx)
	if err == nil {
		return snapshot, nil
	}
	log.Printf("[ScoreFeed] upstream fetch failed, falling back to cache: %v", err)

	if snapshot, ok := s.cache.Any(); ok {
		return snapshot, nil
	}

	if s.store != nil {
		if snapshot, storeErr := s.store.Read(ctx); storeErr == nil {
			s.cache.Put(snapshot)
			return snapshot, nil
		}
	}

	return models.ScoreboardSnapshot{}, ErrNoData
}

// refresh fetches the scoreboard and, for every non-scheduled game, its box
// score. A single failed box score degrades to an empty player list rather
// than failing the whole snapshot.
func (s *Service) refresh(ctx context.Context) (models.ScoreboardSnapshot, error) {
	scoreboard, err := s.fetcher.FetchScoreboard(ctx)
	if err != nil {
		return models.ScoreboardSnapshot{}, fmt.Errorf("fetching scoreboard: %w", err)
	}

	games := make([]models.LiveGame, 0, len(scoreboard.Scoreboard.Games))
	for _, raw := range scoreboard.Scoreboard.Games {
		var box *rawBoxScore
		if MapGameStatus(raw.GameStatus) != models.StatusScheduled {
			box, err = s.fetcher.FetchBoxScore(ctx, raw.GameID)
			if err != nil {
				log.Printf("[ScoreFeed] box score fetch failed for game %s: %v", raw.GameID, err)
				box = nil
			}
		}
		games = append(games, buildGame(raw, box))
	}

	snapshot := models.ScoreboardSnapshot{
		Games:     games,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}

	s.cache.Put(snapshot)
	if s.store != nil {
		if err := s.store.Write(ctx, snapshot); err != nil {
			log.Printf("[ScoreFeed] persisting last-good snapshot failed: %v", err)
		}
	}

	return snapshot, nil
}
