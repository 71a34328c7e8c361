package scorefeed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/XavierBriggs/splashtrack/pkg/models"
)

type stubFetcher struct {
	scoreboard *rawScoreboard
	boxScores  map[string]*rawBoxScore
	err        error
	calls      int
}

func (f *stubFetcher) FetchScoreboard(ctx context.Context) (*rawScoreboard, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.scoreboard, nil
}

func (f *stubFetcher) FetchBoxScore(ctx context.Context, gameID string) (*rawBoxScore, error) {
	if box, ok := f.boxScores[gameID]; ok {
		return box, nil
	}
	return nil, errors.New("no box score")
}

func scoreboardWith(games ...rawGame) *rawScoreboard {
	sb := &rawScoreboard{}
	sb.Scoreboard.Games = games
	return sb
}

func TestSnapshotServesFreshCacheWithoutFetching(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	now := func() time.Time { return clock }
	cache := NewSnapshotCache(10*time.Second, now)
	fetcher := &stubFetcher{scoreboard: scoreboardWith(rawGame{GameID: "g1", GameStatus: 1})}
	svc := NewService(fetcher, cache, nil, now)

	first, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", fetcher.calls)
	}

	second, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fresh cache should prevent a second upstream call, got %d", fetcher.calls)
	}
	if len(first.Games) != len(second.Games) {
		t.Error("cached snapshot should match the fetched one")
	}
}

func TestSnapshotRefetchesAfterTTL(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	now := func() time.Time { return clock }
	cache := NewSnapshotCache(10*time.Second, now)
	fetcher := &stubFetcher{scoreboard: scoreboardWith(rawGame{GameID: "g1", GameStatus: 1})}
	svc := NewService(fetcher, cache, nil, now)

	if _, err := svc.Snapshot(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock = clock.Add(11 * time.Second)
	if _, err := svc.Snapshot(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("expired cache should refetch, got %d calls", fetcher.calls)
	}
}

func TestSnapshotServesStaleOnUpstreamFailure(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	now := func() time.Time { return clock }
	cache := NewSnapshotCache(10*time.Second, now)
	fetcher := &stubFetcher{scoreboard: scoreboardWith(rawGame{GameID: "g1", GameStatus: 1})}
	svc := NewService(fetcher, cache, nil, now)

	if _, err := svc.Snapshot(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Well past the TTL, upstream now down: the stale snapshot still serves.
	clock = clock.Add(5 * time.Minute)
	fetcher.err = errors.New("upstream down")

	snapshot, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("stale cache should mask the upstream failure, got %v", err)
	}
	if len(snapshot.Games) != 1 || snapshot.Games[0].GameID != "g1" {
		t.Errorf("expected the stale snapshot, got %+v", snapshot)
	}
}

func TestSnapshotErrNoDataWhenNothingCached(t *testing.T) {
	now := func() time.Time { return time.Unix(1700000000, 0) }
	cache := NewSnapshotCache(10*time.Second, now)
	fetcher := &stubFetcher{err: errors.New("upstream down")}
	svc := NewService(fetcher, cache, nil, now)

	_, err := svc.Snapshot(context.Background())
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestSnapshotSkipsBoxScoreForScheduledGames(t *testing.T) {
	now := func() time.Time { return time.Unix(1700000000, 0) }
	cache := NewSnapshotCache(10*time.Second, now)

	box := &rawBoxScore{}
	box.Game.HomeTeam = rawBoxTeam{
		TeamTricode: "BOS",
		Players:     []rawPlayer{{PersonID: 1, FirstName: "Some", FamilyName: "Player"}},
	}

	fetcher := &stubFetcher{
		scoreboard: scoreboardWith(
			rawGame{GameID: "live", GameStatus: 2},
			rawGame{GameID: "sched", GameStatus: 1},
		),
		boxScores: map[string]*rawBoxScore{"live": box},
	}
	svc := NewService(fetcher, cache, nil, now)

	snapshot, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snapshot.Games[0].Players) != 1 {
		t.Error("live game should carry box score players")
	}
	if len(snapshot.Games[1].Players) != 0 {
		t.Error("scheduled game should not fetch a box score")
	}
}

func TestSnapshotToleratesBoxScoreFailure(t *testing.T) {
	now := func() time.Time { return time.Unix(1700000000, 0) }
	cache := NewSnapshotCache(10*time.Second, now)
	fetcher := &stubFetcher{
		scoreboard: scoreboardWith(rawGame{GameID: "live", GameStatus: 2}),
		// no box scores registered: every box fetch fails
	}
	svc := NewService(fetcher, cache, nil, now)

	snapshot, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("a failed box score must not fail the snapshot: %v", err)
	}
	if len(snapshot.Games) != 1 || len(snapshot.Games[0].Players) != 0 {
		t.Errorf("expected the game with empty players, got %+v", snapshot.Games)
	}
}

type memoryStore struct {
	snapshot *models.ScoreboardSnapshot
}

func (m *memoryStore) Write(ctx context.Context, s models.ScoreboardSnapshot) error {
	m.snapshot = &s
	return nil
}

func (m *memoryStore) Read(ctx context.Context) (models.ScoreboardSnapshot, error) {
	if m.snapshot == nil {
		return models.ScoreboardSnapshot{}, errors.New("empty")
	}
	return *m.snapshot, nil
}

func TestSnapshotFallsBackToLastGoodStore(t *testing.T) {
	now := func() time.Time { return time.Unix(1700000000, 0) }
	store := &memoryStore{snapshot: &models.ScoreboardSnapshot{
		Games:     []models.LiveGame{{GameID: "persisted"}},
		Timestamp: "2026-02-20T01:00:00Z",
	}}
	cache := NewSnapshotCache(10*time.Second, now)
	fetcher := &stubFetcher{err: errors.New("upstream down")}
	svc := NewService(fetcher, cache, store, now)

	snapshot, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("persisted snapshot should mask a cold-start failure: %v", err)
	}
	if len(snapshot.Games) != 1 || snapshot.Games[0].GameID != "persisted" {
		t.Errorf("expected the persisted snapshot, got %+v", snapshot)
	}
}
