// Package poller drives the live reconciliation loop during game windows.
package poller

import (
	"context"
	"log"
	"time"

	"github.com/XavierBriggs/splashtrack/internal/handlers"
	"github.com/XavierBriggs/splashtrack/internal/hub"
	"github.com/XavierBriggs/splashtrack/internal/reconcile"
	"github.com/XavierBriggs/splashtrack/internal/store"
	"github.com/XavierBriggs/splashtrack/internal/transitions"
	"github.com/XavierBriggs/splashtrack/pkg/models"
)

// Broadcaster is the slice of the hub the poller needs
type Broadcaster interface {
	Broadcast(msgType string, payload interface{})
}

// Poller re-fetches the scoreboard on a fixed interval, reconciles the
// day's signals against it and pushes updates to websocket clients
type Poller struct {
	scores   handlers.ScoreProvider
	store    store.SignalStore
	detector *transitions.Detector
	hub      Broadcaster
	interval time.Duration
	now      func() time.Time
}

// New creates a poller. A nil clock uses wall time.
func New(scores handlers.ScoreProvider, st store.SignalStore, detector *transitions.Detector, b Broadcaster, interval time.Duration, now func() time.Time) *Poller {
	if now == nil {
		now = time.Now
	}
	return &Poller{
		scores:   scores,
		store:    st,
		detector: detector,
		hub:      b,
		interval: interval,
		now:      now,
	}
}

// Run polls until the context is cancelled or the slate is over (every game
// final, or no games at all)
func (p *Poller) Run(ctx context.Context) {
	log.Printf("[Poller] started, interval %s", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if done := p.tick(ctx); done {
			log.Println("[Poller] slate complete, stopping")
			return
		}

		select {
		case <-ctx.Done():
			log.Println("[Poller] stopped")
			return
		case <-ticker.C:
		}
	}
}

// tick runs one reconciliation pass. Returns true once polling is pointless:
// no games today, or every game final. A failed fetch is not a stop
// condition and must not advance transition memory.
func (p *Poller) tick(ctx context.Context) bool {
	snapshot, err := p.scores.Snapshot(ctx)
	if err != nil {
		log.Printf("[Poller] snapshot unavailable, skipping pass: %v", err)
		return false
	}

	if len(snapshot.Games) == 0 {
		return true
	}

	date := p.now().UTC().Format("2006-01-02")
	signals, err := p.store.SignalsForDate(ctx, date)
	if err != nil {
		log.Printf("[Poller] loading signals failed, skipping pass: %v", err)
		return false
	}

	result := reconcile.Reconcile(signals, snapshot.Games)

	enriched := make([]models.EnrichedSignal, 0, len(signals))
	for _, g := range result.GamesWithSignals {
		enriched = append(enriched, g.Signals...)
	}
	enriched = append(enriched, result.UnmatchedSignals...)

	events := p.detector.Observe(enriched)

	p.hub.Broadcast(hub.MessageTypeSnapshot, handlers.TodayResponse{
		Games:            result.GamesWithSignals,
		UnmatchedSignals: result.UnmatchedSignals,
		Timestamp:        snapshot.Timestamp,
	})
	if len(events.Flashes) > 0 || len(events.Ticks) > 0 {
		p.hub.Broadcast(hub.MessageTypeTransitions, events)
	}

	return allFinal(snapshot.Games)
}

func allFinal(games []models.LiveGame) bool {
	for _, g := range games {
		if g.Status != models.StatusFinal {
			return false
		}
	}
	return true
}
