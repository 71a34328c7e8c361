// Package transitions diffs successive reconciled-signal snapshots to
// detect resolution flashes and stat ticks for the dashboard. The detector
// keeps two memories per signal id (last status, last live 3PM) and a
// timestamped event list pruned lazily against an injected clock, so it
// never depends on ambient timers.
package transitions

import (
	"sort"
	"time"

	"github.com/XavierBriggs/splashtrack/pkg/models"
)

// FlashKind is the resolution a flash announces
type FlashKind string

const (
	FlashHit  FlashKind = "hit"
	FlashMiss FlashKind = "miss"
)

// Display durations. Consumers clear their own animations; the detector
// just stops reporting an event once its window passes.
const (
	FlashDuration = 1500 * time.Millisecond
	TickDuration  = 400 * time.Millisecond
)

// Events is what one observation pass emitted
type Events struct {
	Flashes map[string]FlashKind `json:"flashes"`
	Ticks   []string             `json:"ticks"`
}

type flashRecord struct {
	kind    FlashKind
	expires time.Time
}

// Detector tracks status and stat transitions across polls
type Detector struct {
	now        func() time.Time
	prevStatus map[string]models.SignalStatus
	prevThrees map[string]int
	flashes    map[string]flashRecord
	ticks      map[string]time.Time
}

// New creates a detector. A nil clock uses wall time.
func New(now func() time.Time) *Detector {
	if now == nil {
		now = time.Now
	}
	return &Detector{
		now:        now,
		prevStatus: make(map[string]models.SignalStatus),
		prevThrees: make(map[string]int),
		flashes:    make(map[string]flashRecord),
		ticks:      make(map[string]time.Time),
	}
}

// Observe advances the detector's memory from one completed reconciliation
// pass and returns the events that pass produced. Callers must only feed it
// full, successful snapshots; a failed poll should simply not be observed.
func (d *Detector) Observe(signals []models.EnrichedSignal) Events {
	now := d.now()
	d.prune(now)

	events := Events{Flashes: make(map[string]FlashKind)}

	for _, signal := range signals {
		id := signal.SignalID

		if prev, seen := d.prevStatus[id]; seen && prev == models.SignalTracking {
			switch signal.SignalStatus {
			case models.SignalHit:
				events.Flashes[id] = FlashHit
				d.flashes[id] = flashRecord{kind: FlashHit, expires: now.Add(FlashDuration)}
			case models.SignalMiss:
				events.Flashes[id] = FlashMiss
				d.flashes[id] = flashRecord{kind: FlashMiss, expires: now.Add(FlashDuration)}
			}
		}

		if signal.LiveThreePointersMade != nil {
			threes := *signal.LiveThreePointersMade
			if prev, seen := d.prevThrees[id]; seen && threes > prev {
				events.Ticks = append(events.Ticks, id)
				d.ticks[id] = now.Add(TickDuration)
			}
			d.prevThrees[id] = threes
		}

		d.prevStatus[id] = signal.SignalStatus
	}

	sort.Strings(events.Ticks)
	return events
}

// ActiveFlashes returns the flashes still inside their display window
func (d *Detector) ActiveFlashes() map[string]FlashKind {
	d.prune(d.now())
	active := make(map[string]FlashKind, len(d.flashes))
	for id, rec := range d.flashes {
		active[id] = rec.kind
	}
	return active
}

// ActiveTicks returns the signal ids whose tick window has not passed
func (d *Detector) ActiveTicks() []string {
	d.prune(d.now())
	ids := make([]string, 0, len(d.ticks))
	for id := range d.ticks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (d *Detector) prune(now time.Time) {
	for id, rec := range d.flashes {
		if !now.Before(rec.expires) {
			delete(d.flashes, id)
		}
	}
	for id, expires := range d.ticks {
		if !now.Before(expires) {
			delete(d.ticks, id)
		}
	}
}
