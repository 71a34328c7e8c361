package reconcile_test

import (
	"testing"

	"github.com/XavierBriggs/splashtrack/internal/reconcile"
	"github.com/XavierBriggs/splashtrack/pkg/models"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name       string
		gameStatus models.GameStatus
		side       models.Side
		line       float64
		liveValue  int
		want       models.SignalStatus
	}{
		{"Scheduled game", models.StatusScheduled, models.SideOver, 2.5, 0, models.SignalScheduled},
		{"Scheduled ignores stat", models.StatusScheduled, models.SideUnder, 2.5, 7, models.SignalScheduled},
		{"Live game tracks", models.StatusLive, models.SideOver, 2.5, 1, models.SignalTracking},
		{"Live under tracks", models.StatusLive, models.SideUnder, 3.5, 4, models.SignalTracking},
		{"Final over hit", models.StatusFinal, models.SideOver, 2.5, 3, models.SignalHit},
		{"Final over miss", models.StatusFinal, models.SideOver, 2.5, 2, models.SignalMiss},
		{"Final over push", models.StatusFinal, models.SideOver, 3, 3, models.SignalPush},
		{"Final under hit", models.StatusFinal, models.SideUnder, 2.5, 2, models.SignalHit},
		{"Final under miss", models.StatusFinal, models.SideUnder, 2.5, 3, models.SignalMiss},
		{"Final under push", models.StatusFinal, models.SideUnder, 3, 3, models.SignalPush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcile.DeriveStatus(tt.gameStatus, tt.side, tt.line, tt.liveValue)
			if got != tt.want {
				t.Errorf("DeriveStatus(%s, %s, %v, %d) = %s, want %s",
					tt.gameStatus, tt.side, tt.line, tt.liveValue, got, tt.want)
			}
		})
	}
}
