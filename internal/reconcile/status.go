package reconcile

import "github.com/XavierBriggs/splashtrack/pkg/models"

// DeriveStatus maps a game's state and a player's live 3PM count onto the
// signal's tracking status. A final game resolves against the line per side;
// ties push. Resolution never reverses: a final game stays final upstream,
// and a feed that skips the live phase still resolves through the final
// branch here.
func DeriveStatus(gameStatus models.GameStatus, side models.Side, line float64, liveValue int) models.SignalStatus {
	switch gameStatus {
	case models.StatusScheduled:
		return models.SignalScheduled
	case models.StatusLive:
		return models.SignalTracking
	}

	// Game is final — determine outcome
	v := float64(liveValue)
	if side == models.SideOver {
		if v > line {
			return models.SignalHit
		}
		if v < line {
			return models.SignalMiss
		}
		return models.SignalPush
	}

	// under
	if v < line {
		return models.SignalHit
	}
	if v > line {
		return models.SignalMiss
	}
	return models.SignalPush
}
