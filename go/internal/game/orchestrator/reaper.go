package orchestrator

import (
	"context"

	"github.com/mcdev12/quizroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// RunReaper removes finished rooms once they are older than the configured
// retention. It returns immediately when retention is disabled.
func (o *Orchestrator) RunReaper(ctx context.Context) error {
	if o.settings.RoomRetention <= 0 {
		log.Info().Msg("room reaper disabled")
		return nil
	}

	ticker := o.clock.NewTicker(o.settings.ReaperInterval)
	defer ticker.Stop()

	log.Info().
		Dur("retention", o.settings.RoomRetention).
		Dur("interval", o.settings.ReaperInterval).
		Msg("room reaper started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("room reaper shutting down")
			return nil
		case <-ticker.Chan():
			if n := o.ReapRooms(); n > 0 {
				log.Info().Int("removed", n).Msg("reaped finished rooms")
			}
		}
	}
}

// ReapRooms removes every finished room past retention and returns how many
// were removed. A wager room that ended without a winner still holds a pot and
// is never reaped.
func (o *Orchestrator) ReapRooms() int {
	cutoff := o.clock.Now().Add(-o.settings.RoomRetention)
	removed := 0
	for _, room := range o.rooms.Rooms() {
		snap := room.Snapshot()

		finishedAt := snap.ResolvedAt
		if finishedAt == nil && snap.Mode == models.RoomModeQuiz && snap.Status == models.RoomStatusEnded {
			finishedAt = snap.EndedAt
		}
		if finishedAt == nil || finishedAt.After(cutoff) {
			continue
		}

		if err := o.RemoveRoom(snap.ID); err != nil {
			log.Debug().Err(err).Str("room_id", snap.ID).Msg("room already removed")
			continue
		}
		removed++
	}
	return removed
}
