package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/quizroom/go/internal/rooms"
	"github.com/rs/zerolog/log"
)

// roundTimer is the handle of one started timer. It only carries the room id:
// every firing re-resolves the room from the registry, so a removed room
// simply ends the timer.
type roundTimer struct {
	roomID string
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// Cancel stops the timer. Safe to call more than once.
func (t *roundTimer) Cancel() {
	t.once.Do(t.cancel)
}

// replaceTimer installs a new timer for the room, cancelling any existing one
// first. Caller must hold the room lock, which makes the swap atomic with
// respect to ticks and client events.
func (o *Orchestrator) replaceTimer(room *rooms.Room) *roundTimer {
	ctx, cancel := context.WithCancel(o.ctx)
	t := &roundTimer{roomID: room.ID(), ctx: ctx, cancel: cancel}

	if room.Timer() != nil {
		log.Debug().Str("room_id", room.ID()).Msg("replaced existing timer")
	}
	room.SetTimer(t)

	o.activeTimersMu.Lock()
	o.activeTimers[t.roomID] = t
	o.activeTimersMu.Unlock()

	return t
}

// cancelTimer cancels and clears the room's timer. Caller must hold the room lock.
func (o *Orchestrator) cancelTimer(room *rooms.Room) {
	if room.Timer() == nil {
		return
	}
	room.SetTimer(nil)

	o.activeTimersMu.Lock()
	delete(o.activeTimers, room.ID())
	o.activeTimersMu.Unlock()

	log.Debug().Str("room_id", room.ID()).Msg("cancelled existing timer")
}

// removeTimer forgets t once its goroutine exits, unless it was already replaced
func (o *Orchestrator) removeTimer(t *roundTimer) {
	o.activeTimersMu.Lock()
	defer o.activeTimersMu.Unlock()
	if o.activeTimers[t.roomID] == t {
		delete(o.activeTimers, t.roomID)
	}
}

// ActiveTimers returns how many rooms currently have a live timer
func (o *Orchestrator) ActiveTimers() int {
	o.activeTimersMu.Lock()
	defer o.activeTimersMu.Unlock()
	return len(o.activeTimers)
}

// acquire re-resolves the timer's room and locks it. It returns nil when the
// room is gone, t was cancelled or t no longer owns the room's timer. A tick
// racing a cancellation can still be selected, so the checks run under the
// room lock.
func (o *Orchestrator) acquire(t *roundTimer) *rooms.Room {
	room, err := o.rooms.Get(t.roomID)
	if err != nil {
		log.Debug().Err(err).Str("room_id", t.roomID).Msg("timer room gone - stopping")
		return nil
	}
	room.Lock()
	if t.ctx.Err() != nil {
		room.Unlock()
		log.Debug().Str("room_id", t.roomID).Msg("cancelled timer - stopping")
		return nil
	}
	if room.Timer() != rooms.Timer(t) {
		room.Unlock()
		log.Debug().Str("room_id", t.roomID).Msg("stale timer - stopping")
		return nil
	}
	return room
}

// startTicker runs onTick every interval until onTick reports done or the
// timer is cancelled.
func (o *Orchestrator) startTicker(t *roundTimer, interval time.Duration, onTick func(*roundTimer) bool) {
	ticker := o.clock.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		defer o.removeTimer(t)
		for {
			select {
			case <-t.ctx.Done():
				return
			case <-ticker.Chan():
				if done := onTick(t); done {
					return
				}
			}
		}
	}()
}

// startOneShot runs onFire once after delay unless the timer is cancelled first
func (o *Orchestrator) startOneShot(t *roundTimer, delay time.Duration, onFire func(*roundTimer)) {
	timer := o.clock.NewTimer(delay)
	go func() {
		defer o.removeTimer(t)
		select {
		case <-t.ctx.Done():
			stopAndDrainTimer(timer)
		case <-timer.Chan():
			onFire(t)
		}
	}()
}

// stopAndDrainTimer safely stops a timer and drains its channel to prevent goroutine leaks.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
