package game

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/delve/internal/entity"
	"github.com/samdwyer/delve/internal/event"
	"github.com/samdwyer/delve/internal/telemetry"
)

// Phase is where the simulation stands in its turn cycle. Outside of Step
// the phase is always AwaitingInput or GameOver.
type Phase int

const (
	PhaseAwaitingInput Phase = iota
	PhaseResolvingPlayer
	PhaseResolvingAI
	PhaseAdvancingClock
	PhaseGameOver
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseAwaitingInput:
		return "awaiting_input"
	case PhaseResolvingPlayer:
		return "resolving_player"
	case PhaseResolvingAI:
		return "resolving_ai"
	case PhaseAdvancingClock:
		return "advancing_clock"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// ErrGameOver is returned by Step once the run has ended.
var ErrGameOver = errors.New("game: run is over")

// Step resolves one player command and everything it triggers: the player's
// action, any monsters already due, and clock advancement until the player
// is due again. It returns the events the turn produced, in order.
//
// A Rejected error means the command could not be carried out; nothing
// changed and the clock did not move. Any other error is a fault and the
// simulation should not be stepped further.
func (c *Core) Step(ctx context.Context, cmd Command) ([]event.Event, error) {
	if c.phase == PhaseGameOver {
		return nil, ErrGameOver
	}

	ctx, span := telemetry.Tracer("game").Start(ctx, "turn.step")
	defer span.End()
	span.SetAttributes(attribute.String("turn.command", cmd.Kind.String()))

	mark := c.journal.LastSeq()

	c.phase = PhaseResolvingPlayer
	if err := c.resolvePlayer(ctx, cmd); err != nil {
		c.phase = PhaseAwaitingInput
		if IsRejected(err) {
			span.SetAttributes(attribute.String("turn.rejected", err.Error()))
		}
		return nil, err
	}
	if pe := c.playerEntity(); pe.Actor != nil {
		pe.Actor.Energy -= c.cfg.ActionThreshold
	}

	// Monsters that came due on the same tick as the player act now; the
	// player's lower handle already gave it the tie.
	if c.phase != PhaseGameOver {
		c.phase = PhaseResolvingAI
		c.actDueMonsters()
	}
	if c.phase != PhaseGameOver {
		c.phase = PhaseAdvancingClock
		c.advanceClock()
	}
	if c.phase != PhaseGameOver {
		c.phase = PhaseAwaitingInput
	}
	c.refreshVisibility()

	out := c.journal.Since(mark)
	span.SetAttributes(
		attribute.Int64("turn.tick", int64(c.tick)),
		attribute.Int("turn.events", len(out)),
		attribute.String("turn.phase", c.phase.String()),
	)
	return out, nil
}

// actDueMonsters dispatches every monster whose energy has crossed the
// action threshold, in handle order. Fast monsters may act more than once.
func (c *Core) actDueMonsters() {
	c.store.All(func(e *entity.Entity) bool {
		if c.phase == PhaseGameOver {
			return false
		}
		if e.Kind != entity.KindMonster || e.Actor == nil || !e.IsAlive() {
			return true
		}
		for e.Actor.Energy >= c.cfg.ActionThreshold && e.IsAlive() && c.phase != PhaseGameOver {
			e.Actor.Energy -= c.cfg.ActionThreshold
			c.actMonster(e)
		}
		return true
	})
}

// advanceClock ticks the world forward until the player is due. Each tick
// credits every live actor with its speed; when the player comes due the
// loop stops before monsters on the same tick act, so the lowest handle
// wins the tie.
func (c *Core) advanceClock() {
	for c.phase != PhaseGameOver {
		c.tick++
		c.store.All(func(e *entity.Entity) bool {
			if e.Actor != nil && e.IsAlive() {
				e.Actor.Energy += speedOf(e)
			}
			return true
		})

		if pe := c.playerEntity(); pe.Actor != nil && pe.Actor.Energy >= c.cfg.ActionThreshold {
			return
		}
		c.actDueMonsters()
	}
}

// speedOf returns an actor's energy gain per tick. A missing or
// non-positive speed falls back to the baseline so the clock always makes
// progress.
func speedOf(e *entity.Entity) int {
	if e.Stats == nil || e.Stats.Speed <= 0 {
		return 100
	}
	return e.Stats.Speed
}
