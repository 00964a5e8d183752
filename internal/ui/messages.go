package ui

import (
	"fmt"

	"github.com/samdwyer/delve/internal/entity"
	"github.com/samdwyer/delve/internal/event"
	"github.com/samdwyer/delve/internal/game"
)

// Messages turns journal events into log lines for the player.
func Messages(core *game.Core, events []event.Event) []string {
	var out []string
	for _, ev := range events {
		switch ev.Kind {
		case event.KindHit:
			if ev.Actor == core.Player() {
				out = append(out, fmt.Sprintf("You hit the %s for %d.", name(core, ev.Target), ev.Amount))
			} else {
				out = append(out, fmt.Sprintf("The %s hits you for %d.", name(core, ev.Actor), ev.Amount))
			}
		case event.KindMissed:
			if ev.Actor == core.Player() {
				out = append(out, fmt.Sprintf("You miss the %s.", name(core, ev.Target)))
			} else {
				out = append(out, fmt.Sprintf("The %s misses you.", name(core, ev.Actor)))
			}
		case event.KindDied:
			if ev.Target == core.Player() {
				out = append(out, "You die.")
			} else {
				out = append(out, fmt.Sprintf("The %s dies.", ev.Text))
			}
		case event.KindPickedUp:
			out = append(out, fmt.Sprintf("You pick up the %s.", ev.Text))
		case event.KindItemUsed:
			out = append(out, fmt.Sprintf("You use the %s.", ev.Text))
		case event.KindDoorOpened:
			if ev.Actor == core.Player() {
				out = append(out, "You open the door.")
			}
		case event.KindDescended:
			out = append(out, fmt.Sprintf("You descend to depth %d.", ev.Amount))
		case event.KindGameOver:
			switch ev.Text {
			case "victory":
				out = append(out, "You escape with the depths behind you. You win!")
			case "death":
				out = append(out, "Your run ends here.")
			default:
				out = append(out, "You abandon the run.")
			}
		case event.KindMessage:
			out = append(out, ev.Text)
		}
	}
	return out
}

// name resolves an entity name for a message. Slain monsters are gone from
// the store by the time the log renders, so fall back to something neutral.
func name(core *game.Core, id entity.ID) string {
	if n := core.EntityName(id); n != "" {
		return n
	}
	return "fallen foe"
}
