package game

import (
	"errors"
	"fmt"

	"github.com/samdwyer/delve/internal/entity"
	"github.com/samdwyer/delve/internal/grid"
)

// CommandKind identifies a player intent.
type CommandKind int

const (
	CommandWait CommandKind = iota
	CommandMove
	CommandAttack
	CommandUseItem
	CommandDescend
	CommandQuit
)

// String returns a human-readable command name.
func (k CommandKind) String() string {
	switch k {
	case CommandWait:
		return "wait"
	case CommandMove:
		return "move"
	case CommandAttack:
		return "attack"
	case CommandUseItem:
		return "use_item"
	case CommandDescend:
		return "descend"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command is one player intent handed to Step. Dir applies to Move and
// Attack; Item applies to UseItem.
type Command struct {
	Kind CommandKind
	Dir  grid.Direction
	Item entity.ID
}

// Rejection reasons carried by Rejected.
const (
	ReasonBlocked    = "blocked"
	ReasonOccupied   = "occupied"
	ReasonNoTarget   = "no_target"
	ReasonNoItem     = "no_item"
	ReasonNoStairs   = "no_stairs"
	ReasonBadCommand = "bad_command"
)

// Rejected reports a command that could not be carried out. It is not a
// fault: no state changed and the clock did not advance, so the caller
// simply asks the player for another command.
type Rejected struct {
	Reason string
}

func (r Rejected) Error() string {
	return fmt.Sprintf("command rejected: %s", r.Reason)
}

// IsRejected reports whether err is a command rejection rather than a
// simulation fault.
func IsRejected(err error) bool {
	var r Rejected
	return errors.As(err, &r)
}
