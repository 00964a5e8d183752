// Package event defines the immutable record of what happened in the
// simulation. The journal is the only channel through which presentation
// learns about state changes.
package event

import (
	"github.com/samdwyer/delve/internal/entity"
	"github.com/samdwyer/delve/internal/grid"
)

// Kind identifies the type of event entry.
type Kind string

const (
	// KindMoved records an entity stepping to a new tile.
	KindMoved Kind = "moved"
	// KindDoorOpened records a closed door being opened.
	KindDoorOpened Kind = "door_opened"
	// KindHit records a successful attack.
	KindHit Kind = "hit"
	// KindMissed records an attack that failed to connect.
	KindMissed Kind = "missed"
	// KindDied records an entity's health reaching zero.
	KindDied Kind = "died"
	// KindPickedUp records an item moving from the floor to an inventory.
	KindPickedUp Kind = "picked_up"
	// KindItemUsed records an inventory item being consumed.
	KindItemUsed Kind = "item_used"
	// KindDescended records the player taking the stairs down.
	KindDescended Kind = "descended"
	// KindMessage carries free-form flavor text.
	KindMessage Kind = "message"
	// KindGameOver records the end of the run and its cause.
	KindGameOver Kind = "game_over"
)

// Event is one immutable journal entry. Fields beyond Seq, Tick and Kind
// are populated per kind with enough detail to re-render the change.
type Event struct {
	Seq    uint64     `json:"seq"`
	Tick   uint64     `json:"tick"`
	Kind   Kind       `json:"kind"`
	Actor  entity.ID  `json:"actor,omitempty"`
	Target entity.ID  `json:"target,omitempty"`
	From   grid.Point `json:"from,omitempty"`
	To     grid.Point `json:"to,omitempty"`
	Amount int        `json:"amount,omitempty"`
	Text   string     `json:"text,omitempty"`
}

// Journal is the ordered event log. Entries are append-only; presentation
// polls with Since and may discard what it has consumed.
type Journal struct {
	entries []Event
	nextSeq uint64
}

// NewJournal creates an empty journal. Sequence numbers start at 1.
func NewJournal() *Journal {
	return &Journal{nextSeq: 1}
}

// Append stamps the entry with the next sequence number and the given tick,
// stores it, and returns the stamped copy.
func (j *Journal) Append(tick uint64, ev Event) Event {
	ev.Seq = j.nextSeq
	ev.Tick = tick
	j.nextSeq++
	j.entries = append(j.entries, ev)
	return ev
}

// Since returns all entries with a sequence number greater than seq.
func (j *Journal) Since(seq uint64) []Event {
	// Entries are in sequence order; binary scan is unnecessary at this scale.
	for i, ev := range j.entries {
		if ev.Seq > seq {
			out := make([]Event, len(j.entries)-i)
			copy(out, j.entries[i:])
			return out
		}
	}
	return nil
}

// LastSeq returns the sequence number of the newest entry, or 0 when empty.
func (j *Journal) LastSeq() uint64 {
	return j.nextSeq - 1
}

// Len returns the number of stored entries.
func (j *Journal) Len() int {
	return len(j.entries)
}

// Prune drops entries at or below seq. Presentation calls this after it has
// consumed a poll so the log does not grow without bound.
func (j *Journal) Prune(seq uint64) {
	i := 0
	for i < len(j.entries) && j.entries[i].Seq <= seq {
		i++
	}
	if i > 0 {
		j.entries = append([]Event(nil), j.entries[i:]...)
	}
}

// RestoreSeq resets the journal's sequence counter. Used when resuming from
// a snapshot so new entries continue the original numbering.
func (j *Journal) RestoreSeq(lastSeq uint64) {
	j.nextSeq = lastSeq + 1
	j.entries = nil
}
