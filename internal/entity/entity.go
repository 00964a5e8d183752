// Package entity owns all entity records in the simulation: the player,
// monsters and items. Everything else refers to entities only by handle.
package entity

import (
	"github.com/samdwyer/delve/internal/grid"
)

// ID is a stable entity handle. Handles increase monotonically and are
// never reused, so a stale handle can only miss, never alias.
type ID uint64

// Kind is the broad category an entity belongs to.
type Kind int

const (
	KindPlayer Kind = iota
	KindMonster
	KindItem
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindMonster:
		return "monster"
	case KindItem:
		return "item"
	default:
		return "unknown"
	}
}

// Stats holds combat-relevant numbers. HP is clamped at zero by all
// mutation paths; the fields are never negative.
type Stats struct {
	HP      int `json:"hp"`
	MaxHP   int `json:"maxHp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
}

// TakeDamage reduces HP, clamped at zero, and returns the actual amount lost.
func (s *Stats) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > s.HP {
		actual = s.HP
	}
	s.HP -= actual
	return actual
}

// Heal restores HP up to MaxHP and returns the actual amount restored.
func (s *Stats) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if s.HP+actual > s.MaxHP {
		actual = s.MaxHP - s.HP
	}
	s.HP += actual
	return actual
}

// Actor marks an entity that takes turns. Energy accumulates by Speed each
// clock cycle; the scheduler dispatches an action when it crosses the
// configured threshold.
type Actor struct {
	Energy int `json:"energy"`
}

// Inventory holds carried item handles in pickup order.
type Inventory struct {
	Items []ID `json:"items"`
}

// Remove deletes an item handle from the inventory, returning false if absent.
func (inv *Inventory) Remove(id ID) bool {
	for i, item := range inv.Items {
		if item == id {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			return true
		}
	}
	return false
}

// BrainState is the current mode of an AI-controlled entity.
type BrainState int

const (
	BrainIdle BrainState = iota
	BrainChase
	BrainFlee
)

// String returns a human-readable brain state name.
func (s BrainState) String() string {
	switch s {
	case BrainIdle:
		return "idle"
	case BrainChase:
		return "chase"
	case BrainFlee:
		return "flee"
	default:
		return "unknown"
	}
}

// Brain marks an AI-controlled entity and carries its policy state.
type Brain struct {
	State BrainState `json:"state"`
}

// Entity is a single world occupant. Capabilities are optional component
// pointers: a nil component means the entity lacks that capability, and
// systems act by checking presence rather than switching on kind.
type Entity struct {
	ID    ID         `json:"id"`
	Kind  Kind       `json:"kind"`
	DefID string     `json:"defId"`
	Name  string     `json:"name"`
	Pos   grid.Point `json:"pos"`

	Stats     *Stats     `json:"stats,omitempty"`
	Actor     *Actor     `json:"actor,omitempty"`
	Inventory *Inventory `json:"inventory,omitempty"`
	Brain     *Brain     `json:"brain,omitempty"`
}

// IsAlive reports whether the entity has HP remaining. Entities without
// stats (items) are never considered alive.
func (e *Entity) IsAlive() bool {
	return e.Stats != nil && e.Stats.HP > 0
}

// Clone returns a deep copy of the entity, detached from the store so that
// snapshots do not alias live records.
func (e *Entity) Clone() *Entity {
	out := *e
	if e.Stats != nil {
		stats := *e.Stats
		out.Stats = &stats
	}
	if e.Actor != nil {
		actor := *e.Actor
		out.Actor = &actor
	}
	if e.Inventory != nil {
		items := make([]ID, len(e.Inventory.Items))
		copy(items, e.Inventory.Items)
		out.Inventory = &Inventory{Items: items}
	}
	if e.Brain != nil {
		brain := *e.Brain
		out.Brain = &brain
	}
	return &out
}
