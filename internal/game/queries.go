package game

import (
	"github.com/samdwyer/delve/internal/entity"
	"github.com/samdwyer/delve/internal/event"
	"github.com/samdwyer/delve/internal/gamedata"
	"github.com/samdwyer/delve/internal/grid"
	"github.com/samdwyer/delve/internal/world"
)

// Read-side accessors for presentation. Everything here returns copies or
// immutable views; nothing mutates the simulation.

// Phase returns the current turn phase.
func (c *Core) Phase() Phase { return c.phase }

// Depth returns the current dungeon depth, starting at 1.
func (c *Core) Depth() int { return c.depth }

// Tick returns the simulation clock.
func (c *Core) Tick() uint64 { return c.tick }

// Seed returns the run's seed.
func (c *Core) Seed() uint64 { return c.rc.Seed() }

// OverCause returns why the run ended, or "" while it is live.
func (c *Core) OverCause() string { return c.overCause }

// Player returns the player's handle.
func (c *Core) Player() entity.ID { return c.player }

// PlayerPos returns the player's tile.
func (c *Core) PlayerPos() grid.Point { return c.playerEntity().Pos }

// PlayerStats returns a copy of the player's combat stats.
func (c *Core) PlayerStats() entity.Stats { return *c.playerEntity().Stats }

// InventoryEntry describes one carried item.
type InventoryEntry struct {
	ID    entity.ID
	DefID string
	Name  string
}

// PlayerInventory lists carried items in pickup order.
func (c *Core) PlayerInventory() []InventoryEntry {
	pe := c.playerEntity()
	if pe.Inventory == nil {
		return nil
	}
	out := make([]InventoryEntry, 0, len(pe.Inventory.Items))
	for _, id := range pe.Inventory.Items {
		item, err := c.store.Get(id)
		if err != nil {
			continue
		}
		out = append(out, InventoryEntry{ID: id, DefID: item.DefID, Name: item.Name})
	}
	return out
}

// MapSize returns the current level's dimensions.
func (c *Core) MapSize() (width, height int) {
	return c.level.Width, c.level.Height
}

// TileAt returns the terrain at p on the current level.
func (c *Core) TileAt(p grid.Point) world.Terrain {
	return c.level.TileAt(p)
}

// Visible reports whether the player currently sees p.
func (c *Core) Visible(p grid.Point) bool {
	return c.visible.Contains(p)
}

// Explored reports whether the player has ever seen p on this level.
func (c *Core) Explored(p grid.Point) bool {
	_, ok := c.explored[p]
	return ok
}

// EntityView is a renderable snapshot of one on-map entity.
type EntityView struct {
	ID    entity.ID
	Kind  entity.Kind
	DefID string
	Name  string
	Pos   grid.Point
}

// Entities lists every on-map entity in creation order.
func (c *Core) Entities() []EntityView {
	var out []EntityView
	c.store.All(func(e *entity.Entity) bool {
		pos, onMap := c.index.PositionOf(e.ID)
		if !onMap {
			return true
		}
		out = append(out, EntityView{ID: e.ID, Kind: e.Kind, DefID: e.DefID, Name: e.Name, Pos: pos})
		return true
	})
	return out
}

// VisibleEntities lists the on-map entities inside the player's field of
// view, items before actors so actors draw on top.
func (c *Core) VisibleEntities() []EntityView {
	var items, actors []EntityView
	c.store.All(func(e *entity.Entity) bool {
		pos, onMap := c.index.PositionOf(e.ID)
		if !onMap || !c.visible.Contains(pos) {
			return true
		}
		view := EntityView{ID: e.ID, Kind: e.Kind, DefID: e.DefID, Name: e.Name, Pos: pos}
		if e.Kind == entity.KindItem {
			items = append(items, view)
		} else {
			actors = append(actors, view)
		}
		return true
	})
	return append(items, actors...)
}

// EventsSince returns journal entries newer than seq.
func (c *Core) EventsSince(seq uint64) []event.Event {
	return c.journal.Since(seq)
}

// PruneEvents discards journal entries at or below seq.
func (c *Core) PruneEvents(seq uint64) {
	c.journal.Prune(seq)
}

// EntityName returns the display name for a live entity, or "" if the
// handle no longer resolves.
func (c *Core) EntityName(id entity.ID) string {
	e, err := c.store.Get(id)
	if err != nil {
		return ""
	}
	return e.Name
}

// MonsterDef resolves a monster definition for rendering.
func (c *Core) MonsterDef(defID string) *gamedata.MonsterDef {
	return c.monsters.GetByID(defID)
}

// ItemDef resolves an item definition for rendering.
func (c *Core) ItemDef(defID string) *gamedata.ItemDef {
	return c.items.GetByID(defID)
}
