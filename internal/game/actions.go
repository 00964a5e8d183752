package game

import (
	"context"
	"fmt"

	"github.com/samdwyer/delve/internal/entity"
	"github.com/samdwyer/delve/internal/event"
	"github.com/samdwyer/delve/internal/gamedata"
	"github.com/samdwyer/delve/internal/grid"
	"github.com/samdwyer/delve/internal/world"
)

// resolvePlayer validates and applies one player command. Rejections leave
// the simulation untouched.
func (c *Core) resolvePlayer(ctx context.Context, cmd Command) error {
	pe := c.playerEntity()

	switch cmd.Kind {
	case CommandWait:
		return nil

	case CommandMove:
		return c.moveOrBump(pe, cmd.Dir)

	case CommandAttack:
		if cmd.Dir == grid.DirNone {
			return Rejected{Reason: ReasonBadCommand}
		}
		target := pe.Pos.Step(cmd.Dir)
		id, ok := c.index.OccupantAt(target)
		if !ok {
			return Rejected{Reason: ReasonNoTarget}
		}
		def, err := c.store.Get(id)
		if err != nil {
			return err
		}
		c.attack(pe, def)
		return nil

	case CommandUseItem:
		return c.useItem(pe, cmd.Item)

	case CommandDescend:
		return c.descend(ctx, pe)

	case CommandQuit:
		c.finish("quit")
		return nil

	default:
		return Rejected{Reason: ReasonBadCommand}
	}
}

// moveOrBump steps an actor one tile. Walking into an enemy resolves as an
// attack; walking into a wall is a rejection.
func (c *Core) moveOrBump(e *entity.Entity, dir grid.Direction) error {
	if dir == grid.DirNone {
		return Rejected{Reason: ReasonBadCommand}
	}
	target := e.Pos.Step(dir)

	if id, ok := c.index.OccupantAt(target); ok {
		other, err := c.store.Get(id)
		if err != nil {
			return err
		}
		// Bump attacks only cross sides; monsters never brawl each other.
		if e.Kind == entity.KindPlayer || other.Kind == entity.KindPlayer {
			c.attack(e, other)
			return nil
		}
		return Rejected{Reason: ReasonOccupied}
	}

	if !c.level.Walkable(target) {
		return Rejected{Reason: ReasonBlocked}
	}
	return c.moveActor(e, target)
}

// moveActor relocates an actor to a free walkable tile. Stepping into a
// closed door opens it first; the player picks up whatever lies on the
// destination.
func (c *Core) moveActor(e *entity.Entity, to grid.Point) error {
	if c.level.TileAt(to) == world.TerrainDoorClosed {
		c.level.OpenDoorAt(to)
		c.emit(event.Event{Kind: event.KindDoorOpened, Actor: e.ID, To: to})
	}

	from := e.Pos
	if err := c.index.Move(e.ID, to); err != nil {
		return err
	}
	e.Pos = to
	c.emit(event.Event{Kind: event.KindMoved, Actor: e.ID, From: from, To: to})

	if e.Kind == entity.KindPlayer {
		c.pickUpAt(e, to)
	}
	return nil
}

// pickUpAt moves every item on the tile into the actor's inventory.
func (c *Core) pickUpAt(e *entity.Entity, p grid.Point) {
	if e.Inventory == nil {
		return
	}
	for _, id := range c.index.ItemsAt(p) {
		if err := c.index.Remove(id); err != nil {
			continue
		}
		e.Inventory.Items = append(e.Inventory.Items, id)
		name := ""
		if item, err := c.store.Get(id); err == nil {
			name = item.Name
		}
		c.emit(event.Event{Kind: event.KindPickedUp, Actor: e.ID, Target: id, To: p, Text: name})
	}
}

// attack resolves one melee exchange. Hit chance scales with the attack and
// defense gap, clamped so neither side is ever a sure thing.
func (c *Core) attack(att, def *entity.Entity) {
	if att.Stats == nil || def.Stats == nil {
		return
	}

	chance := 70 + 5*att.Stats.Attack - 5*def.Stats.Defense
	if chance < 5 {
		chance = 5
	}
	if chance > 95 {
		chance = 95
	}

	if c.rc.Intn(100) >= chance {
		c.emit(event.Event{Kind: event.KindMissed, Actor: att.ID, Target: def.ID})
		return
	}

	dmg := att.Stats.Attack - def.Stats.Defense
	if dmg < 1 {
		dmg = 1
	}
	actual := def.Stats.TakeDamage(dmg)
	c.emit(event.Event{Kind: event.KindHit, Actor: att.ID, Target: def.ID, Amount: actual})

	if def.Stats.HP == 0 {
		c.kill(att, def)
	}
}

// kill removes a slain entity from the world. The player's record survives
// for the post-mortem; monsters are destroyed outright.
func (c *Core) kill(att, def *entity.Entity) {
	c.emit(event.Event{Kind: event.KindDied, Actor: att.ID, Target: def.ID, From: def.Pos, Text: def.Name})
	_ = c.index.Remove(def.ID)

	if def.Kind == entity.KindPlayer {
		c.finish("death")
		return
	}
	_ = c.store.Destroy(def.ID)
}

// useItem consumes an inventory item and applies its effect.
func (c *Core) useItem(e *entity.Entity, id entity.ID) error {
	if e.Inventory == nil || !containsID(e.Inventory.Items, id) {
		return Rejected{Reason: ReasonNoItem}
	}
	item, err := c.store.Get(id)
	if err != nil {
		return err
	}
	def := c.items.GetByID(item.DefID)
	if def == nil {
		return fmt.Errorf("game: unknown item definition %q", item.DefID)
	}

	amount := 0
	switch def.Effect {
	case gamedata.EffectHeal:
		amount = e.Stats.Heal(def.Power)
	case gamedata.EffectStrength:
		e.Stats.Attack += def.Power
		amount = def.Power
	default:
		return fmt.Errorf("game: unknown item effect %q", def.Effect)
	}

	e.Inventory.Remove(id)
	_ = c.store.Destroy(id)
	c.emit(event.Event{Kind: event.KindItemUsed, Actor: e.ID, Target: id, Amount: amount, Text: def.Name})
	return nil
}

// descend takes the stairs down. Descending from the deepest level wins the
// run.
func (c *Core) descend(ctx context.Context, pe *entity.Entity) error {
	if c.level.TileAt(pe.Pos) != world.TerrainStairsDown {
		return Rejected{Reason: ReasonNoStairs}
	}
	if c.depth >= c.cfg.MaxDepth {
		c.finish("victory")
		return nil
	}
	c.emit(event.Event{Kind: event.KindDescended, Actor: pe.ID, Amount: c.depth + 1})
	return c.enterDepth(ctx, c.depth+1)
}

func containsID(ids []entity.ID, id entity.ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
