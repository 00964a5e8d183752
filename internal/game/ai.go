package game

import (
	"github.com/samdwyer/delve/internal/entity"
	"github.com/samdwyer/delve/internal/grid"
)

// actMonster decides and applies one monster action: attack the player when
// adjacent, chase when the player is in sight, flee when badly hurt, wander
// otherwise.
func (c *Core) actMonster(e *entity.Entity) {
	pe := c.playerEntity()
	if !pe.IsAlive() {
		return
	}

	switch {
	case !c.seesPlayer(e):
		e.Brain.State = entity.BrainIdle
	case e.Stats.HP*4 <= e.Stats.MaxHP:
		e.Brain.State = entity.BrainFlee
	default:
		e.Brain.State = entity.BrainChase
	}

	switch e.Brain.State {
	case entity.BrainChase:
		if grid.Adjacent(e.Pos, pe.Pos) {
			c.attack(e, pe)
			return
		}
		c.stepToward(e, pe.Pos)
	case entity.BrainFlee:
		if !c.stepAway(e, pe.Pos) && grid.Adjacent(e.Pos, pe.Pos) {
			// Cornered: fight.
			c.attack(e, pe)
		}
	default:
		c.wander(e)
	}
}

// seesPlayer reports whether the monster has line of sight to the player.
// Sight is symmetric, so the player's cached field of view doubles as every
// monster's detection test at equal radius.
func (c *Core) seesPlayer(e *entity.Entity) bool {
	c.refreshVisibility()
	return c.visible.Contains(e.Pos)
}

// stepToward moves one tile to strictly close the distance to target,
// scanning directions in fixed order so ties resolve the same way every
// run. Returns false when no step improves.
func (c *Core) stepToward(e *entity.Entity, target grid.Point) bool {
	best := e.Pos
	bestDist := grid.Dist(e.Pos, target)
	for _, n := range grid.Neighbors(e.Pos) {
		if !c.level.Walkable(n) {
			continue
		}
		if _, taken := c.index.OccupantAt(n); taken {
			continue
		}
		if d := grid.Dist(n, target); d < bestDist {
			best, bestDist = n, d
		}
	}
	if best == e.Pos {
		return false
	}
	_ = c.moveActor(e, best)
	return true
}

// stepAway moves one tile to strictly open the distance from threat.
func (c *Core) stepAway(e *entity.Entity, threat grid.Point) bool {
	best := e.Pos
	bestDist := grid.Dist(e.Pos, threat)
	for _, n := range grid.Neighbors(e.Pos) {
		if !c.level.Walkable(n) {
			continue
		}
		if _, taken := c.index.OccupantAt(n); taken {
			continue
		}
		if d := grid.Dist(n, threat); d > bestDist {
			best, bestDist = n, d
		}
	}
	if best == e.Pos {
		return false
	}
	_ = c.moveActor(e, best)
	return true
}

// wander occasionally drifts one tile in a random direction.
func (c *Core) wander(e *entity.Entity) {
	if c.rc.Intn(4) != 0 {
		return
	}
	to := e.Pos.Step(grid.Directions[c.rc.Intn(len(grid.Directions))])
	if !c.level.Walkable(to) {
		return
	}
	if _, taken := c.index.OccupantAt(to); taken {
		return
	}
	_ = c.moveActor(e, to)
}
