// Package game runs the simulation: it owns the level, the entities, the
// clock and the event journal, and advances them one player command at a
// time. Presentation sits entirely outside; it feeds commands in and reads
// events and queries out.
package game

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/delve/internal/entity"
	"github.com/samdwyer/delve/internal/event"
	"github.com/samdwyer/delve/internal/fov"
	"github.com/samdwyer/delve/internal/gamedata"
	"github.com/samdwyer/delve/internal/grid"
	"github.com/samdwyer/delve/internal/rng"
	"github.com/samdwyer/delve/internal/spatial"
	"github.com/samdwyer/delve/internal/telemetry"
	"github.com/samdwyer/delve/internal/world"
)

// Core is the complete simulation state for one run.
type Core struct {
	cfg      Config
	rc       *rng.Context
	monsters *gamedata.MonsterRegistry
	items    *gamedata.ItemRegistry

	level   *world.Level
	store   *entity.Store
	index   *spatial.Index
	journal *event.Journal

	depth     int
	tick      uint64
	phase     Phase
	player    entity.ID
	overCause string

	// Visibility cache, keyed on the player's position and the level's
	// opacity version. Explored accumulates every tile ever seen on the
	// current level.
	visible    fov.Set
	visOrigin  grid.Point
	visVersion uint64
	explored   map[grid.Point]struct{}
}

// New starts a fresh run from the configured seed: level one is generated,
// populated, and the player stands at its entrance awaiting the first
// command.
func New(ctx context.Context, cfg Config) (*Core, error) {
	ctx, span := telemetry.Tracer("game").Start(ctx, "game.new")
	defer span.End()

	monsters, err := gamedata.LoadMonsterRegistry()
	if err != nil {
		return nil, fmt.Errorf("load monsters: %w", err)
	}
	items, err := gamedata.LoadItemRegistry()
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	c := &Core{
		cfg:      cfg,
		rc:       rng.New(cfg.Seed),
		monsters: monsters,
		items:    items,
		store:    entity.NewStore(),
		journal:  event.NewJournal(),
	}

	// The player is created before anything else so it always holds the
	// lowest handle and wins scheduling ties.
	c.player = c.store.Create(entity.KindPlayer, "player", "you", grid.Point{})
	_ = c.store.Mutate(c.player, func(e *entity.Entity) {
		e.Stats = &entity.Stats{
			HP:      cfg.PlayerHP,
			MaxHP:   cfg.PlayerHP,
			Attack:  cfg.PlayerAttack,
			Defense: cfg.PlayerDefense,
			Speed:   cfg.PlayerSpeed,
		}
		e.Actor = &entity.Actor{Energy: cfg.ActionThreshold}
		e.Inventory = &entity.Inventory{}
	})

	if err := c.enterDepth(ctx, 1); err != nil {
		return nil, err
	}
	c.phase = PhaseAwaitingInput
	c.refreshVisibility()

	span.SetAttributes(
		attribute.Int64("game.seed", int64(cfg.Seed)),
		attribute.Int("game.max_depth", cfg.MaxDepth),
		attribute.Int("game.entities", c.store.Len()),
	)
	return c, nil
}

// enterDepth generates the given depth, drops everything left behind on the
// old level, places the player at the new entrance and spawns the level's
// population. Each depth draws from its own derived stream so the layout
// depends only on the seed and the depth, never on how the run went.
func (c *Core) enterDepth(ctx context.Context, depth int) error {
	gen := c.rc.Derive(uint64(depth))

	level, err := world.Generate(ctx, gen, depth, c.cfg.Gen)
	if err != nil {
		return fmt.Errorf("generate depth %d: %w", depth, err)
	}

	// Monsters and floor items stay behind; carried items have no index
	// position and survive the transition.
	if c.index != nil {
		var gone []entity.ID
		c.store.All(func(e *entity.Entity) bool {
			if e.ID == c.player {
				return true
			}
			if _, onLevel := c.index.PositionOf(e.ID); onLevel {
				gone = append(gone, e.ID)
			}
			return true
		})
		for _, id := range gone {
			_ = c.store.Destroy(id)
		}
	}

	c.level = level
	c.depth = depth
	c.index = spatial.NewIndex()
	c.explored = make(map[grid.Point]struct{})
	c.visible = nil

	_ = c.store.Mutate(c.player, func(e *entity.Entity) {
		e.Pos = level.Entrance
	})
	if err := c.index.Place(c.player, level.Entrance); err != nil {
		return err
	}

	c.populate(gen)
	return nil
}

// populate spawns monsters and items into every room except the entrance
// room, drawing from the level's generation stream.
func (c *Core) populate(gen *rng.Context) {
	for i := 1; i < len(c.level.Rooms); i++ {
		n := gen.Intn(c.cfg.MaxMonstersPerRoom + 1)
		for j := 0; j < n; j++ {
			def := c.monsters.SpawnRandom(gen, c.depth)
			if def == nil {
				break
			}
			pos, ok := c.level.RandomPointInRoom(gen, i)
			if !ok {
				continue
			}
			if _, taken := c.index.OccupantAt(pos); taken {
				continue
			}
			id := c.store.Create(entity.KindMonster, def.ID, def.Name, pos)
			_ = c.store.Mutate(id, func(e *entity.Entity) {
				e.Stats = &entity.Stats{
					HP:      def.HP,
					MaxHP:   def.HP,
					Attack:  def.Attack,
					Defense: def.Defense,
					Speed:   def.Speed,
				}
				e.Actor = &entity.Actor{}
				e.Brain = &entity.Brain{}
			})
			if err := c.index.Place(id, pos); err != nil {
				_ = c.store.Destroy(id)
			}
		}

		if gen.Intn(100) < c.cfg.ItemChance {
			def := c.items.SpawnRandom(gen)
			if def == nil {
				continue
			}
			pos, ok := c.level.RandomPointInRoom(gen, i)
			if !ok {
				continue
			}
			id := c.store.Create(entity.KindItem, def.ID, def.Name, pos)
			if err := c.index.PlaceItem(id, pos); err != nil {
				_ = c.store.Destroy(id)
			}
		}
	}
}

func (c *Core) playerEntity() *entity.Entity {
	e, err := c.store.Get(c.player)
	if err != nil {
		// The player record is never destroyed, not even on death.
		panic(err)
	}
	return e
}

// refreshVisibility recomputes the player's field of view when its cache
// key (origin, level version) has gone stale, and folds the result into the
// explored set.
func (c *Core) refreshVisibility() {
	origin := c.playerEntity().Pos
	if c.visible != nil && c.visOrigin == origin && c.visVersion == c.level.Version() {
		return
	}
	c.visible = fov.Compute(c.level.Opaque, origin, c.cfg.FOVRadius)
	c.visOrigin = origin
	c.visVersion = c.level.Version()
	for p := range c.visible {
		c.explored[p] = struct{}{}
	}
}

// finish ends the run with the given cause and records it in the journal.
func (c *Core) finish(cause string) {
	c.overCause = cause
	c.emit(event.Event{Kind: event.KindGameOver, Text: cause})
	c.phase = PhaseGameOver
}

func (c *Core) emit(ev event.Event) {
	c.journal.Append(c.tick, ev)
}
