package game

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/samdwyer/delve/internal/entity"
	"github.com/samdwyer/delve/internal/event"
	"github.com/samdwyer/delve/internal/gamedata"
	"github.com/samdwyer/delve/internal/grid"
	"github.com/samdwyer/delve/internal/rng"
	"github.com/samdwyer/delve/internal/spatial"
	"github.com/samdwyer/delve/internal/world"
)

// ErrMidTurn is returned when a snapshot is requested while a turn is
// still resolving.
var ErrMidTurn = errors.New("game: snapshot only between turns")

// Snapshot is the complete serializable state of a run. Restoring it and
// replaying the same commands produces the same events as never having
// saved at all.
type Snapshot struct {
	ID      string    `json:"id"`
	SavedAt time.Time `json:"savedAt"`

	Seed  uint64 `json:"seed"`
	Depth int    `json:"depth"`
	Tick  uint64 `json:"tick"`
	RNG   []byte `json:"rng"`

	Level LevelSnapshot `json:"level"`

	Entities []*entity.Entity `json:"entities"`
	NextID   entity.ID        `json:"nextId"`
	Player   entity.ID        `json:"player"`

	Explored  []grid.Point `json:"explored"`
	LastSeq   uint64       `json:"lastSeq"`
	OverCause string       `json:"overCause,omitempty"`
}

// LevelSnapshot carries the current level's terrain and landmarks.
type LevelSnapshot struct {
	Rows       []string   `json:"rows"`
	Entrance   grid.Point `json:"entrance"`
	StairsDown grid.Point `json:"stairsDown"`
	HasDown    bool       `json:"hasDown"`
	Version    uint64     `json:"version"`
}

// Snapshot captures the run's state. Only valid between turns; entity
// records are deep-copied so the snapshot never aliases live state.
func (c *Core) Snapshot() (*Snapshot, error) {
	if c.phase != PhaseAwaitingInput && c.phase != PhaseGameOver {
		return nil, ErrMidTurn
	}

	state, err := c.rc.MarshalState()
	if err != nil {
		return nil, fmt.Errorf("marshal rng: %w", err)
	}

	var records []*entity.Entity
	c.store.All(func(e *entity.Entity) bool {
		records = append(records, e.Clone())
		return true
	})

	explored := make([]grid.Point, 0, len(c.explored))
	for p := range c.explored {
		explored = append(explored, p)
	}
	sort.Slice(explored, func(i, j int) bool {
		if explored[i].Y != explored[j].Y {
			return explored[i].Y < explored[j].Y
		}
		return explored[i].X < explored[j].X
	})

	return &Snapshot{
		ID:      uuid.NewString(),
		SavedAt: time.Now().UTC(),
		Seed:    c.rc.Seed(),
		Depth:   c.depth,
		Tick:    c.tick,
		RNG:     state,
		Level: LevelSnapshot{
			Rows:       c.level.Raw(),
			Entrance:   c.level.Entrance,
			StairsDown: c.level.StairsDown,
			HasDown:    c.level.HasDown,
			Version:    c.level.Version(),
		},
		Entities:  records,
		NextID:    c.store.NextID(),
		Player:    c.player,
		Explored:  explored,
		LastSeq:   c.journal.LastSeq(),
		OverCause: c.overCause,
	}, nil
}

// Restore rebuilds a run from a snapshot. The journal resumes its sequence
// numbering; already-consumed events are gone.
func Restore(cfg Config, snap *Snapshot) (*Core, error) {
	monsters, err := gamedata.LoadMonsterRegistry()
	if err != nil {
		return nil, fmt.Errorf("load monsters: %w", err)
	}
	items, err := gamedata.LoadItemRegistry()
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	rc := rng.New(snap.Seed)
	if err := rc.UnmarshalState(snap.RNG); err != nil {
		return nil, fmt.Errorf("restore rng: %w", err)
	}

	level, err := world.FromRaw(snap.Level.Rows, snap.Depth,
		snap.Level.Entrance, snap.Level.StairsDown, snap.Level.HasDown, snap.Level.Version)
	if err != nil {
		return nil, err
	}

	store, err := entity.Restore(snap.Entities, snap.NextID)
	if err != nil {
		return nil, err
	}
	if !store.Contains(snap.Player) {
		return nil, fmt.Errorf("game: snapshot player %d missing", snap.Player)
	}

	index, err := rebuildIndex(store, snap.Entities)
	if err != nil {
		return nil, err
	}

	journal := event.NewJournal()
	journal.RestoreSeq(snap.LastSeq)

	explored := make(map[grid.Point]struct{}, len(snap.Explored))
	for _, p := range snap.Explored {
		explored[p] = struct{}{}
	}

	c := &Core{
		cfg:       cfg,
		rc:        rc,
		monsters:  monsters,
		items:     items,
		level:     level,
		store:     store,
		index:     index,
		journal:   journal,
		depth:     snap.Depth,
		tick:      snap.Tick,
		player:    snap.Player,
		overCause: snap.OverCause,
		explored:  explored,
	}
	if snap.OverCause != "" {
		c.phase = PhaseGameOver
	} else {
		c.phase = PhaseAwaitingInput
	}
	c.refreshVisibility()
	return c, nil
}

// rebuildIndex re-places every entity that was on the map when the snapshot
// was taken. Items referenced by an inventory are carried, not on the
// floor; a dead player is off the map.
func rebuildIndex(store *entity.Store, records []*entity.Entity) (*spatial.Index, error) {
	carried := make(map[entity.ID]bool)
	for _, e := range records {
		if e.Inventory == nil {
			continue
		}
		for _, id := range e.Inventory.Items {
			carried[id] = true
		}
	}

	index := spatial.NewIndex()
	var placeErr error
	store.All(func(e *entity.Entity) bool {
		switch {
		case e.Kind == entity.KindItem:
			if !carried[e.ID] {
				placeErr = index.PlaceItem(e.ID, e.Pos)
			}
		case e.IsAlive():
			placeErr = index.Place(e.ID, e.Pos)
		}
		return placeErr == nil
	})
	if placeErr != nil {
		return nil, placeErr
	}
	return index, nil
}
