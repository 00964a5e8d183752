package game

import (
	"context"
	"reflect"
	"testing"

	"github.com/samdwyer/delve/internal/entity"
	"github.com/samdwyer/delve/internal/event"
	"github.com/samdwyer/delve/internal/gamedata"
	"github.com/samdwyer/delve/internal/grid"
	"github.com/samdwyer/delve/internal/rng"
	"github.com/samdwyer/delve/internal/spatial"
	"github.com/samdwyer/delve/internal/world"
)

// testLevelRows is a single open room with the down stair in the corner.
func testLevelRows() []string {
	return []string{
		"#########",
		"#.......#",
		"#.......#",
		"#.......#",
		"#.......#",
		"#......>#",
		"#########",
	}
}

// newTestCore builds a core on a hand-made level so tests control exactly
// what is where. The player starts at (1,1) with a full turn of energy.
func newTestCore(t *testing.T, seed uint64) *Core {
	t.Helper()

	entrance := grid.Point{X: 1, Y: 1}
	stairs := grid.Point{X: 7, Y: 5}
	level, err := world.FromRaw(testLevelRows(), 1, entrance, stairs, true, 0)
	if err != nil {
		t.Fatalf("FromRaw error: %v", err)
	}

	cfg := DefaultConfig(seed)
	c := &Core{
		cfg:      cfg,
		rc:       rng.New(seed),
		monsters: gamedata.MustLoadMonsterRegistry(),
		items:    gamedata.MustLoadItemRegistry(),
		level:    level,
		store:    entity.NewStore(),
		index:    spatial.NewIndex(),
		journal:  event.NewJournal(),
		depth:    1,
		explored: make(map[grid.Point]struct{}),
	}

	c.player = c.store.Create(entity.KindPlayer, "player", "you", entrance)
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
	if err := c.index.Place(c.player, entrance); err != nil {
		t.Fatalf("place player: %v", err)
	}
	c.phase = PhaseAwaitingInput
	c.refreshVisibility()
	return c
}

// addMonster places a monster with explicit stats so tests control the
// combat math.
func addMonster(t *testing.T, c *Core, defID string, pos grid.Point, stats entity.Stats) entity.ID {
	t.Helper()
	def := c.monsters.GetByID(defID)
	if def == nil {
		t.Fatalf("unknown monster def %q", defID)
	}
	id := c.store.Create(entity.KindMonster, def.ID, def.Name, pos)
	_ = c.store.Mutate(id, func(e *entity.Entity) {
		s := stats
		e.Stats = &s
		e.Actor = &entity.Actor{}
		e.Brain = &entity.Brain{}
	})
	if err := c.index.Place(id, pos); err != nil {
		t.Fatalf("place monster: %v", err)
	}
	return id
}

func addItem(t *testing.T, c *Core, defID string, pos grid.Point) entity.ID {
	t.Helper()
	def := c.items.GetByID(defID)
	if def == nil {
		t.Fatalf("unknown item def %q", defID)
	}
	id := c.store.Create(entity.KindItem, def.ID, def.Name, pos)
	if err := c.index.PlaceItem(id, pos); err != nil {
		t.Fatalf("place item: %v", err)
	}
	return id
}

func teleport(t *testing.T, c *Core, pos grid.Point) {
	t.Helper()
	if err := c.index.Move(c.player, pos); err != nil {
		t.Fatalf("teleport: %v", err)
	}
	c.playerEntity().Pos = pos
	c.refreshVisibility()
}

func countKind(events []event.Event, kind event.Kind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func TestMoveIntoWallRejected(t *testing.T) {
	c := newTestCore(t, 42)
	tickBefore := c.Tick()
	seqBefore := c.journal.LastSeq()

	_, err := c.Step(context.Background(), Command{Kind: CommandMove, Dir: grid.DirNorth})
	if !IsRejected(err) {
		t.Fatalf("error = %v, want Rejected", err)
	}
	if !reflect.DeepEqual(err, Rejected{Reason: ReasonBlocked}) {
		t.Errorf("error = %v, want blocked rejection", err)
	}
	if c.Phase() != PhaseAwaitingInput {
		t.Errorf("phase = %v, want awaiting input", c.Phase())
	}
	if c.Tick() != tickBefore {
		t.Errorf("tick advanced on a rejected command: %d -> %d", tickBefore, c.Tick())
	}
	if c.journal.LastSeq() != seqBefore {
		t.Error("rejected command produced events")
	}
	if c.PlayerPos() != (grid.Point{X: 1, Y: 1}) {
		t.Errorf("player moved to %v on a rejected command", c.PlayerPos())
	}
}

func TestMoveEmitsEventAndAdvancesClock(t *testing.T) {
	c := newTestCore(t, 42)

	events, err := c.Step(context.Background(), Command{Kind: CommandMove, Dir: grid.DirEast})
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if countKind(events, event.KindMoved) != 1 {
		t.Fatalf("moved events = %d, want 1", countKind(events, event.KindMoved))
	}
	if c.PlayerPos() != (grid.Point{X: 2, Y: 1}) {
		t.Errorf("player at %v, want (2,1)", c.PlayerPos())
	}
	if id, ok := c.index.OccupantAt(grid.Point{X: 2, Y: 1}); !ok || id != c.player {
		t.Error("index does not reflect the move")
	}
	if c.Tick() == 0 {
		t.Error("clock did not advance")
	}
	if c.Phase() != PhaseAwaitingInput {
		t.Errorf("phase = %v, want awaiting input", c.Phase())
	}
}

func TestBumpAttackKillsMonster(t *testing.T) {
	c := newTestCore(t, 42)
	// Harmless and slow enough that only the player's attacks matter.
	mid := addMonster(t, c, "rat", grid.Point{X: 2, Y: 1},
		entity.Stats{HP: 2, MaxHP: 2, Attack: 0, Defense: 0, Speed: 100})

	died := 0
	for i := 0; i < 50 && c.store.Contains(mid); i++ {
		events, err := c.Step(context.Background(), Command{Kind: CommandMove, Dir: grid.DirEast})
		if err != nil {
			t.Fatalf("Step error: %v", err)
		}
		died += countKind(events, event.KindDied)
	}

	if c.store.Contains(mid) {
		t.Fatal("monster survived 50 bump attacks")
	}
	if died != 1 {
		t.Errorf("died events = %d, want exactly 1", died)
	}
	if _, ok := c.index.OccupantAt(grid.Point{X: 2, Y: 1}); ok {
		t.Error("dead monster still occupies its tile")
	}
	if _, ok := c.index.PositionOf(mid); ok {
		t.Error("dead monster still indexed")
	}
}

func TestAttackEmptyTileRejected(t *testing.T) {
	c := newTestCore(t, 42)
	_, err := c.Step(context.Background(), Command{Kind: CommandAttack, Dir: grid.DirEast})
	if !reflect.DeepEqual(err, Rejected{Reason: ReasonNoTarget}) {
		t.Fatalf("error = %v, want no_target rejection", err)
	}
}

func TestFastMonsterActsTwicePerTurn(t *testing.T) {
	c := newTestCore(t, 42)
	mid := addMonster(t, c, "rat", grid.Point{X: 5, Y: 1},
		entity.Stats{HP: 50, MaxHP: 50, Attack: 0, Defense: 0, Speed: 200})

	total := 0
	for i := 0; i < 4; i++ {
		events, err := c.Step(context.Background(), Command{Kind: CommandWait})
		if err != nil {
			t.Fatalf("Step error: %v", err)
		}
		for _, ev := range events {
			if ev.Actor == mid {
				total += 1
			}
		}
	}

	// Double speed earns one action the first turn's tick and two on each
	// turn after; the player's lower handle defers the first dispatch.
	if total != 6 {
		t.Errorf("monster actions over 4 turns = %d, want 6", total)
	}
}

func TestPickUpAndUseHealingPotion(t *testing.T) {
	c := newTestCore(t, 42)
	itemID := addItem(t, c, "potion_minor", grid.Point{X: 2, Y: 1})

	events, err := c.Step(context.Background(), Command{Kind: CommandMove, Dir: grid.DirEast})
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if countKind(events, event.KindPickedUp) != 1 {
		t.Fatal("walking onto an item did not pick it up")
	}
	inv := c.PlayerInventory()
	if len(inv) != 1 || inv[0].ID != itemID {
		t.Fatalf("inventory = %+v, want the potion", inv)
	}
	if items := c.index.ItemsAt(grid.Point{X: 2, Y: 1}); len(items) != 0 {
		t.Error("picked-up item still on the floor")
	}

	c.playerEntity().Stats.HP -= 10
	hurt := c.PlayerStats().HP

	events, err = c.Step(context.Background(), Command{Kind: CommandUseItem, Item: itemID})
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if countKind(events, event.KindItemUsed) != 1 {
		t.Fatal("no item_used event")
	}
	if got := c.PlayerStats().HP; got != hurt+8 {
		t.Errorf("HP after minor potion = %d, want %d", got, hurt+8)
	}
	if len(c.PlayerInventory()) != 0 {
		t.Error("consumed item still in inventory")
	}
	if c.store.Contains(itemID) {
		t.Error("consumed item still in the store")
	}
}

func TestUseMissingItemRejected(t *testing.T) {
	c := newTestCore(t, 42)
	_, err := c.Step(context.Background(), Command{Kind: CommandUseItem, Item: 999})
	if !reflect.DeepEqual(err, Rejected{Reason: ReasonNoItem}) {
		t.Fatalf("error = %v, want no_item rejection", err)
	}
}

func TestDescend(t *testing.T) {
	c := newTestCore(t, 42)

	_, err := c.Step(context.Background(), Command{Kind: CommandDescend})
	if !reflect.DeepEqual(err, Rejected{Reason: ReasonNoStairs}) {
		t.Fatalf("off-stairs descend: error = %v, want no_stairs rejection", err)
	}

	mid := addMonster(t, c, "rat", grid.Point{X: 4, Y: 4},
		entity.Stats{HP: 5, MaxHP: 5, Attack: 0, Defense: 0, Speed: 100})
	teleport(t, c, grid.Point{X: 7, Y: 5})

	events, err := c.Step(context.Background(), Command{Kind: CommandDescend})
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if countKind(events, event.KindDescended) != 1 {
		t.Fatal("no descended event")
	}
	if c.Depth() != 2 {
		t.Errorf("depth = %d, want 2", c.Depth())
	}
	if c.store.Contains(mid) {
		t.Error("monster followed the player downstairs")
	}
	if c.TileAt(c.PlayerPos()) != world.TerrainStairsUp {
		t.Errorf("player arrived on %v, want the up stair", c.TileAt(c.PlayerPos()))
	}
}

func TestDescendDeepestLevelWins(t *testing.T) {
	c := newTestCore(t, 42)
	c.cfg.MaxDepth = 1
	teleport(t, c, grid.Point{X: 7, Y: 5})

	events, err := c.Step(context.Background(), Command{Kind: CommandDescend})
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if countKind(events, event.KindGameOver) != 1 {
		t.Fatal("no game_over event")
	}
	if c.Phase() != PhaseGameOver || c.OverCause() != "victory" {
		t.Errorf("phase=%v cause=%q, want game over by victory", c.Phase(), c.OverCause())
	}

	if _, err := c.Step(context.Background(), Command{Kind: CommandWait}); err != ErrGameOver {
		t.Errorf("Step after game over: error = %v, want ErrGameOver", err)
	}
}

func TestPlayerDeathEndsRun(t *testing.T) {
	c := newTestCore(t, 42)
	c.playerEntity().Stats.HP = 3
	c.playerEntity().Stats.Defense = 0
	addMonster(t, c, "ogre", grid.Point{X: 2, Y: 1},
		entity.Stats{HP: 50, MaxHP: 50, Attack: 10, Defense: 50, Speed: 100})

	var died, over int
	for i := 0; i < 50 && c.Phase() != PhaseGameOver; i++ {
		events, err := c.Step(context.Background(), Command{Kind: CommandWait})
		if err != nil {
			t.Fatalf("Step error: %v", err)
		}
		died += countKind(events, event.KindDied)
		over += countKind(events, event.KindGameOver)
	}

	if c.Phase() != PhaseGameOver {
		t.Fatal("player survived 50 turns against an overwhelming attacker")
	}
	if c.OverCause() != "death" {
		t.Errorf("cause = %q, want death", c.OverCause())
	}
	if died != 1 || over != 1 {
		t.Errorf("died=%d game_over=%d, want exactly 1 of each", died, over)
	}
	if _, ok := c.index.PositionOf(c.Player()); ok {
		t.Error("dead player still on the map")
	}
	if !c.store.Contains(c.Player()) {
		t.Error("player record destroyed on death")
	}
}

func TestQuitEndsRun(t *testing.T) {
	c := newTestCore(t, 42)
	events, err := c.Step(context.Background(), Command{Kind: CommandQuit})
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if countKind(events, event.KindGameOver) != 1 || c.OverCause() != "quit" {
		t.Errorf("cause = %q with %d game_over events, want quit", c.OverCause(), countKind(events, event.KindGameOver))
	}
}

// script is a fixed command sequence used by the determinism tests.
// Rejections along the way are fine; both runs must reject identically.
func script() []Command {
	var cmds []Command
	dirs := []grid.Direction{
		grid.DirEast, grid.DirEast, grid.DirSouth, grid.DirSouth,
		grid.DirEast, grid.DirNorth, grid.DirWest, grid.DirSouth,
	}
	for i := 0; i < 30; i++ {
		if i%5 == 4 {
			cmds = append(cmds, Command{Kind: CommandWait})
			continue
		}
		cmds = append(cmds, Command{Kind: CommandMove, Dir: dirs[i%len(dirs)]})
	}
	return cmds
}

func runScript(t *testing.T, c *Core, cmds []Command) []event.Event {
	t.Helper()
	var out []event.Event
	for _, cmd := range cmds {
		events, err := c.Step(context.Background(), cmd)
		if err != nil && !IsRejected(err) && err != ErrGameOver {
			t.Fatalf("Step error: %v", err)
		}
		out = append(out, events...)
	}
	return out
}

func TestSameSeedSameEvents(t *testing.T) {
	cfg := DefaultConfig(4242)
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	b, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	ea := runScript(t, a, script())
	eb := runScript(t, b, script())

	if !reflect.DeepEqual(ea, eb) {
		t.Fatalf("event streams diverged: %d vs %d events", len(ea), len(eb))
	}
	if a.Tick() != b.Tick() || a.PlayerPos() != b.PlayerPos() {
		t.Error("final state diverged between identical runs")
	}
}

func TestSnapshotRestoreResumesIdentically(t *testing.T) {
	cfg := DefaultConfig(777)
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	warmup := script()[:10]
	rest := script()[10:]
	runScript(t, a, warmup)

	snap, err := a.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}

	b, err := Restore(cfg, snap)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if b.Depth() != a.Depth() || b.Tick() != a.Tick() || b.PlayerPos() != a.PlayerPos() {
		t.Fatal("restored core differs from the original before any command")
	}

	ea := runScript(t, a, rest)
	eb := runScript(t, b, rest)
	if !reflect.DeepEqual(ea, eb) {
		t.Fatalf("restored run diverged: %d vs %d events", len(ea), len(eb))
	}
	if a.PlayerPos() != b.PlayerPos() || a.Tick() != b.Tick() {
		t.Error("final state diverged after restore")
	}
}

func TestSnapshotDeepCopies(t *testing.T) {
	c := newTestCore(t, 42)
	snap, err := c.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}

	hpBefore := snap.Entities[0].Stats.HP
	c.playerEntity().Stats.HP = 1
	if snap.Entities[0].Stats.HP != hpBefore {
		t.Error("snapshot aliases live entity records")
	}
}

func TestVisibilityAndExploration(t *testing.T) {
	c := newTestCore(t, 42)

	if !c.Visible(c.PlayerPos()) {
		t.Error("player's own tile not visible")
	}
	// The whole interior fits inside the sight radius of an open room.
	for y := 1; y <= 5; y++ {
		for x := 1; x <= 7; x++ {
			p := grid.Point{X: x, Y: y}
			if !c.Visible(p) {
				t.Errorf("open tile %v not visible", p)
			}
			if !c.Explored(p) {
				t.Errorf("visible tile %v not marked explored", p)
			}
		}
	}
}
