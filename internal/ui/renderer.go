package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/delve/internal/entity"
	"github.com/samdwyer/delve/internal/game"
	"github.com/samdwyer/delve/internal/gamedata"
	"github.com/samdwyer/delve/internal/grid"
	"github.com/samdwyer/delve/internal/world"
)

// Renderer draws the simulation to the screen: the map under fog of war,
// entities in sight, a status line and the recent message log.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws one complete frame. Tiles in the player's field of view draw
// lit; tiles only remembered from earlier draw dimmed; everything else
// stays dark.
func (r *Renderer) Render(core *game.Core, messages []string) {
	r.screen.Clear()

	width, height := core.MapSize()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := grid.Point{X: x, Y: y}
			switch {
			case core.Visible(p):
				r.screen.SetContent(x, y, core.TileAt(p).Rune(), tileStyle(core.TileAt(p)))
			case core.Explored(p):
				r.screen.SetContent(x, y, core.TileAt(p).Rune(), dimStyle)
			}
		}
	}

	for _, v := range core.VisibleEntities() {
		glyph, style := r.look(core, v)
		r.screen.SetContent(v.Pos.X, v.Pos.Y, glyph, style)
	}

	r.renderStatus(core, height)
	for i, msg := range messages {
		r.renderLine(msg, height+1+i)
	}

	r.screen.Show()
}

var dimStyle = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)

func tileStyle(t world.Terrain) tcell.Style {
	switch t {
	case world.TerrainWall:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case world.TerrainDoorClosed, world.TerrainDoorOpen:
		return tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown)
	case world.TerrainStairsUp, world.TerrainStairsDown:
		return tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
}

// look resolves an entity's glyph and color from its definition.
func (r *Renderer) look(core *game.Core, v game.EntityView) (rune, tcell.Style) {
	switch v.Kind {
	case entity.KindPlayer:
		return '@', tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	case entity.KindMonster:
		if def := core.MonsterDef(v.DefID); def != nil {
			if color, err := gamedata.ParseHexColor(def.Color); err == nil {
				return def.GlyphRune(), tcell.StyleDefault.Foreground(color)
			}
			return def.GlyphRune(), tcell.StyleDefault
		}
	case entity.KindItem:
		if def := core.ItemDef(v.DefID); def != nil {
			if color, err := gamedata.ParseHexColor(def.Color); err == nil {
				return def.GlyphRune(), tcell.StyleDefault.Foreground(color)
			}
			return def.GlyphRune(), tcell.StyleDefault
		}
	}
	return '?', tcell.StyleDefault
}

// renderStatus draws the HP / depth / turn line under the map.
func (r *Renderer) renderStatus(core *game.Core, y int) {
	stats := core.PlayerStats()
	status := fmt.Sprintf("HP %d/%d  Atk %d  Def %d  Depth %d  Turn %d",
		stats.HP, stats.MaxHP, stats.Attack, stats.Defense, core.Depth(), core.Tick())
	if n := len(core.PlayerInventory()); n > 0 {
		status += fmt.Sprintf("  Items %d", n)
	}
	if cause := core.OverCause(); cause != "" {
		status += "  [" + cause + "]"
	}
	r.renderLine(status, y)
}

func (r *Renderer) renderLine(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range msg {
		r.screen.SetContent(i, y, ch, style)
	}
}
