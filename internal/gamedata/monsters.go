package gamedata

import (
	"errors"

	"github.com/samdwyer/delve/internal/rng"
)

// MonsterDef defines a monster species loaded from JSON.
type MonsterDef struct {
	ID          string `json:"id"`          // Unique identifier (e.g., "goblin")
	Name        string `json:"name"`        // Display name (e.g., "Goblin")
	Glyph       string `json:"glyph"`       // Single character for rendering (e.g., "g")
	Color       string `json:"color"`       // Hex color code (e.g., "#00FF00")
	HP          int    `json:"hp"`          // Base hit points
	Attack      int    `json:"attack"`      // Base attack power
	Defense     int    `json:"defense"`     // Base defense value
	Speed       int    `json:"speed"`       // Energy gained per clock cycle (100 = normal)
	SpawnWeight int    `json:"spawnWeight"` // Relative spawn frequency (higher = more common)
	MinDepth    int    `json:"minDepth"`    // Shallowest level this species appears on
}

// GlyphRune returns the glyph as a rune for rendering.
func (m *MonsterDef) GlyphRune() rune {
	if len(m.Glyph) == 0 {
		return '?'
	}
	return rune(m.Glyph[0])
}

// MonstersFile represents the structure of monsters.json.
type MonstersFile struct {
	Monsters []MonsterDef `json:"monsters"`
}

// MonsterRegistry holds loaded monster definitions and provides spawning
// utilities.
type MonsterRegistry struct {
	monsters []MonsterDef
}

// NewMonsterRegistry creates a registry from loaded monster definitions.
func NewMonsterRegistry(monsters []MonsterDef) *MonsterRegistry {
	return &MonsterRegistry{monsters: monsters}
}

// LoadMonsterRegistry loads and creates a registry from the embedded
// monsters.json.
func LoadMonsterRegistry() (*MonsterRegistry, error) {
	file, err := Load[MonstersFile]("monsters.json")
	if err != nil {
		return nil, err
	}
	if len(file.Monsters) == 0 {
		return nil, errors.New("no monsters loaded from monsters.json")
	}
	return NewMonsterRegistry(file.Monsters), nil
}

// MustLoadMonsterRegistry loads a registry, panicking on error.
func MustLoadMonsterRegistry() *MonsterRegistry {
	registry, err := LoadMonsterRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// SpawnRandom selects a random monster definition using weighted
// probability among the species allowed at the given depth. Returns nil if
// nothing can spawn there.
func (r *MonsterRegistry) SpawnRandom(rc *rng.Context, depth int) *MonsterDef {
	weights := make([]int, len(r.monsters))
	any := false
	for i := range r.monsters {
		if r.monsters[i].MinDepth <= depth {
			weights[i] = r.monsters[i].SpawnWeight
			if weights[i] > 0 {
				any = true
			}
		}
	}
	if !any {
		return nil
	}

	idx, err := rc.ChooseWeighted(weights)
	if err != nil {
		return nil
	}
	return &r.monsters[idx]
}

// GetByID returns the monster definition with the given ID, or nil if not
// found.
func (r *MonsterRegistry) GetByID(id string) *MonsterDef {
	for i := range r.monsters {
		if r.monsters[i].ID == id {
			return &r.monsters[i]
		}
	}
	return nil
}

// All returns all monster definitions.
func (r *MonsterRegistry) All() []MonsterDef {
	return r.monsters
}

// Count returns the number of monster species in the registry.
func (r *MonsterRegistry) Count() int {
	return len(r.monsters)
}
