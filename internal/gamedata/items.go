package gamedata

import (
	"errors"

	"github.com/samdwyer/delve/internal/rng"
)

// ItemEffect identifies what using an item does.
type ItemEffect string

const (
	// EffectHeal restores HP equal to the item's power.
	EffectHeal ItemEffect = "heal"
	// EffectStrength raises the user's attack by the item's power.
	EffectStrength ItemEffect = "strength"
)

// ItemDef defines an item type loaded from JSON.
type ItemDef struct {
	ID          string     `json:"id"`          // Unique identifier (e.g., "potion_minor")
	Name        string     `json:"name"`        // Display name (e.g., "Minor Healing Potion")
	Glyph       string     `json:"glyph"`       // Single character for rendering (e.g., "!")
	Color       string     `json:"color"`       // Hex color code
	Effect      ItemEffect `json:"effect"`      // What happens on use
	Power       int        `json:"power"`       // Effect magnitude
	SpawnWeight int        `json:"spawnWeight"` // Relative spawn frequency
}

// GlyphRune returns the glyph as a rune for rendering.
func (d *ItemDef) GlyphRune() rune {
	if len(d.Glyph) == 0 {
		return '?'
	}
	return rune(d.Glyph[0])
}

// ItemsFile represents the structure of items.json.
type ItemsFile struct {
	Items []ItemDef `json:"items"`
}

// ItemRegistry holds loaded item definitions.
type ItemRegistry struct {
	items []ItemDef
}

// NewItemRegistry creates a registry from loaded item definitions.
func NewItemRegistry(items []ItemDef) *ItemRegistry {
	return &ItemRegistry{items: items}
}

// LoadItemRegistry loads and creates a registry from the embedded items.json.
func LoadItemRegistry() (*ItemRegistry, error) {
	file, err := Load[ItemsFile]("items.json")
	if err != nil {
		return nil, err
	}
	if len(file.Items) == 0 {
		return nil, errors.New("no items loaded from items.json")
	}
	return NewItemRegistry(file.Items), nil
}

// MustLoadItemRegistry loads a registry, panicking on error.
func MustLoadItemRegistry() *ItemRegistry {
	registry, err := LoadItemRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// SpawnRandom selects a random item definition using weighted probability.
func (r *ItemRegistry) SpawnRandom(rc *rng.Context) *ItemDef {
	weights := make([]int, len(r.items))
	for i := range r.items {
		weights[i] = r.items[i].SpawnWeight
	}
	idx, err := rc.ChooseWeighted(weights)
	if err != nil {
		return nil
	}
	return &r.items[idx]
}

// GetByID returns the item definition with the given ID, or nil if not found.
func (r *ItemRegistry) GetByID(id string) *ItemDef {
	for i := range r.items {
		if r.items[i].ID == id {
			return &r.items[i]
		}
	}
	return nil
}

// All returns all item definitions.
func (r *ItemRegistry) All() []ItemDef {
	return r.items
}

// Count returns the number of item types in the registry.
func (r *ItemRegistry) Count() int {
	return len(r.items)
}
