package game

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/samdwyer/delve/internal/world"
)

// Config holds simulation tuning. Everything is loadable from the
// environment so a .env file can drive a whole run, but the zero-config
// defaults are playable.
type Config struct {
	// Seed drives all generation and combat randomness. Zero means the
	// caller picks one (main uses the clock; tests always set it).
	Seed uint64 `env:"DELVE_SEED" envDefault:"0"`

	// MaxDepth is the deepest level; taking its down stair wins the run.
	MaxDepth int `env:"DELVE_MAX_DEPTH" envDefault:"5"`

	// FOVRadius bounds the player's and monsters' sight.
	FOVRadius int `env:"DELVE_FOV_RADIUS" envDefault:"8"`

	// ActionThreshold is the energy an actor accumulates before it may
	// act; energy grows by the actor's speed each clock cycle. The
	// numbers are configurable rather than fixed so speed tuning does
	// not require recompiling.
	ActionThreshold int `env:"DELVE_ACTION_THRESHOLD" envDefault:"100"`

	PlayerHP      int `env:"DELVE_PLAYER_HP" envDefault:"30"`
	PlayerAttack  int `env:"DELVE_PLAYER_ATTACK" envDefault:"5"`
	PlayerDefense int `env:"DELVE_PLAYER_DEFENSE" envDefault:"2"`
	PlayerSpeed   int `env:"DELVE_PLAYER_SPEED" envDefault:"100"`

	// MaxMonstersPerRoom bounds the spawn roll for each room beyond the
	// entrance room; ItemChance is the percent chance a room holds an item.
	MaxMonstersPerRoom int `env:"DELVE_MAX_MONSTERS_PER_ROOM" envDefault:"2"`
	ItemChance         int `env:"DELVE_ITEM_CHANCE" envDefault:"35"`

	// SavePath is where the frontend stores the snapshot on save.
	SavePath string `env:"DELVE_SAVE_PATH" envDefault:"delve-save.json"`

	Gen world.Params
}

// DefaultConfig returns the standard configuration with the given seed.
func DefaultConfig(seed uint64) Config {
	return Config{
		Seed:               seed,
		MaxDepth:           5,
		FOVRadius:          8,
		ActionThreshold:    100,
		PlayerHP:           30,
		PlayerAttack:       5,
		PlayerDefense:      2,
		PlayerSpeed:        100,
		MaxMonstersPerRoom: 2,
		ItemChance:         35,
		SavePath:           "delve-save.json",
		Gen:                world.DefaultParams(),
	}
}

// LoadConfig reads configuration from the environment. Callers load a
// .env file first if they want one (main does, via godotenv).
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
