// Package main is the entry point for Delve.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"

	"github.com/samdwyer/delve/internal/game"
	"github.com/samdwyer/delve/internal/grid"
	"github.com/samdwyer/delve/internal/save"
	"github.com/samdwyer/delve/internal/telemetry"
	"github.com/samdwyer/delve/internal/ui"
)

// messageLines is how many log lines show under the status bar.
const messageLines = 3

func main() {
	// Load .env for local development; env vars may also be set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not loaded: %v", err)
	}
	setupOTelEnv()

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Game will run without observability")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	cfg, err := game.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Game error: %v", err)
	}
}

// run owns the terminal and the main loop: poll a key, map it to a command,
// step the simulation, redraw.
func run(ctx context.Context, cfg game.Config) error {
	screen, err := ui.NewScreen()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Close()

	store := save.NewJSONStore(cfg.SavePath)
	core, resumed, err := openRun(ctx, cfg, store)
	if err != nil {
		return err
	}

	renderer := ui.NewRenderer(screen)
	var messages []string
	if resumed {
		messages = append(messages, "Welcome back.")
	} else {
		messages = append(messages, fmt.Sprintf("You descend into the dark. (seed %d)", cfg.Seed))
	}
	renderer.Render(core, messages)

	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()

		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return saveAndExit(core, store)
			}
			if ev.Key() == tcell.KeyRune && ev.Rune() == 'S' {
				if err := saveRun(core, store); err != nil {
					return err
				}
				messages = tail(append(messages, "Saved."))
				renderer.Render(core, messages)
				continue
			}

			cmd, ok := commandFor(ev, core)
			if !ok {
				continue
			}

			events, err := core.Step(ctx, cmd)
			switch {
			case game.IsRejected(err):
				continue
			case errors.Is(err, game.ErrGameOver):
				return nil
			case err != nil:
				return err
			}

			messages = tail(append(messages, ui.Messages(core, events)...))
			renderer.Render(core, messages)

			if core.Phase() == game.PhaseGameOver {
				_ = store.Delete()
				messages = tail(append(messages, "Press any key to exit."))
				renderer.Render(core, messages)
				screen.PollEvent()
				return nil
			}
		}
	}
}

// openRun resumes a saved run when one exists, otherwise starts fresh.
func openRun(ctx context.Context, cfg game.Config, store *save.JSONStore) (*game.Core, bool, error) {
	snap, err := store.Load()
	switch {
	case errors.Is(err, save.ErrNoSave):
		core, err := game.New(ctx, cfg)
		return core, false, err
	case err != nil:
		return nil, false, err
	}

	core, err := game.Restore(cfg, snap)
	if err != nil {
		return nil, false, fmt.Errorf("resume save: %w", err)
	}
	return core, true, nil
}

func saveRun(core *game.Core, store *save.JSONStore) error {
	snap, err := core.Snapshot()
	if err != nil {
		return err
	}
	return store.Save(snap)
}

// saveAndExit persists a live run on the way out. A finished run has
// nothing worth keeping.
func saveAndExit(core *game.Core, store *save.JSONStore) error {
	if core.Phase() == game.PhaseGameOver {
		return store.Delete()
	}
	return saveRun(core, store)
}

// commandFor maps a key event to a simulation command. Movement follows
// arrows and vi keys, with y/u/b/n diagonals.
func commandFor(ev *tcell.EventKey, core *game.Core) (game.Command, bool) {
	move := func(d grid.Direction) (game.Command, bool) {
		return game.Command{Kind: game.CommandMove, Dir: d}, true
	}

	switch ev.Key() {
	case tcell.KeyUp:
		return move(grid.DirNorth)
	case tcell.KeyDown:
		return move(grid.DirSouth)
	case tcell.KeyLeft:
		return move(grid.DirWest)
	case tcell.KeyRight:
		return move(grid.DirEast)
	case tcell.KeyRune:
	default:
		return game.Command{}, false
	}

	switch r := ev.Rune(); r {
	case 'k':
		return move(grid.DirNorth)
	case 'j':
		return move(grid.DirSouth)
	case 'h':
		return move(grid.DirWest)
	case 'l':
		return move(grid.DirEast)
	case 'y':
		return move(grid.DirNorthWest)
	case 'u':
		return move(grid.DirNorthEast)
	case 'b':
		return move(grid.DirSouthWest)
	case 'n':
		return move(grid.DirSouthEast)
	case '.', ' ':
		return game.Command{Kind: game.CommandWait}, true
	case '>':
		return game.Command{Kind: game.CommandDescend}, true
	case 'Q':
		return game.Command{Kind: game.CommandQuit}, true
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		inv := core.PlayerInventory()
		idx := int(r - '1')
		if idx >= len(inv) {
			return game.Command{}, false
		}
		return game.Command{Kind: game.CommandUseItem, Item: inv[idx].ID}, true
	}
	return game.Command{}, false
}

// tail keeps the newest message lines that fit the log area.
func tail(messages []string) []string {
	if len(messages) <= messageLines {
		return messages
	}
	return messages[len(messages)-messageLines:]
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	apiKey := os.Getenv("HONEYCOMB_DELVE_API_KEY")
	dataset := os.Getenv("HONEYCOMB_DELVE_DATASET")
	if dataset == "" {
		dataset = "delve"
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
