package ui

import (
	"context"
	"reflect"
	"testing"

	"github.com/samdwyer/delve/internal/event"
	"github.com/samdwyer/delve/internal/game"
)

func TestMessages(t *testing.T) {
	core, err := game.New(context.Background(), game.DefaultConfig(5))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	player := core.Player()

	events := []event.Event{
		{Kind: event.KindHit, Actor: player, Target: 9999, Amount: 3},
		{Kind: event.KindMissed, Actor: 9999, Target: player},
		{Kind: event.KindDied, Actor: player, Target: 9999, Text: "Goblin"},
		{Kind: event.KindPickedUp, Actor: player, Text: "Minor Healing Potion"},
		{Kind: event.KindItemUsed, Actor: player, Amount: 8, Text: "Minor Healing Potion"},
		{Kind: event.KindDoorOpened, Actor: player},
		{Kind: event.KindDescended, Actor: player, Amount: 2},
		{Kind: event.KindMessage, Text: "A cold draft blows past."},
		{Kind: event.KindGameOver, Text: "victory"},
	}

	want := []string{
		"You hit the fallen foe for 3.",
		"The fallen foe misses you.",
		"The Goblin dies.",
		"You pick up the Minor Healing Potion.",
		"You use the Minor Healing Potion.",
		"You open the door.",
		"You descend to depth 2.",
		"A cold draft blows past.",
		"You escape with the depths behind you. You win!",
	}

	got := Messages(core, events)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Messages mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestMessagesSkipsMonsterDoorNoise(t *testing.T) {
	core, err := game.New(context.Background(), game.DefaultConfig(5))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	events := []event.Event{
		{Kind: event.KindDoorOpened, Actor: 9999},
		{Kind: event.KindMoved, Actor: 9999},
	}
	if got := Messages(core, events); len(got) != 0 {
		t.Errorf("expected no lines for monster movement, got %q", got)
	}
}
