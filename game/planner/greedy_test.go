package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/mazequest/engine/game/maze"
)

func TestGreedyCollectContract(t *testing.T) {
	g := parseGrid(t, []string{
		"S G ",
		"    ",
		" G E",
	})

	res, err := GreedyCollect(context.Background(), g, DefaultVisionRange)
	if err != nil {
		t.Fatalf("GreedyCollect failed: %v", err)
	}

	if res.Route[0] != g.Start() {
		t.Errorf("route starts at %+v, want start", res.Route[0])
	}
	if res.Route[len(res.Route)-1] != g.Exit() {
		t.Errorf("route ends at %+v, want exit", res.Route[len(res.Route)-1])
	}
	for i := 1; i < len(res.Route); i++ {
		a, b := res.Route[i-1], res.Route[i]
		if abs(a.X-b.X)+abs(a.Y-b.Y) != 1 {
			t.Errorf("step %d is not orthogonal: %+v -> %+v", i, a, b)
		}
	}
	// Both gold cells sit within vision of the walk; the greedy collector
	// should pick up all 100.
	if res.Collected != 2*maze.GoldValue {
		t.Errorf("collected = %d, want %d", res.Collected, 2*maze.GoldValue)
	}
}

func TestGreedyIgnoresOutOfVisionResources(t *testing.T) {
	// The only gold is well outside a vision range of 1, so the
	// collector heads straight for the exit.
	g := parseGrid(t, []string{
		"S    G",
		"      ",
		"E     ",
	})

	res, err := GreedyCollect(context.Background(), g, 1)
	if err != nil {
		t.Fatalf("GreedyCollect failed: %v", err)
	}
	if res.Collected != 0 {
		t.Errorf("collected = %d, want 0 with vision 1", res.Collected)
	}
	if len(res.Route) != 3 {
		t.Errorf("route length = %d, want 3 (straight down)", len(res.Route))
	}
}

func TestGreedyUnreachableExit(t *testing.T) {
	g := parseGrid(t, []string{
		"S# ",
		" #E",
	})

	_, err := GreedyCollect(context.Background(), g, DefaultVisionRange)
	if !errors.Is(err, ErrUnreachableExit) {
		t.Errorf("expected ErrUnreachableExit, got %v", err)
	}
}

func TestGreedyDeterminism(t *testing.T) {
	g := parseGrid(t, []string{
		"S G",
		"G  ",
		"  E",
	})

	a, err := GreedyCollect(context.Background(), g, DefaultVisionRange)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := GreedyCollect(context.Background(), g, DefaultVisionRange)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if a.Collected != b.Collected || len(a.Route) != len(b.Route) {
		t.Error("greedy walks diverged across runs")
	}
}
