package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mazequest/engine/game/battle"
	"github.com/mazequest/engine/game/lock"
)

func createTestPackDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "pack-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func createValidPack() *PuzzlePack {
	return &PuzzlePack{
		Name:        "Test Pack",
		Description: "Test puzzle pack",
		Maze: &MazeConfig{
			Layout: []string{
				"S  ",
				" # ",
				"G E",
			},
		},
		Lock: &lock.Puzzle{
			Digest: lock.Digest(lock.Candidate{7, 1, 3}),
			Clues: []lock.Clue{
				{Kind: lock.ClueDigitOdd, Pos: 0},
				{Kind: lock.ClueDigitPrime, Pos: 2},
			},
		},
		Battle: &battle.Setup{
			BossHP:   30,
			PlayerHP: 10,
			Skills:   []battle.Skill{{Name: "strike", Damage: 15, Cooldown: 1}},
		},
	}
}

func writePackFile(t *testing.T, dir, name string, pack *PuzzlePack) {
	data, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal pack: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write pack file: %v", err)
	}
}

func TestLoadPack(t *testing.T) {
	dir := createTestPackDir(t)
	writePackFile(t, dir, "classic", createValidPack())

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	pack, err := m.LoadPack("classic")
	if err != nil {
		t.Fatalf("LoadPack failed: %v", err)
	}
	if pack.Name != "Test Pack" {
		t.Errorf("pack name = %q, want %q", pack.Name, "Test Pack")
	}
	if pack.Maze == nil || pack.Lock == nil || pack.Battle == nil {
		t.Error("pack sections missing after load")
	}

	// Second load hits the cache and returns the same pointer.
	again, err := m.LoadPack("classic")
	if err != nil {
		t.Fatalf("cached LoadPack failed: %v", err)
	}
	if again != pack {
		t.Error("expected cached pack pointer")
	}
}

func TestLoadPackNotFound(t *testing.T) {
	dir := createTestPackDir(t)
	writePackFile(t, dir, "classic", createValidPack())

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if _, err := m.LoadPack("missing"); !errors.Is(err, ErrPackNotFound) {
		t.Errorf("expected ErrPackNotFound, got %v", err)
	}
}

func TestLoadPackInvalid(t *testing.T) {
	dir := createTestPackDir(t)

	bad := createValidPack()
	bad.Maze.Layout = []string{"S  ", " # "} // no exit
	writePackFile(t, dir, "broken", bad)
	writePackFile(t, dir, "classic", createValidPack())

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if _, err := m.LoadPack("broken"); !errors.Is(err, ErrInvalidPack) {
		t.Errorf("expected ErrInvalidPack, got %v", err)
	}

	// ListPacks skips the broken one.
	summaries, err := m.ListPacks()
	if err != nil {
		t.Fatalf("ListPacks failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].PackID != "classic" {
		t.Errorf("summaries = %+v, want only classic", summaries)
	}
}

func TestListPacksSummaries(t *testing.T) {
	dir := createTestPackDir(t)

	mazeOnly := &PuzzlePack{
		Name: "maze only",
		Maze: &MazeConfig{Layout: []string{"SE"}},
	}
	writePackFile(t, dir, "maze_only", mazeOnly)
	writePackFile(t, dir, "classic", createValidPack())

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	summaries, err := m.ListPacks()
	if err != nil {
		t.Fatalf("ListPacks failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	for _, s := range summaries {
		switch s.PackID {
		case "classic":
			if !s.HasMaze || !s.HasLock || !s.HasBattle {
				t.Errorf("classic summary = %+v, want all sections", s)
			}
		case "maze_only":
			if !s.HasMaze || s.HasLock || s.HasBattle {
				t.Errorf("maze_only summary = %+v, want maze only", s)
			}
		default:
			t.Errorf("unexpected pack id %q", s.PackID)
		}
	}
}

func TestDefaultPack(t *testing.T) {
	dir := createTestPackDir(t)
	writePackFile(t, dir, "classic", createValidPack())

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if got := m.GetDefault(); got == nil || got.Name != "Test Pack" {
		t.Errorf("default pack = %+v, want classic", got)
	}
}

func TestDefaultPackFallsBackToBuiltin(t *testing.T) {
	dir := createTestPackDir(t)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	def := m.GetDefault()
	if def == nil || def.Name != "default" {
		t.Errorf("default pack = %+v, want built-in minimal pack", def)
	}
	if err := def.Validate(); err != nil {
		t.Errorf("built-in pack does not validate: %v", err)
	}
}

func TestSymbolsLegend(t *testing.T) {
	mc := &MazeConfig{
		Layout: []string{"A.Z"},
		Legend: map[string]string{"start": "A", "exit": "Z", "path": "."},
	}

	grid, err := mc.Grid()
	if err != nil {
		t.Fatalf("Grid failed: %v", err)
	}
	if grid.Width() != 3 || grid.Height() != 1 {
		t.Errorf("grid is %dx%d, want 3x1", grid.Width(), grid.Height())
	}

	bad := &MazeConfig{Layout: []string{"SE"}, Legend: map[string]string{"portal": "@"}}
	if _, err := bad.Grid(); err == nil {
		t.Error("unknown legend key must fail")
	}
}

func TestSavePackRoundTrip(t *testing.T) {
	dir := createTestPackDir(t)
	writePackFile(t, dir, "classic", createValidPack())

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	pack := createValidPack()
	pack.Name = "Saved Pack"
	if err := m.SavePack("saved", pack); err != nil {
		t.Fatalf("SavePack failed: %v", err)
	}

	if err := m.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}
	loaded, err := m.LoadPack("saved")
	if err != nil {
		t.Fatalf("LoadPack after save failed: %v", err)
	}
	if loaded.Name != "Saved Pack" {
		t.Errorf("loaded name = %q, want %q", loaded.Name, "Saved Pack")
	}
}

func TestConcurrentLoads(t *testing.T) {
	dir := createTestPackDir(t)
	writePackFile(t, dir, "classic", createValidPack())

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.LoadPack("classic"); err != nil {
				t.Errorf("concurrent LoadPack failed: %v", err)
			}
		}()
	}
	wg.Wait()
}
