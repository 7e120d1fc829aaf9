package config

import (
	"fmt"

	"github.com/mazequest/engine/game/battle"
	"github.com/mazequest/engine/game/lock"
	"github.com/mazequest/engine/game/maze"
)

// PuzzlePack bundles the scenarios the solvers run against: a maze
// layout, a code lock, and a boss fight. Any of the three sections may
// be omitted.
type PuzzlePack struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Maze        *MazeConfig   `json:"maze,omitempty"`
	Lock        *lock.Puzzle  `json:"lock,omitempty"`
	Battle      *battle.Setup `json:"battle,omitempty"`
}

// MazeConfig is the serialized form of a grid: layout rows plus an
// optional legend remapping the cell symbols.
type MazeConfig struct {
	Layout []string          `json:"layout"`
	Legend map[string]string `json:"legend,omitempty"`
}

// Symbols resolves the legend into a symbol table, starting from the
// defaults and overriding whatever the legend names.
func (mc *MazeConfig) Symbols() (maze.Symbols, error) {
	sym := maze.DefaultSymbols()
	for key, val := range mc.Legend {
		if len(val) != 1 {
			return sym, fmt.Errorf("legend %q: symbol must be a single character, got %q", key, val)
		}
		b := val[0]
		switch key {
		case "wall":
			sym.Wall = b
		case "path":
			sym.Path = b
		case "start":
			sym.Start = b
		case "exit":
			sym.Exit = b
		case "gold":
			sym.Gold = b
		case "trap":
			sym.Trap = b
		case "locker":
			sym.Locker = b
		case "boss":
			sym.Boss = b
		default:
			return sym, fmt.Errorf("legend %q: unknown cell type", key)
		}
	}
	return sym, nil
}

// Grid parses the layout into a grid using the resolved symbols.
func (mc *MazeConfig) Grid() (*maze.Grid, error) {
	sym, err := mc.Symbols()
	if err != nil {
		return nil, err
	}
	return maze.Parse(mc.Layout, sym)
}

// Validate checks every section of the pack that is present.
func (p *PuzzlePack) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("pack has no name")
	}
	if p.Maze != nil {
		if _, err := p.Maze.Grid(); err != nil {
			return fmt.Errorf("maze: %w", err)
		}
	}
	if p.Lock != nil {
		if err := p.Lock.Validate(); err != nil {
			return fmt.Errorf("lock: %w", err)
		}
	}
	if p.Battle != nil {
		if err := p.Battle.Validate(); err != nil {
			return fmt.Errorf("battle: %w", err)
		}
	}
	return nil
}

// PackSummary describes an available pack without its full contents.
type PackSummary struct {
	Filename    string `json:"filename"`
	PackID      string `json:"pack_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	HasMaze     bool   `json:"has_maze"`
	HasLock     bool   `json:"has_lock"`
	HasBattle   bool   `json:"has_battle"`
}
