package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mazequest/engine/game/config"
	"github.com/mazequest/engine/game/maze"
)

// ValidationResult collects the outcome of checking one pack file. When
// Valid is true, Errors holds informational "✓" lines instead of
// failures.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validatePack loads a pack file and checks every section it declares:
// the maze layout and its connectivity, the lock digest and clues, and
// the battle setup.
func validatePack(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var pack config.PuzzlePack
	if err := json.Unmarshal(data, &pack); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to parse JSON: %v", err))
		return result
	}

	if pack.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Pack has no name")
	}

	if pack.Maze == nil && pack.Lock == nil && pack.Battle == nil {
		result.Valid = false
		result.Errors = append(result.Errors, "Pack declares no sections (maze, lock, or battle)")
		return result
	}

	if pack.Maze != nil {
		validateMaze(pack.Maze, &result)
	}
	if pack.Lock != nil {
		validateLock(&pack, &result)
	}
	if pack.Battle != nil {
		validateBattle(&pack, &result)
	}

	return result
}

// validateMaze parses the layout and flood-fills from the start to make
// sure the exit and every resource cell can actually be visited.
func validateMaze(mc *config.MazeConfig, result *ValidationResult) {
	grid, err := mc.Grid()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Maze: %v", err))
		return
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Maze: %dx%d grid parsed", grid.Width(), grid.Height()))

	reachable := grid.Reachable()

	if !reachable.Has(grid.Exit()) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Connectivity failure: exit at (%d,%d) unreachable from start", grid.Exit().X, grid.Exit().Y))
	}

	goldTotal, goldReachable := 0, 0
	traps := 0
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			p := maze.Position{X: x, Y: y}
			switch grid.At(p) {
			case maze.Gold:
				goldTotal++
				if reachable.Has(p) {
					goldReachable++
				}
			case maze.Trap:
				traps++
			}
		}
	}

	if goldTotal > goldReachable {
		// Unreachable gold is legal but almost always a layout mistake.
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Maze: warning, %d/%d gold cells unreachable from start", goldTotal-goldReachable, goldTotal))
	}
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Connectivity: exit reachable, %d gold cells, %d traps", goldReachable, traps))
	}
}

// validateLock checks the digest and clue structure without running a
// solve; an exhaustive consistency check belongs to the solver itself.
func validateLock(pack *config.PuzzlePack, result *ValidationResult) {
	if err := pack.Lock.Validate(); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Lock: %v", err))
		return
	}
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Lock: digest well-formed, %d clues", len(pack.Lock.Clues)))
}

// validateBattle checks the setup and flags fights that can never be
// won because no skill deals damage.
func validateBattle(pack *config.PuzzlePack, result *ValidationResult) {
	if err := pack.Battle.Validate(); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Battle: %v", err))
		return
	}

	maxDamage := 0
	for _, sk := range pack.Battle.Skills {
		if sk.Damage > maxDamage {
			maxDamage = sk.Damage
		}
	}
	if maxDamage <= 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Battle: no skill deals damage, fight is unwinnable")
		return
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Battle: boss %d HP, player %d HP, %d skills", pack.Battle.BossHP, pack.Battle.PlayerHP, len(pack.Battle.Skills)))
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding pack files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No pack files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validatePack(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All packs are valid!")
	} else {
		fmt.Println("❌ Some packs have errors")
		os.Exit(1)
	}
}
