// Command solve runs the puzzle engines against a pack file from the
// command line. It is the offline counterpart of the HTTP API: the same
// planner, lock solver, and battle strategist, with colored terminal
// output instead of JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/urfave/cli/v3"

	"github.com/mazequest/engine/game/battle"
	"github.com/mazequest/engine/game/config"
	"github.com/mazequest/engine/game/lock"
	"github.com/mazequest/engine/game/maze"
	"github.com/mazequest/engine/game/planner"
)

var (
	styleHeading = color.Style{color.FgCyan, color.OpBold}
	styleLabel   = color.Style{color.FgGray}
	styleValue   = color.Style{color.FgGreen, color.OpBold}
	styleError   = color.Style{color.FgRed, color.OpBold}
	styleRoute   = color.Style{color.FgMagenta}
)

func main() {
	cmd := &cli.Command{
		Name:  "solve",
		Usage: "run the maze, lock, and battle solvers against a puzzle pack",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "pack",
				Aliases: []string{"p"},
				Value:   "configs/classic.json",
				Usage:   "path to the puzzle pack file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "maze",
				Usage:  "find the optimal-value route through the maze",
				Action: runMaze,
			},
			{
				Name:  "greedy",
				Usage: "walk the maze with the greedy vision-limited collector",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "vision",
						Value: planner.DefaultVisionRange,
						Usage: "vision range in cells",
					},
				},
				Action: runGreedy,
			},
			{
				Name:  "lock",
				Usage: "crack the code lock against its digest oracle",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "strategy",
						Value: string(lock.StrategySequential),
						Usage: "enumeration strategy: sequential, randomized, or heuristic",
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "seed for the randomized strategy",
					},
				},
				Action: runLock,
			},
			{
				Name:   "battle",
				Usage:  "plan the minimum-turn boss fight",
				Action: runBattle,
			},
			{
				Name:   "all",
				Usage:  "run every solver the pack has a section for",
				Action: runAll,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		styleError.Printf("error: %v\n", err)
		os.Exit(1)
	}
}

// loadPack reads and validates the pack named by the --pack flag.
func loadPack(cmd *cli.Command) (*config.PuzzlePack, error) {
	return loadPackFile(cmd.String("pack"))
}

func loadPackFile(path string) (*config.PuzzlePack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pack: %w", err)
	}
	var pack config.PuzzlePack
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parsing pack %s: %w", path, err)
	}
	if err := pack.Validate(); err != nil {
		return nil, fmt.Errorf("pack %s: %w", path, err)
	}
	return &pack, nil
}

func runMaze(ctx context.Context, cmd *cli.Command) error {
	pack, err := loadPack(cmd)
	if err != nil {
		return err
	}
	if pack.Maze == nil {
		return fmt.Errorf("pack %q has no maze section", pack.Name)
	}
	return solveMaze(ctx, pack)
}

func solveMaze(ctx context.Context, pack *config.PuzzlePack) error {
	grid, err := pack.Maze.Grid()
	if err != nil {
		return err
	}

	plan, err := planner.FindOptimalPath(ctx, grid)
	if err != nil {
		return err
	}

	styleHeading.Println("Maze")
	printStat("value", fmt.Sprintf("%d", plan.Value))
	printStat("steps", fmt.Sprintf("%d", plan.Steps))
	printStat("relaxation passes", fmt.Sprintf("%d", plan.Passes))
	printRoute(plan.Route)
	return nil
}

func runGreedy(ctx context.Context, cmd *cli.Command) error {
	pack, err := loadPack(cmd)
	if err != nil {
		return err
	}
	if pack.Maze == nil {
		return fmt.Errorf("pack %q has no maze section", pack.Name)
	}

	grid, err := pack.Maze.Grid()
	if err != nil {
		return err
	}

	vision := cmd.Int("vision")
	result, err := planner.GreedyCollect(ctx, grid, vision)
	if err != nil {
		return err
	}

	styleHeading.Println("Greedy walk")
	printStat("collected", fmt.Sprintf("%d", result.Collected))
	printStat("steps", fmt.Sprintf("%d", len(result.Route)-1))
	printRoute(result.Route)
	return nil
}

func runLock(ctx context.Context, cmd *cli.Command) error {
	pack, err := loadPack(cmd)
	if err != nil {
		return err
	}
	if pack.Lock == nil {
		return fmt.Errorf("pack %q has no lock section", pack.Name)
	}
	return solveLock(ctx, pack, lock.Strategy(cmd.String("strategy")), cmd.Int64("seed"))
}

func solveLock(ctx context.Context, pack *config.PuzzlePack, strategy lock.Strategy, seed int64) error {
	oracle, err := lock.NewOracle(pack.Lock.Digest)
	if err != nil {
		return err
	}

	solver := lock.NewSolver(strategy, seed)
	result, err := solver.Solve(ctx, *pack.Lock, oracle)
	if err != nil {
		return err
	}

	styleHeading.Println("Lock")
	printStat("code", result.Code)
	printStat("attempts", fmt.Sprintf("%d", result.Attempts))
	printStat("oracle calls", fmt.Sprintf("%d", result.OracleCalls))
	return nil
}

func runBattle(ctx context.Context, cmd *cli.Command) error {
	pack, err := loadPack(cmd)
	if err != nil {
		return err
	}
	if pack.Battle == nil {
		return fmt.Errorf("pack %q has no battle section", pack.Name)
	}
	return solveBattle(ctx, pack)
}

func solveBattle(ctx context.Context, pack *config.PuzzlePack) error {
	plan, err := battle.FindOptimalPlan(ctx, *pack.Battle)
	if err != nil {
		return err
	}

	styleHeading.Println("Battle")
	printStat("turns", fmt.Sprintf("%d", plan.Turns))
	printStat("nodes explored", fmt.Sprintf("%d", plan.Stats.NodesExplored))
	printStat("nodes pruned", fmt.Sprintf("%d", plan.Stats.NodesPruned))
	for _, action := range plan.Actions {
		styleRoute.Printf("  turn %d: %s\n", action.Turn, action.Skill)
	}
	return nil
}

func runAll(ctx context.Context, cmd *cli.Command) error {
	pack, err := loadPack(cmd)
	if err != nil {
		return err
	}

	styleValue.Printf("Pack: %s\n", pack.Name)
	if pack.Description != "" {
		styleLabel.Println(pack.Description)
	}
	fmt.Println()

	ran := false
	if pack.Maze != nil {
		if err := solveMaze(ctx, pack); err != nil {
			return err
		}
		ran = true
		fmt.Println()
	}
	if pack.Lock != nil {
		if err := solveLock(ctx, pack, lock.StrategySequential, 0); err != nil {
			return err
		}
		ran = true
		fmt.Println()
	}
	if pack.Battle != nil {
		if err := solveBattle(ctx, pack); err != nil {
			return err
		}
		ran = true
	}
	if !ran {
		return fmt.Errorf("pack %q has no solvable sections", pack.Name)
	}
	return nil
}

func printStat(label, value string) {
	styleLabel.Printf("  %s: ", label)
	styleValue.Println(value)
}

// printRoute renders a route as arrow-joined coordinates, wrapping so
// long walks stay readable.
func printRoute(route []maze.Position) {
	parts := make([]string, len(route))
	for i, p := range route {
		parts[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}

	const perLine = 8
	styleLabel.Println("  route:")
	for i := 0; i < len(parts); i += perLine {
		end := i + perLine
		if end > len(parts) {
			end = len(parts)
		}
		styleRoute.Println("    " + strings.Join(parts[i:end], " -> "))
	}
}
