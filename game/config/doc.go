// Package config loads and caches puzzle packs.
//
// A puzzle pack is a JSON file bundling up to three scenarios: a maze
// layout for the path planner, a code-lock puzzle for the lock solver,
// and a boss setup for the battle strategist. Packs live in a directory
// and are addressed by filename without the .json extension.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	pack, err := manager.LoadPack("classic")
//	summaries, err := manager.ListPacks()
//
// Every loaded pack is validated section by section: the maze layout
// must parse into a well-formed grid, the lock digest must be a valid
// hex digest with well-formed clues, and the battle setup must describe
// a fightable boss. Invalid packs are rejected on load and skipped by
// ListPacks.
package config
