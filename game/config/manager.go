package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrPackNotFound = errors.New("puzzle pack not found")
	ErrInvalidPack  = errors.New("invalid puzzle pack")
)

// Manager handles puzzle pack loading and caching
type Manager struct {
	packDir     string
	defaultPack *PuzzlePack
	packs       map[string]*PuzzlePack
	mu          sync.RWMutex
}

// NewManager creates a new pack manager rooted at packDir
func NewManager(packDir string) (*Manager, error) {
	if _, err := os.Stat(packDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("pack directory does not exist: %s", packDir)
	}

	m := &Manager{
		packDir: packDir,
		packs:   make(map[string]*PuzzlePack),
	}

	if err := m.loadDefaultPack(); err != nil {
		return nil, fmt.Errorf("failed to load default pack: %w", err)
	}

	return m, nil
}

// LoadPack loads a puzzle pack by name
func (m *Manager) LoadPack(name string) (*PuzzlePack, error) {
	m.mu.RLock()
	if pack, exists := m.packs[name]; exists {
		m.mu.RUnlock()
		return pack, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if pack, exists := m.packs[name]; exists {
		return pack, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	packPath := filepath.Join(m.packDir, filename)

	data, err := os.ReadFile(packPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPackNotFound
		}
		return nil, fmt.Errorf("failed to read pack file: %w", err)
	}

	var pack PuzzlePack
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse pack: %w", err)
	}

	if err := pack.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}

	m.packs[name] = &pack
	return &pack, nil
}

// ListPacks returns summaries of all available packs
func (m *Manager) ListPacks() ([]*PackSummary, error) {
	entries, err := os.ReadDir(m.packDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read pack directory: %w", err)
	}

	var summaries []*PackSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")

		pack, err := m.LoadPack(name)
		if err != nil {
			// Skip invalid packs
			continue
		}

		summaries = append(summaries, &PackSummary{
			Filename:    entry.Name(),
			PackID:      name,
			Name:        pack.Name,
			Description: pack.Description,
			HasMaze:     pack.Maze != nil,
			HasLock:     pack.Lock != nil,
			HasBattle:   pack.Battle != nil,
		})
	}

	return summaries, nil
}

// GetDefault returns the default pack
func (m *Manager) GetDefault() *PuzzlePack {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultPack
}

// SetDefault sets the default pack by name
func (m *Manager) SetDefault(name string) error {
	pack, err := m.LoadPack(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPack = pack
	return nil
}

// RefreshCache reloads all cached packs from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.packs = make(map[string]*PuzzlePack)
	m.mu.Unlock()

	return m.loadDefaultPack()
}

// SavePack writes a pack to disk and caches it
func (m *Manager) SavePack(name string, pack *PuzzlePack) error {
	if err := pack.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	packPath := filepath.Join(m.packDir, filename)

	data, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pack: %w", err)
	}

	if err := os.WriteFile(packPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write pack file: %w", err)
	}

	m.mu.Lock()
	m.packs[name] = pack
	m.mu.Unlock()

	return nil
}

// loadDefaultPack prefers classic.json, falls back to the first valid
// pack on disk, and finally to the compiled-in minimal pack.
func (m *Manager) loadDefaultPack() error {
	pack, err := m.LoadPack("classic")
	if err != nil {
		summaries, listErr := m.ListPacks()
		if listErr != nil || len(summaries) == 0 {
			m.defaultPack = minimalPack()
			return nil
		}

		pack, err = m.LoadPack(summaries[0].PackID)
		if err != nil {
			m.defaultPack = minimalPack()
			return nil
		}
	}

	m.defaultPack = pack
	return nil
}

// minimalPack is the compiled-in fallback used when no packs exist on
// disk.
func minimalPack() *PuzzlePack {
	return &PuzzlePack{
		Name:        "default",
		Description: "Minimal built-in pack",
		Maze: &MazeConfig{
			Layout: []string{
				"S  ",
				" # ",
				"G E",
			},
		},
	}
}
