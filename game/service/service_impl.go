package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mazequest/engine/game/battle"
	"github.com/mazequest/engine/game/config"
	"github.com/mazequest/engine/game/lock"
	"github.com/mazequest/engine/game/planner"
)

var (
	// ErrPackSectionMissing reports a solve call against a session whose
	// pack does not carry the required scenario.
	ErrPackSectionMissing = errors.New("pack has no such puzzle section")

	// ErrSessionNotFound reports a lookup of an unknown session ID.
	ErrSessionNotFound = errors.New("session not found")
)

// puzzleServiceImpl implements the PuzzleService interface
type puzzleServiceImpl struct {
	sessions SessionManager
	packs    PackManager
	mu       sync.RWMutex
}

// NewPuzzleService creates a new puzzle service instance
func NewPuzzleService(sessions SessionManager, packs PackManager) PuzzleService {
	return &puzzleServiceImpl{
		sessions: sessions,
		packs:    packs,
	}
}

// CreateSession creates a new solver session bound to a pack
func (s *puzzleServiceImpl) CreateSession(ctx context.Context, packName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pack *config.PuzzlePack
	var err error
	if packName != "" {
		pack, err = s.packs.LoadPack(packName)
		if err != nil {
			if errors.Is(err, config.ErrPackNotFound) {
				summaries, listErr := s.packs.ListPacks()
				if listErr == nil && len(summaries) > 0 {
					var ids []string
					for _, p := range summaries {
						ids = append(ids, p.PackID)
					}
					return nil, fmt.Errorf("pack '%s' not found. Available packs: %v", packName, ids)
				}
			}
			return nil, fmt.Errorf("failed to load pack %s: %w", packName, err)
		}
	} else {
		pack = s.packs.GetDefault()
		packName = "default"
	}

	session, err := s.sessions.Create("", packName, pack)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *puzzleServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *puzzleServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	infos := make([]*SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, sessionInfo(session))
	}
	return infos, nil
}

// DeleteSession removes a session
func (s *puzzleServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// SolveMaze runs the optimal-path planner over the session's maze. The
// result is computed once per session and cached.
func (s *puzzleServiceImpl) SolveMaze(ctx context.Context, sessionID string) (*MazeSolution, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if session.Pack.Maze == nil {
		return nil, fmt.Errorf("%w: maze", ErrPackSectionMissing)
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.maze != nil {
		return session.maze, nil
	}

	grid, err := session.Pack.Maze.Grid()
	if err != nil {
		return nil, err
	}
	plan, err := planner.FindOptimalPath(ctx, grid)
	if err != nil {
		return nil, err
	}

	session.maze = &MazeSolution{
		Route:  plan.Route,
		Value:  plan.Value,
		Steps:  plan.Steps,
		Passes: plan.Passes,
	}
	return session.maze, nil
}

// GreedyPath runs the vision-limited greedy walk over the session's
// maze, cached per vision range.
func (s *puzzleServiceImpl) GreedyPath(ctx context.Context, sessionID string, visionRange int) (*GreedySolution, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if session.Pack.Maze == nil {
		return nil, fmt.Errorf("%w: maze", ErrPackSectionMissing)
	}
	if visionRange <= 0 {
		visionRange = planner.DefaultVisionRange
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if sol, ok := session.greedy[visionRange]; ok {
		return sol, nil
	}

	grid, err := session.Pack.Maze.Grid()
	if err != nil {
		return nil, err
	}
	result, err := planner.GreedyCollect(ctx, grid, visionRange)
	if err != nil {
		return nil, err
	}

	sol := &GreedySolution{
		Route:       result.Route,
		Collected:   result.Collected,
		VisionRange: visionRange,
	}
	if session.greedy == nil {
		session.greedy = make(map[int]*GreedySolution)
	}
	session.greedy[visionRange] = sol
	return sol, nil
}

// SolveLock runs the code-lock solver over the session's lock puzzle,
// cached per strategy and seed.
func (s *puzzleServiceImpl) SolveLock(ctx context.Context, sessionID string, strategy lock.Strategy, seed int64) (*LockSolution, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if session.Pack.Lock == nil {
		return nil, fmt.Errorf("%w: lock", ErrPackSectionMissing)
	}
	if strategy == "" {
		strategy = lock.StrategySequential
	}
	switch strategy {
	case lock.StrategySequential, lock.StrategyRandomized, lock.StrategyHeuristic:
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}

	cacheKey := fmt.Sprintf("%s/%d", strategy, seed)

	session.mu.Lock()
	defer session.mu.Unlock()
	if sol, ok := session.lock[cacheKey]; ok {
		return sol, nil
	}

	oracle, err := lock.NewOracle(session.Pack.Lock.Digest)
	if err != nil {
		return nil, err
	}
	result, err := lock.NewSolver(strategy, seed).Solve(ctx, *session.Pack.Lock, oracle)
	if err != nil {
		return nil, err
	}

	sol := &LockSolution{
		Code:        result.Code,
		Strategy:    strategy,
		Attempts:    result.Attempts,
		OracleCalls: result.OracleCalls,
	}
	if session.lock == nil {
		session.lock = make(map[string]*LockSolution)
	}
	session.lock[cacheKey] = sol
	return sol, nil
}

// SolveBattle runs the battle strategist over the session's boss setup.
// The result is computed once per session and cached.
func (s *puzzleServiceImpl) SolveBattle(ctx context.Context, sessionID string) (*BattleSolution, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if session.Pack.Battle == nil {
		return nil, fmt.Errorf("%w: battle", ErrPackSectionMissing)
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.battle != nil {
		return session.battle, nil
	}

	plan, err := battle.FindOptimalPlan(ctx, *session.Pack.Battle)
	if err != nil {
		return nil, err
	}

	session.battle = &BattleSolution{
		Actions: plan.Actions,
		Turns:   plan.Turns,
		Stats:   plan.Stats,
	}
	return session.battle, nil
}

// ListPacks returns summaries of all available packs
func (s *puzzleServiceImpl) ListPacks(ctx context.Context) ([]*config.PackSummary, error) {
	return s.packs.ListPacks()
}

// LoadPack loads a pack by name
func (s *puzzleServiceImpl) LoadPack(ctx context.Context, packName string) (*config.PuzzlePack, error) {
	return s.packs.LoadPack(packName)
}

// SavePack validates and saves a pack
func (s *puzzleServiceImpl) SavePack(ctx context.Context, packName string, pack *config.PuzzlePack) error {
	return s.packs.SavePack(packName, pack)
}

// sessionInfo builds the session DTO. Callers must not hold session.mu.
func sessionInfo(session *Session) *SessionInfo {
	session.mu.Lock()
	defer session.mu.Unlock()
	return &SessionInfo{
		ID:             session.ID,
		PackID:         session.PackID,
		PackName:       session.Pack.Name,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		HasMaze:        session.Pack.Maze != nil,
		HasLock:        session.Pack.Lock != nil,
		HasBattle:      session.Pack.Battle != nil,
		Solved: SolvedIndicators{
			Maze:   session.maze != nil,
			Lock:   len(session.lock) > 0,
			Battle: session.battle != nil,
		},
	}
}
