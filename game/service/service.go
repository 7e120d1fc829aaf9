package service

import (
	"context"
	"sync"
	"time"

	"github.com/mazequest/engine/game/battle"
	"github.com/mazequest/engine/game/config"
	"github.com/mazequest/engine/game/lock"
	"github.com/mazequest/engine/game/maze"
)

// PuzzleService defines all solver-related operations
type PuzzleService interface {
	// Session Management
	CreateSession(ctx context.Context, packName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Solver Operations
	SolveMaze(ctx context.Context, sessionID string) (*MazeSolution, error)
	GreedyPath(ctx context.Context, sessionID string, visionRange int) (*GreedySolution, error)
	SolveLock(ctx context.Context, sessionID string, strategy lock.Strategy, seed int64) (*LockSolution, error)
	SolveBattle(ctx context.Context, sessionID string) (*BattleSolution, error)

	// Packs
	ListPacks(ctx context.Context) ([]*config.PackSummary, error)
	LoadPack(ctx context.Context, packName string) (*config.PuzzlePack, error)
	SavePack(ctx context.Context, packName string, pack *config.PuzzlePack) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, packID string, pack *config.PuzzlePack) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// PackManager handles puzzle pack loading
type PackManager interface {
	LoadPack(name string) (*config.PuzzlePack, error)
	ListPacks() ([]*config.PackSummary, error)
	GetDefault() *config.PuzzlePack
	SavePack(name string, pack *config.PuzzlePack) error
}

// Session binds a puzzle pack to an ID and caches solver results so
// repeated solve calls for the same session return the same artifact.
type Session struct {
	ID             string
	PackID         string
	Pack           *config.PuzzlePack
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu     sync.Mutex
	maze   *MazeSolution
	greedy map[int]*GreedySolution
	lock   map[string]*LockSolution
	battle *BattleSolution
}

// SessionInfo provides information about a solver session
type SessionInfo struct {
	ID             string           `json:"id"`
	PackID         string           `json:"pack_id"`
	PackName       string           `json:"pack_name"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	HasMaze        bool             `json:"has_maze"`
	HasLock        bool             `json:"has_lock"`
	HasBattle      bool             `json:"has_battle"`
	Solved         SolvedIndicators `json:"solved"`
}

// SolvedIndicators flags which solvers have already produced a result
// for the session.
type SolvedIndicators struct {
	Maze   bool `json:"maze"`
	Lock   bool `json:"lock"`
	Battle bool `json:"battle"`
}

// MazeSolution is the optimal-path planning result for a session's maze
type MazeSolution struct {
	Route  []maze.Position `json:"route"`
	Value  int             `json:"value"`
	Steps  int             `json:"steps"`
	Passes int             `json:"passes"`
}

// GreedySolution is the vision-limited baseline walk for comparison
// against the optimal plan
type GreedySolution struct {
	Route       []maze.Position `json:"route"`
	Collected   int             `json:"collected"`
	VisionRange int             `json:"vision_range"`
}

// LockSolution is the code recovered for a session's lock puzzle
type LockSolution struct {
	Code        string        `json:"code"`
	Strategy    lock.Strategy `json:"strategy"`
	Attempts    int           `json:"attempts"`
	OracleCalls int           `json:"oracle_calls"`
}

// BattleSolution is the turn-minimal action plan for a session's boss
type BattleSolution struct {
	Actions []battle.Action `json:"actions"`
	Turns   int             `json:"turns"`
	Stats   battle.Stats    `json:"stats"`
}
