package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mazequest/engine/game/battle"
	"github.com/mazequest/engine/game/config"
	"github.com/mazequest/engine/game/lock"
)

// stubSessions is an in-memory SessionManager for exercising the
// service without importing the real manager.
type stubSessions struct {
	sessions map[string]*Session
	nextID   int
}

func newStubSessions() *stubSessions {
	return &stubSessions{sessions: make(map[string]*Session)}
}

func (s *stubSessions) Create(id, packID string, pack *config.PuzzlePack) (*Session, error) {
	if id == "" {
		s.nextID++
		id = string(rune('a' + s.nextID))
	}
	session := &Session{
		ID:             id,
		PackID:         packID,
		Pack:           pack,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	s.sessions[id] = session
	return session, nil
}

func (s *stubSessions) Get(id string) (*Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (s *stubSessions) List() []*Session {
	out := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}

func (s *stubSessions) Delete(id string) error {
	if _, ok := s.sessions[id]; !ok {
		return errors.New("session not found")
	}
	delete(s.sessions, id)
	return nil
}

func (s *stubSessions) UpdateLastAccessed(id string) error {
	session, ok := s.sessions[id]
	if !ok {
		return errors.New("session not found")
	}
	session.LastAccessedAt = time.Now()
	return nil
}

// stubPacks serves a fixed pack set.
type stubPacks struct {
	packs map[string]*config.PuzzlePack
	def   *config.PuzzlePack
}

func (s *stubPacks) LoadPack(name string) (*config.PuzzlePack, error) {
	pack, ok := s.packs[name]
	if !ok {
		return nil, config.ErrPackNotFound
	}
	return pack, nil
}

func (s *stubPacks) ListPacks() ([]*config.PackSummary, error) {
	var out []*config.PackSummary
	for id, pack := range s.packs {
		out = append(out, &config.PackSummary{PackID: id, Name: pack.Name})
	}
	return out, nil
}

func (s *stubPacks) GetDefault() *config.PuzzlePack { return s.def }

func (s *stubPacks) SavePack(name string, pack *config.PuzzlePack) error {
	s.packs[name] = pack
	return nil
}

func fullPack() *config.PuzzlePack {
	return &config.PuzzlePack{
		Name: "Full Pack",
		Maze: &config.MazeConfig{
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
				{Kind: lock.ClueSumOdd},
			},
		},
		Battle: &battle.Setup{
			BossHP:   30,
			PlayerHP: 10,
			Skills:   []battle.Skill{{Name: "strike", Damage: 15, Cooldown: 1}},
		},
	}
}

func newTestService() (PuzzleService, *stubSessions) {
	sessions := newStubSessions()
	packs := &stubPacks{
		packs: map[string]*config.PuzzlePack{"full": fullPack()},
		def:   fullPack(),
	}
	return NewPuzzleService(sessions, packs), sessions
}

func TestCreateAndGetSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "full")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.PackID != "full" || info.PackName != "Full Pack" {
		t.Errorf("info = %+v, want pack full", info)
	}
	if !info.HasMaze || !info.HasLock || !info.HasBattle {
		t.Error("pack sections not reported")
	}
	if info.Solved.Maze || info.Solved.Lock || info.Solved.Battle {
		t.Error("fresh session reports solved puzzles")
	}

	got, err := svc.GetSession(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.ID != info.ID {
		t.Errorf("got session %q, want %q", got.ID, info.ID)
	}
}

func TestCreateSessionUnknownPack(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSession(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for unknown pack")
	}
}

func TestCreateSessionDefaultPack(t *testing.T) {
	svc, _ := newTestService()

	info, err := svc.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.PackID != "default" {
		t.Errorf("pack id = %q, want default", info.PackID)
	}
}

func TestSolveMaze(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "full")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	sol, err := svc.SolveMaze(ctx, info.ID)
	if err != nil {
		t.Fatalf("SolveMaze failed: %v", err)
	}
	if sol.Value != 50 || sol.Steps != 4 {
		t.Errorf("solution value=%d steps=%d, want 50/4", sol.Value, sol.Steps)
	}

	// Cached on repeat.
	again, err := svc.SolveMaze(ctx, info.ID)
	if err != nil {
		t.Fatalf("cached SolveMaze failed: %v", err)
	}
	if again != sol {
		t.Error("expected cached solution pointer")
	}

	updated, err := svc.GetSession(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if !updated.Solved.Maze {
		t.Error("session does not report maze solved")
	}
}

func TestGreedyPath(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "full")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	sol, err := svc.GreedyPath(ctx, info.ID, 0)
	if err != nil {
		t.Fatalf("GreedyPath failed: %v", err)
	}
	if sol.VisionRange != 3 {
		t.Errorf("vision range = %d, want default 3", sol.VisionRange)
	}
	if sol.Collected != 50 {
		t.Errorf("collected = %d, want 50", sol.Collected)
	}
}

func TestSolveLock(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "full")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	sol, err := svc.SolveLock(ctx, info.ID, "", 0)
	if err != nil {
		t.Fatalf("SolveLock failed: %v", err)
	}
	if sol.Code != "713" {
		t.Errorf("code = %q, want 713", sol.Code)
	}
	if sol.Strategy != lock.StrategySequential {
		t.Errorf("strategy = %q, want sequential default", sol.Strategy)
	}

	if _, err := svc.SolveLock(ctx, info.ID, "magic", 0); err == nil {
		t.Error("unknown strategy must fail")
	}
}

func TestSolveBattle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "full")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	sol, err := svc.SolveBattle(ctx, info.ID)
	if err != nil {
		t.Fatalf("SolveBattle failed: %v", err)
	}
	if sol.Turns != 3 {
		t.Errorf("turns = %d, want 3", sol.Turns)
	}
}

func TestSolveMissingSection(t *testing.T) {
	sessions := newStubSessions()
	packs := &stubPacks{
		packs: map[string]*config.PuzzlePack{
			"maze_only": {Name: "maze only", Maze: &config.MazeConfig{Layout: []string{"SE"}}},
		},
	}
	svc := NewPuzzleService(sessions, packs)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "maze_only")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if _, err := svc.SolveLock(ctx, info.ID, "", 0); !errors.Is(err, ErrPackSectionMissing) {
		t.Errorf("expected ErrPackSectionMissing, got %v", err)
	}
	if _, err := svc.SolveBattle(ctx, info.ID); !errors.Is(err, ErrPackSectionMissing) {
		t.Errorf("expected ErrPackSectionMissing, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "full")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := svc.DeleteSession(ctx, info.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, info.ID); err == nil {
		t.Error("expected error after delete")
	}

	infos, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("got %d sessions, want 0", len(infos))
	}
}
