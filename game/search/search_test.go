package search

import (
	"context"
	"errors"
	"testing"
)

func TestFrontierOrdering(t *testing.T) {
	f := NewFrontier[int](func(a, b int) bool { return a < b })
	for _, v := range []int{5, 1, 4, 2, 3} {
		f.Push(v)
	}
	if f.Len() != 5 {
		t.Fatalf("expected 5 queued nodes, got %d", f.Len())
	}
	for want := 1; want <= 5; want++ {
		got, ok := f.Pop()
		if !ok || got != want {
			t.Errorf("pop = %d,%v, want %d", got, ok, want)
		}
	}
	if _, ok := f.Pop(); ok {
		t.Error("expected empty frontier to report ok=false")
	}
}

func TestVisitedDominance(t *testing.T) {
	v := NewVisited[string]()
	if v.Dominated("a", 3) {
		t.Error("unseen key should not be dominated")
	}
	v.Record("a", 3)
	if !v.Dominated("a", 3) {
		t.Error("equal cost should be dominated")
	}
	if !v.Dominated("a", 5) {
		t.Error("higher cost should be dominated")
	}
	if v.Dominated("a", 2) {
		t.Error("lower cost should not be dominated")
	}
	v.Record("a", 5) // must not raise the recorded best
	if !v.Dominated("a", 4) {
		t.Error("Record must never raise the stored cost")
	}
}

func TestBound(t *testing.T) {
	var b Bound
	if b.Cutoff(100) {
		t.Error("no incumbent yet, nothing should be cut off")
	}
	if !b.Update(10) {
		t.Error("first solution should update the bound")
	}
	if b.Update(12) {
		t.Error("worse solution must not update the bound")
	}
	if !b.Cutoff(11) {
		t.Error("f above incumbent should be cut off")
	}
	if b.Cutoff(10) {
		t.Error("f equal to incumbent is still admissible")
	}
	if best, ok := b.Best(); !ok || best != 10 {
		t.Errorf("Best = %d,%v, want 10,true", best, ok)
	}
}

func TestCheckpoint(t *testing.T) {
	if err := Checkpoint(context.Background()); err != nil {
		t.Errorf("live context should pass the checkpoint: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Checkpoint(ctx)
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
}
