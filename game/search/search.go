// Package search provides the primitives shared by the decision engines:
// a priority frontier, a dominance-pruning visited table, and an incumbent
// bound tracker.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/zyedidia/generic/heap"
)

// ErrCancelled reports that a solver observed its cancellation signal and
// aborted without producing a result. It is distinct from the per-engine
// failure errors so callers can retry.
var ErrCancelled = errors.New("search cancelled")

// Checkpoint inspects the context at a well-defined suspension point
// (a relaxation pass, a frontier pop) and converts cancellation into
// ErrCancelled.
func Checkpoint(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
	default:
		return nil
	}
}

// Frontier is a priority queue ordering search nodes by a caller-supplied
// less function, typically ascending f = g + h.
type Frontier[T any] struct {
	h *heap.Heap[T]
}

// NewFrontier creates an empty frontier with the given ordering.
func NewFrontier[T any](less func(a, b T) bool) *Frontier[T] {
	return &Frontier[T]{h: heap.New(less)}
}

// Push adds a node to the frontier.
func (f *Frontier[T]) Push(x T) { f.h.Push(x) }

// Pop removes and returns the minimum node. The second return value is
// false when the frontier is empty.
func (f *Frontier[T]) Pop() (T, bool) { return f.h.Pop() }

// Len returns the number of queued nodes.
func (f *Frontier[T]) Len() int { return f.h.Size() }

// Visited tracks the cheapest known cost per state key and implements
// dominance pruning: a state reached again at equal or higher cost is not
// worth re-expanding.
type Visited[K comparable] struct {
	best map[K]int
}

// NewVisited creates an empty visited table.
func NewVisited[K comparable]() *Visited[K] {
	return &Visited[K]{best: make(map[K]int)}
}

// Dominated reports whether key was already reached at cost g or cheaper.
func (v *Visited[K]) Dominated(key K, g int) bool {
	prev, ok := v.best[key]
	return ok && prev <= g
}

// Record stores g as the best known cost for key if it improves on the
// previous entry.
func (v *Visited[K]) Record(key K, g int) {
	if prev, ok := v.best[key]; !ok || g < prev {
		v.best[key] = g
	}
}

// Len returns the number of recorded states.
func (v *Visited[K]) Len() int { return len(v.best) }

// Bound tracks the best complete solution cost found so far.
type Bound struct {
	best  int
	found bool
}

// Update lowers the bound to cost if it improves the incumbent. It returns
// true when cost became the new best.
func (b *Bound) Update(cost int) bool {
	if !b.found || cost < b.best {
		b.best = cost
		b.found = true
		return true
	}
	return false
}

// Cutoff reports whether a node with estimate f can no longer beat the
// incumbent and should be discarded.
func (b *Bound) Cutoff(f int) bool {
	return b.found && f > b.best
}

// Best returns the incumbent cost; ok is false while no solution exists.
func (b *Bound) Best() (cost int, ok bool) {
	return b.best, b.found
}
