// Package confirm holds a destructive action until the user confirms it.
package confirm

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNothingPending = errors.New("confirm: no action pending")
	ErrNotBound       = errors.New("confirm: target not bound")
)

type State int

const (
	Idle State = iota
	PendingConfirmation
)

func (s State) String() string {
	if s == PendingConfirmation {
		return "pending_confirmation"
	}
	return "idle"
}

// Action is the deferred side effect, e.g. submitting a deactivation.
type Action func(ctx context.Context) error

// Resolver maps a rendered target (a job id) to its action. ok is false
// when the target offers no destructive action.
type Resolver func(target int64) (Action, bool)

// Gate is a two-state machine: Idle and PendingConfirmation. The captured
// action only runs from Confirm.
type Gate struct {
	mu      sync.Mutex
	resolve Resolver
	pending Action
	target  int64
}

func New() *Gate {
	return &Gate{}
}

// Bind replaces the current binding. It never stacks: after Bind only
// the latest resolver is consulted. A pending action survives a rebind.
func (g *Gate) Bind(r Resolver) {
	g.mu.Lock()
	g.resolve = r
	g.mu.Unlock()
}

// Trigger captures the action bound to target without running it.
func (g *Gate) Trigger(target int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolve == nil {
		return ErrNotBound
	}
	a, ok := g.resolve(target)
	if !ok || a == nil {
		return ErrNotBound
	}
	g.pending = a
	g.target = target
	return nil
}

// Confirm runs the captured action once and returns to Idle, whatever
// the action returns.
func (g *Gate) Confirm(ctx context.Context) (int64, error) {
	g.mu.Lock()
	a, target := g.pending, g.target
	g.pending, g.target = nil, 0
	g.mu.Unlock()

	if a == nil {
		return 0, ErrNothingPending
	}
	return target, a(ctx)
}

// Cancel drops the captured action.
func (g *Gate) Cancel() {
	g.mu.Lock()
	g.pending, g.target = nil, 0
	g.mu.Unlock()
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		return PendingConfirmation
	}
	return Idle
}
