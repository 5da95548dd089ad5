// Package groups defines options and sentinel errors for group
// construction and the acquisition protocol.
package groups

import (
	"errors"

	"github.com/michaelbradley91/StickySharedResources/core"
)

var (
	// ErrGroupFreed is returned by every operation on a group after
	// Free. A freed group holds nothing and can never be revived.
	ErrGroupFreed = errors.New("groups: group already freed")

	// ErrResourceNotHeld indicates an operation on a resource whose
	// current root is not in the group's held set.
	ErrResourceNotHeld = errors.New("groups: resource's current root is not held by this group")

	// ErrWorldMismatch indicates a resource created in a different world
	// than the group's. Key spaces and gates are per-world, so mixing
	// worlds would silently void the ordering guarantees.
	ErrWorldMismatch = errors.New("groups: resource belongs to a different world")
)

// Group lifecycle states: FRESH during construction, ACTIVE once a
// constructor returns, FREED after Free.
const (
	stateFresh = iota
	stateActive
	stateFreed
)

// DefaultRestartBudget is how many invalidated lock attempts an
// acquiring group tolerates before closing the world's fairness gate.
// Small on purpose: the gate is cheap and interference is rare.
const DefaultRestartBudget = 5

// Options holds configurable parameters for group construction.
// Use with New, Acquire, CreateResource, and CreateConnected.
type Options struct {
	// World the group (and everything it creates) belongs to.
	// Defaults to core.DefaultWorld.
	World *core.World

	// RestartBudget is the number of acquisition restarts tolerated
	// before the group closes the fairness gate. Values below one are
	// treated as one.
	RestartBudget int
}

// Option configures Options. All Option functions modify the pointed
// Options in place.
type Option func(*Options)

// WithWorld returns an Option that places the group in w instead of
// core.DefaultWorld.
func WithWorld(w *core.World) Option {
	return func(o *Options) {
		o.World = w
	}
}

// WithRestartBudget returns an Option that overrides the restart budget
// for the acquisition protocol.
func WithRestartBudget(n int) Option {
	return func(o *Options) {
		o.RestartBudget = n
	}
}

// DefaultOptions returns Options initialized with:
//   - World = core.DefaultWorld
//   - RestartBudget = DefaultRestartBudget
//
// Complexity: O(1) to construct.
func DefaultOptions() Options {
	return Options{
		World:         core.DefaultWorld,
		RestartBudget: DefaultRestartBudget,
	}
}

// GroupStats is a read-only snapshot of a group's counters, for tests
// and the stress harness.
type GroupStats struct {
	// Held is the number of class roots currently held.
	Held int

	// Restarts counts acquisition attempts invalidated after locking.
	Restarts int

	// GateClosures counts how many times this group closed the world's
	// fairness gate (at most once per acquisition).
	GateClosures int

	// Freed reports whether the group has been freed.
	Freed bool
}
