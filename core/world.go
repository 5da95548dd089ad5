package core

import "sync/atomic"

// World is the explicit process-wide state of the manager: the monotonic
// identifier-key counter and the fairness gate. Everything else hangs
// off resources and groups.
//
// Most programs use DefaultWorld through the convenience constructors in
// package groups; tests and embedders that need isolation create private
// worlds with NewWorld. Resources and groups from different worlds must
// never be mixed; groups enforce this.
type World struct {
	// keys issues strictly monotonic identifier keys, starting at 1.
	keys atomic.Uint64

	gate Gate
}

// DefaultWorld is the world used by the package-level constructors in
// groups when no WithWorld option is given. It is an ordinary World,
// merely shared by convention.
var DefaultWorld = NewWorld()

// NewWorld creates an empty world with its own key space and gate.
// Complexity: O(1).
func NewWorld() *World {
	return &World{}
}

// NewIdentifier allocates a fresh self-parented identifier whose key is
// strictly greater than every key this world has issued before. The
// acquisition protocol's deadlock-freedom argument rests on exactly this
// monotonicity, so keys are never reused.
// Complexity: O(1).
func (w *World) NewIdentifier() *Identifier {
	return newIdentifier(w.keys.Add(1))
}

// NewResource allocates a fresh, disconnected, unacquired resource in
// this world. Its class is a singleton guarded by its own identifier.
// Complexity: O(1).
func (w *World) NewResource() *Resource {
	return newResource(w)
}

// Gate returns the world's admission gate. Only acquiring groups
// interact with it.
func (w *World) Gate() *Gate {
	return &w.gate
}

// WorldStats is a read-only snapshot of a world's counters.
type WorldStats struct {
	// KeysIssued is the number of identifier keys handed out so far.
	KeysIssued uint64
}

// Stats produces an O(1) read-only summary of the world.
func (w *World) Stats() WorldStats {
	return WorldStats{KeysIssued: w.keys.Load()}
}
