// SPDX-License-Identifier: MIT
//
// File: group.go
// Role: Group lifecycle, held-set bookkeeping, connect/disconnect/free.
// Policy:
//   - A group is owned by one goroutine; no internal locking.
//   - The held set is kept unique and ascending by identifier key; a
//     duplicate insertion is a fatal invariant violation.
//   - Stale roots (merged away or abandoned by a split) are released the
//     moment they leave the held set, so acquirers blocked on them can
//     wake, revalidate, and restart.

package groups

import (
	"sort"

	"github.com/michaelbradley91/StickySharedResources/core"
)

// Group is a transient holder of exclusively locked connectivity
// classes. It is created by New, Acquire, or CreateConnected, used by
// exactly one goroutine, and consumed by Free.
type Group struct {
	world *core.World
	state int

	// held is the set of currently held root identifiers, unique and
	// sorted ascending by key.
	held []*core.Identifier

	// restartBudget is the per-acquisition tolerance for invalidated
	// lock attempts before the fairness gate closes; see acquire.go.
	restartBudget int

	// restarts / gateClosures feed GroupStats; written only by the
	// owning goroutine during acquisition.
	restarts     int
	gateClosures int
}

// New constructs an empty, active group that holds no classes.
// Complexity: O(len(opts)).
func New(opts ...Option) *Group {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.RestartBudget < 1 {
		o.RestartBudget = 1
	}

	g := &Group{world: o.World, state: stateFresh, restartBudget: o.RestartBudget}
	g.state = stateActive

	return g
}

// CreateAndAcquireResource allocates a brand-new resource whose
// singleton class is locked before anyone else can observe it, and adds
// that class to the held set. The resource starts disconnected from
// everything.
// Complexity: O(held) for the sorted insert.
func (g *Group) CreateAndAcquireResource() (*core.Resource, error) {
	if g.state == stateFreed {
		return nil, ErrGroupFreed
	}

	r := g.world.NewResource()
	root := r.RootIdentifier()
	// The identifier is fresh and unpublished, so this never blocks.
	root.Lock()
	g.addHeld(root)

	return r, nil
}

// Connect records the undirected edge a–b and, when a and b are in
// different classes, merges the two classes under a fresh root with a
// strictly greater key. Both resources' current roots must already be
// held by this group.
//
// After a merge the two old roots are released and abandoned: every
// future root lookup lands on the fresh root, and any acquirer that was
// blocked on an old root wakes, fails revalidation, and restarts.
// Complexity: O(held) bookkeeping + O(1) adjacency.
func (g *Group) Connect(a, b *core.Resource) error {
	ra, rb, err := g.heldRoots(a, b)
	if err != nil {
		return err
	}

	// Same class: only the adjacency edge is new. Idempotent.
	if ra == rb {
		return a.DirectConnect(b)
	}

	// 1. Fresh root with a key above every existing identifier, locked
	//    before it becomes reachable.
	p := g.world.NewIdentifier()
	p.Lock()

	// 2. Re-root both old classes under it.
	ra.SetParent(p)
	rb.SetParent(p)

	// 3. Swap the held set: the merged class is guarded by p alone.
	g.dropHeld(ra)
	g.dropHeld(rb)
	g.addHeld(p)

	// 4. Release the stale roots so blocked acquirers can revalidate.
	ra.Unlock()
	rb.Unlock()

	// 5. Record the edge itself.
	return a.DirectConnect(b)
}

// Disconnect removes the direct edge a–b. If the two resources remain
// connected through other edges the class is untouched. Otherwise the
// class splits: each half is re-rooted under a fresh held root, and the
// old root is released and abandoned. Both resources' current roots must
// already be held by this group.
//
// Linear in the size of the original class: the documented expensive
// operation.
func (g *Group) Disconnect(a, b *core.Resource) error {
	if a == b && a != nil {
		// Reject before the held check so the error is stable no matter
		// how the resource is held.
		if g.state == stateFreed {
			return ErrGroupFreed
		}

		return core.ErrSelfDisconnect
	}
	ra, rb, err := g.heldRoots(a, b)
	if err != nil {
		return err
	}

	// 1. Remove the edge in both directions (no-op if absent).
	if err = a.DirectDisconnect(b); err != nil {
		return err
	}

	// Distinct classes cannot split further; only the edge (if any)
	// mattered. Unreachable through correct use, but harmless.
	if ra != rb {
		return nil
	}

	// 2. Flood from a; if b is still reachable the class is unchanged.
	closureA := a.Closure()
	for _, m := range closureA {
		if m == b {
			return nil
		}
	}

	// 3. The class has split: two fresh held roots, one per half.
	p1 := g.world.NewIdentifier()
	p1.Lock()
	for _, m := range closureA {
		m.ResetRoot(p1)
	}

	p2 := g.world.NewIdentifier()
	p2.Lock()
	for _, m := range b.Closure() {
		m.ResetRoot(p2)
	}

	// 4. Swap the held set and abandon the old root, released: no live
	//    resource's parent chain reaches it anymore.
	g.dropHeld(ra)
	g.addHeld(p1)
	g.addHeld(p2)
	ra.Unlock()

	return nil
}

// DirectlyConnectedTo returns r's direct neighbors (excluding r itself),
// sorted by identifier key. The resource's current root must be held.
func (g *Group) DirectlyConnectedTo(r *core.Resource) ([]*core.Resource, error) {
	if g.state == stateFreed {
		return nil, ErrGroupFreed
	}
	if r == nil {
		return nil, core.ErrNilResource
	}
	if r.World() != g.world {
		return nil, ErrWorldMismatch
	}
	if !g.holds(r.RootIdentifier()) {
		return nil, ErrResourceNotHeld
	}

	return r.Neighbors(), nil
}

// Holds reports whether r's current root is in the group's held set,
// i.e. whether this group exclusively owns r's class right now.
func (g *Group) Holds(r *core.Resource) bool {
	if g.state != stateActive || r == nil || r.World() != g.world {
		return false
	}

	return g.holds(r.RootIdentifier())
}

// Free releases every held class semaphore and retires the group.
// Release is performed through the identifiers' semaphores, so Free may
// legally run on a different goroutine than the one that acquired.
// Any further operation returns ErrGroupFreed.
// Complexity: O(held).
func (g *Group) Free() error {
	if g.state == stateFreed {
		return ErrGroupFreed
	}

	for _, id := range g.held {
		id.Unlock()
	}
	g.held = nil
	g.state = stateFreed

	return nil
}

// Stats produces an O(1) read-only snapshot of the group's counters.
func (g *Group) Stats() GroupStats {
	return GroupStats{
		Held:         len(g.held),
		Restarts:     g.restarts,
		GateClosures: g.gateClosures,
		Freed:        g.state == stateFreed,
	}
}

// heldRoots validates a two-resource operation: active group, non-nil
// inputs from this world, both current roots held. Returns the roots.
func (g *Group) heldRoots(a, b *core.Resource) (ra, rb *core.Identifier, err error) {
	if g.state == stateFreed {
		return nil, nil, ErrGroupFreed
	}
	if a == nil || b == nil {
		return nil, nil, core.ErrNilResource
	}
	if a.World() != g.world || b.World() != g.world {
		return nil, nil, ErrWorldMismatch
	}

	ra = a.RootIdentifier()
	rb = b.RootIdentifier()
	if !g.holds(ra) || !g.holds(rb) {
		return nil, nil, ErrResourceNotHeld
	}

	return ra, rb, nil
}

// holds reports whether id is in the held set. Binary search over the
// key-sorted slice.
func (g *Group) holds(id *core.Identifier) bool {
	i := sort.Search(len(g.held), func(i int) bool { return g.held[i].Key() >= id.Key() })

	return i < len(g.held) && g.held[i] == id
}

// addHeld inserts id into the held set, keeping it sorted by key.
// A duplicate is a corrupted-forest symptom and fatal.
func (g *Group) addHeld(id *core.Identifier) {
	i := sort.Search(len(g.held), func(i int) bool { return g.held[i].Key() >= id.Key() })
	if i < len(g.held) && g.held[i] == id {
		panic("groups: duplicate root in held set")
	}
	g.held = append(g.held, nil)
	copy(g.held[i+1:], g.held[i:])
	g.held[i] = id
}

// dropHeld removes id from the held set. Absence is fatal: internal
// callers only drop roots they verified as held.
func (g *Group) dropHeld(id *core.Identifier) {
	i := sort.Search(len(g.held), func(i int) bool { return g.held[i].Key() >= id.Key() })
	if i >= len(g.held) || g.held[i] != id {
		panic("groups: dropping a root that is not held")
	}
	g.held = append(g.held[:i], g.held[i+1:]...)
}
