package core

import "sort"

// Resource is the user-visible unit of mutual exclusion.
//
// A resource owns exactly one Identifier (the leaf through which it
// enters the forest), an undirected adjacency set of directly connected
// resources (self-inclusive by convention), a cached transitive closure,
// and an opaque associated object that the core never touches.
//
// All adjacency and closure state is read and written only while the
// resource's class semaphore is held by the operating group; the type
// itself carries no locks.
type Resource struct {
	world *World

	// id is this resource's own identifier, created with the resource.
	// The identifier may sink deeper into the forest as classes merge,
	// but the resource's own pointer to it never changes.
	id *Identifier

	// adjacency holds the directly connected resources. By convention a
	// resource is always adjacent to itself, so the set is never empty.
	adjacency map[*Resource]struct{}

	// closure caches the connected component reachable from this
	// resource. closureDirty marks edge churn touching this resource;
	// closureRoot records the root observed when the cache was built:
	// a component can only change membership by merging or splitting,
	// and both re-root, so a same-root cache is never stale.
	closure      []*Resource
	closureDirty bool
	closureRoot  *Identifier

	// associated is the user payload slot. Deliberately unsynchronized:
	// callers that share it across goroutines synchronize it themselves,
	// the class lock does not cover it.
	associated interface{}
}

// newResource allocates a fresh, disconnected resource in w's forest.
func newResource(w *World) *Resource {
	r := &Resource{
		world:        w,
		id:           w.NewIdentifier(),
		adjacency:    make(map[*Resource]struct{}, 1),
		closureDirty: true,
	}
	r.adjacency[r] = struct{}{} // self edge, by convention

	return r
}

// World returns the world this resource was created in. Groups refuse
// to operate on resources from a foreign world.
func (r *Resource) World() *World {
	return r.world
}

// RootIdentifier returns the current root of this resource's class by
// delegating to the owned identifier's compressing lookup.
// Complexity: amortized near O(1).
func (r *Resource) RootIdentifier() *Identifier {
	return r.id.Root()
}

// ResetRoot rewrites this resource's own identifier to parent directly
// onto root. Only called by a group during connect/disconnect while it
// holds the locks of every affected class.
func (r *Resource) ResetRoot(root *Identifier) {
	r.id.SetParent(root)
}

// DirectConnect records the undirected edge between r and other in both
// adjacency sets and marks both closure caches dirty. Idempotent: an
// existing edge (including the conventional self edge) is left as-is.
// Complexity: O(1).
func (r *Resource) DirectConnect(other *Resource) error {
	if other == nil {
		return ErrNilResource
	}

	r.adjacency[other] = struct{}{}
	other.adjacency[r] = struct{}{}
	r.closureDirty = true
	other.closureDirty = true

	return nil
}

// DirectDisconnect removes the undirected edge between r and other from
// both adjacency sets, if present, and marks both closure caches dirty.
// It does not touch the forest; splitting a class is the group's job.
// Returns ErrSelfDisconnect for other == r: the self edge is a
// representation convention and cannot be removed.
// Complexity: O(1).
func (r *Resource) DirectDisconnect(other *Resource) error {
	if other == nil {
		return ErrNilResource
	}
	if other == r {
		return ErrSelfDisconnect
	}

	// Symmetry invariant: an edge present in one direction must be
	// present in the other. A one-sided edge means the forest's caller
	// contract was broken somewhere, and there is no recovering from it.
	_, fwd := r.adjacency[other]
	_, rev := other.adjacency[r]
	if fwd != rev {
		panic("core: asymmetric adjacency between resources")
	}

	delete(r.adjacency, other)
	delete(other.adjacency, r)
	r.closureDirty = true
	other.closureDirty = true

	return nil
}

// Neighbors returns the directly connected resources, sorted by
// identifier key, excluding the conventional self edge. The returned
// slice is independent of internal state (no shared backing).
// Complexity: O(d log d) for degree d.
func (r *Resource) Neighbors() []*Resource {
	out := make([]*Resource, 0, len(r.adjacency)-1)
	for n := range r.adjacency {
		if n == r {
			continue
		}
		out = append(out, n)
	}
	sortByKey(out)

	return out
}

// Closure returns every resource in r's connected component, r included,
// sorted by identifier key. The cached result is reused until either the
// dirty flag is set (edge churn touched this resource) or the component
// re-rooted under a different identifier (merge or split elsewhere in
// the class). The returned slice is independent of internal state.
// Complexity: O(1) cached; O(n + m) flood + O(n log n) sort on recompute.
func (r *Resource) Closure() []*Resource {
	root := r.id.Root()
	if !r.closureDirty && r.closureRoot == root {
		return append([]*Resource(nil), r.closure...)
	}

	// Depth-first flood over adjacency starting at self.
	visited := map[*Resource]struct{}{r: {}}
	stack := []*Resource{r}
	out := make([]*Resource, 0, len(r.adjacency))
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		for nb := range n.adjacency {
			if nb == n {
				continue // self edge never advances the flood
			}
			if _, seen := visited[nb]; seen {
				continue
			}
			visited[nb] = struct{}{}
			stack = append(stack, nb)
		}
	}
	sortByKey(out)

	r.closure = out
	r.closureDirty = false
	r.closureRoot = root

	return append([]*Resource(nil), out...)
}

// AssociatedObject returns the user payload slot. Unsynchronized by
// contract: concurrent access is the caller's responsibility.
func (r *Resource) AssociatedObject() interface{} {
	return r.associated
}

// SetAssociatedObject stores v in the user payload slot. Unsynchronized
// by contract, exactly like AssociatedObject.
func (r *Resource) SetAssociatedObject(v interface{}) {
	r.associated = v
}

// sortByKey orders resources by their own identifier keys ascending.
// Own keys are assigned once, so the order is stable for a given set.
func sortByKey(rs []*Resource) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].id.key < rs[j].id.key })
}
