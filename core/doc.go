// Package core defines the central Identifier, Resource, and World types,
// and provides the disjoint-set forest and class semaphores on which the
// whole mutual-exclusion model is built.
//
// What:
//
//   - Identifier: a node in a mutable disjoint-set forest. The root of a
//     parent chain (a self-parented node) carries the semaphore that
//     locks its entire connectivity class. Keys are strictly monotonic
//     per World and never reused.
//   - Resource: the user-visible handle. Tracks direct, undirected
//     adjacency (self-inclusive by convention), a cached transitive
//     closure with a dirty flag, an opaque associated object, and
//     delegates locking to its current root identifier.
//   - World: explicit process-wide state, the monotonic key counter and
//     the fairness Gate. Tests create private worlds; DefaultWorld backs
//     the package-level convenience constructors in groups.
//   - Gate: the admission latch that keeps new acquiring groups out while
//     a heavily-restarted group finishes its acquisition phase.
//
// Why:
//   - Two resources share a current root identifier exactly when they are
//     in the same connected component of the adjacency graph, so locking
//     one root exclusively locks the whole component.
//   - Merges and splits always allocate fresh identifiers with strictly
//     larger keys; the acquisition protocol in package groups relies on
//     this to lock classes in ascending key order without deadlock.
//
// Concurrency:
//
//   - Parent pointers are atomic.Pointer values: publication of a new
//     parent is a release store, parent-chain walks are acquire loads.
//   - Adjacency lists and closure caches are touched only while the
//     owning resource's class semaphore is held.
//   - The class semaphore is a weighted semaphore of capacity one, so a
//     class may be released by a different goroutine than acquired it.
//
// Errors:
//
//	ErrNilResource    - resource pointer is nil.
//	ErrSelfDisconnect - attempt to disconnect a resource from itself.
//
// Internal invariant violations (a cycle in a parent chain, asymmetric
// adjacency) are programming errors and panic: the forest offers no
// meaningful recovery once corrupted.
package core
