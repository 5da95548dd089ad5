// Package groups implements the resource group: the transient,
// single-goroutine holder of acquired connectivity classes, and the only
// surface through which resources are created, connected, disconnected,
// acquired, or freed.
//
// What:
//
//   - New: an empty active group holding nothing.
//   - Acquire: runs the deadlock-avoiding acquisition protocol and
//     returns once every class containing an input resource is
//     exclusively locked. Duplicates, direct or via connectivity,
//     collapse to a single lock.
//   - CreateAndAcquireResource: a brand-new singleton resource whose
//     class lock is held from birth.
//   - Connect / Disconnect: mutate the connectivity graph while the
//     group holds every affected class; merging replaces two held roots
//     with one fresh one, splitting replaces one with two.
//   - Free: releases every held class and retires the group.
//   - CreateResource / CreateConnected: package-level constructors that
//     wrap a whole group lifecycle for the common cases.
//
// The acquisition protocol:
//
//	Snapshot the unique, not-yet-held current roots of the requested
//	resources, ascending by key; lock the smallest; after waking,
//	revalidate that it still roots one of the requested resources; keep
//	it or release it and restart. Every merge or split introduces keys
//	strictly greater than all existing ones, so ascending-key locking
//	participates in a global partial order and cycles are impossible.
//	A group that exhausts its restart budget closes the world's fairness
//	gate, keeping new contenders out until its acquisition completes.
//
// Concurrency contract:
//
//   - A Group is used by exactly one goroutine and is not reentrant; it
//     carries no internal locking of its own.
//   - Usage errors (freed group, unheld resource, nil input) are
//     returned without releasing anything; the group stays active and
//     Free remains the caller's responsibility.
//   - A duplicate root in the held set is an internal invariant
//     violation and panics.
//
// Errors:
//
//   - ErrGroupFreed         group operation after Free
//   - ErrResourceNotHeld    resource's current root not in the held set
//   - ErrWorldMismatch      resource created in a different world
//   - core.ErrNilResource   nil resource input
//   - core.ErrSelfDisconnect disconnecting a resource from itself
//
// Functions:
//
//   - New(opts ...Option) *Group
//   - Acquire(resources []*core.Resource, opts ...Option) (*Group, error)
//   - CreateResource(opts ...Option) *core.Resource
//   - CreateConnected(resources []*core.Resource, opts ...Option) (*core.Resource, error)
package groups
