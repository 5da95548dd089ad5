// SPDX-License-Identifier: MIT
//
// File: identifier.go
// Role: Disjoint-set forest node carrying the class semaphore on roots.
// Policy:
//   - Parent pointers are published with release stores and chased with
//     acquire loads (atomic.Pointer); no other synchronization guards them.
//   - The semaphore exists only where an identifier is used as a root and
//     is created lazily on first use.
//   - SetParent is only ever invoked by a group that holds every class
//     lock involved in the re-rooting.

package core

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Identifier is a node in the mutable disjoint-set forest.
//
// Each identifier carries a key that is strictly monotonic in creation
// order within its World and is never reused. A self-parented identifier
// is a root; the root of a chain owns the semaphore that locks the whole
// connectivity class. Identifiers outlive the resources that point at
// them: after a merge the old roots stay in the forest, released, as
// interior nodes whose parent is the fresh root; after a split the old
// root stays allocated (and released) but no live resource's parent
// chain reaches it.
type Identifier struct {
	// key orders identifiers totally; assigned once by World, never reused.
	key uint64

	// parent is the forest pointer; a self-reference marks a root.
	parent atomic.Pointer[Identifier]

	// sem is the class lock, created lazily the first time this
	// identifier is locked as a root. A weighted semaphore of capacity
	// one rather than a sync.Mutex: release may come from a different
	// goroutine than acquire.
	semOnce sync.Once
	sem     *semaphore.Weighted
}

// newIdentifier allocates a self-parented identifier with the given key.
func newIdentifier(key uint64) *Identifier {
	id := &Identifier{key: key}
	id.parent.Store(id) // fresh identifiers are their own root

	return id
}

// Key returns the identifier's totally-ordered key.
// Keys are strictly monotonic per World and never decrease or repeat.
// Complexity: O(1).
func (id *Identifier) Key() uint64 {
	return id.key
}

// Root walks parent pointers to the self-parented root of this chain and
// then re-points the walked chain (this node and every intermediate
// ancestor) directly at the discovered root: path compression.
//
// Safe to call while another group re-roots identifiers it owns: the
// walk uses acquire loads, and any caller that acts on the returned root
// revalidates after locking it (see groups' acquisition protocol).
//
// Complexity: O(chain length), amortized near O(1) under compression.
func (id *Identifier) Root() *Identifier {
	// 1. Chase parent pointers until a self-parented node is found.
	root := id
	for {
		p := root.parent.Load()
		if p == root {
			break
		}
		root = p
	}

	// 2. Compress: re-point every node on the walked chain at the root,
	//    so the next lookup short-circuits in one hop.
	for n := id; n != root; {
		next := n.parent.Load()
		n.parent.Store(root)
		n = next
	}

	return root
}

// SetParent unconditionally overwrites the parent pointer (release
// store). Only a group that currently holds the class locks involved in
// a connect or disconnect may call this, and only on identifiers it
// owns through that operation.
// Complexity: O(1).
func (id *Identifier) SetParent(p *Identifier) {
	id.parent.Store(p)
}

// Lock acquires this identifier's class semaphore, blocking until it is
// available. Meaningful only on an identifier the caller observed as a
// root; the acquisition protocol revalidates rootness after waking.
func (id *Identifier) Lock() {
	// The context is never canceled, so Acquire can only return nil:
	// cancellation and timeouts are explicitly outside this model.
	_ = id.sema().Acquire(context.Background(), 1)
}

// Unlock releases this identifier's class semaphore. May be called from
// any goroutine, not just the one that locked it.
func (id *Identifier) Unlock() {
	id.sema().Release(1)
}

// sema returns the class semaphore, creating it on first use.
func (id *Identifier) sema() *semaphore.Weighted {
	id.semOnce.Do(func() {
		id.sem = semaphore.NewWeighted(1)
	})

	return id.sem
}
