// Package groups_test verifies group lifecycle, connect/disconnect
// semantics, and the usage-error contract.
package groups_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelbradley91/StickySharedResources/core"
	"github.com/michaelbradley91/StickySharedResources/groups"
)

// world returns a private world and its group options, so tests never
// contend on DefaultWorld.
func world(t *testing.T) (*core.World, []groups.Option) {
	t.Helper()
	w := core.NewWorld()

	return w, []groups.Option{groups.WithWorld(w)}
}

// TestGroup_EmptyLifecycle verifies an empty group is active, holds
// nothing, and can be freed exactly once.
func TestGroup_EmptyLifecycle(t *testing.T) {
	_, opts := world(t)
	g := groups.New(opts...)

	stats := g.Stats()
	assert.Zero(t, stats.Held)
	assert.False(t, stats.Freed)

	require.NoError(t, g.Free())
	assert.True(t, g.Stats().Freed)

	assert.ErrorIs(t, g.Free(), groups.ErrGroupFreed)
}

// TestGroup_UsageAfterFree verifies every operation on a freed group
// fails with ErrGroupFreed.
func TestGroup_UsageAfterFree(t *testing.T) {
	w, opts := world(t)
	a, b := w.NewResource(), w.NewResource()

	g := groups.New(opts...)
	require.NoError(t, g.Free())

	_, err := g.CreateAndAcquireResource()
	assert.ErrorIs(t, err, groups.ErrGroupFreed)
	assert.ErrorIs(t, g.Connect(a, b), groups.ErrGroupFreed)
	assert.ErrorIs(t, g.Disconnect(a, b), groups.ErrGroupFreed)
	_, err = g.DirectlyConnectedTo(a)
	assert.ErrorIs(t, err, groups.ErrGroupFreed)
	assert.False(t, g.Holds(a))
}

// TestGroup_CreateAndAcquireResource verifies the new resource's
// singleton class is held from birth.
func TestGroup_CreateAndAcquireResource(t *testing.T) {
	_, opts := world(t)
	g := groups.New(opts...)

	r, err := g.CreateAndAcquireResource()
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.True(t, g.Holds(r))
	assert.Equal(t, 1, g.Stats().Held)
	assert.Empty(t, r.Neighbors(), "created resource starts disconnected")

	require.NoError(t, g.Free())
}

// TestGroup_ConnectMergesClasses verifies merging: one fresh root with
// a strictly larger key guards both resources afterwards.
func TestGroup_ConnectMergesClasses(t *testing.T) {
	_, opts := world(t)
	g := groups.New(opts...)

	a, err := g.CreateAndAcquireResource()
	require.NoError(t, err)
	b, err := g.CreateAndAcquireResource()
	require.NoError(t, err)

	oldA, oldB := a.RootIdentifier(), b.RootIdentifier()
	require.NotSame(t, oldA, oldB)
	require.Equal(t, 2, g.Stats().Held)

	require.NoError(t, g.Connect(a, b))

	merged := a.RootIdentifier()
	assert.Same(t, merged, b.RootIdentifier(), "one root for the merged class")
	assert.Greater(t, merged.Key(), oldA.Key(), "merge root key exceeds both old roots")
	assert.Greater(t, merged.Key(), oldB.Key())
	assert.Equal(t, 1, g.Stats().Held, "two held roots replaced by one")

	require.NoError(t, g.Free())
}

// TestGroup_ConnectSameClassRecordsEdgeOnly verifies connecting within
// one class adds adjacency without re-rooting.
func TestGroup_ConnectSameClassRecordsEdgeOnly(t *testing.T) {
	_, opts := world(t)
	g := groups.New(opts...)

	a, _ := g.CreateAndAcquireResource()
	b, _ := g.CreateAndAcquireResource()
	c, _ := g.CreateAndAcquireResource()
	require.NoError(t, g.Connect(a, b))
	require.NoError(t, g.Connect(b, c))

	root := a.RootIdentifier()
	require.NoError(t, g.Connect(a, c)) // already one class

	assert.Same(t, root, a.RootIdentifier(), "no re-rooting within a class")
	assert.Equal(t, 1, g.Stats().Held)

	nbs, err := g.DirectlyConnectedTo(a)
	require.NoError(t, err)
	assert.Equal(t, []*core.Resource{b, c}, nbs)

	require.NoError(t, g.Free())
}

// TestGroup_ConnectIdempotent verifies a repeated Connect changes
// nothing observable.
func TestGroup_ConnectIdempotent(t *testing.T) {
	_, opts := world(t)
	g := groups.New(opts...)

	a, _ := g.CreateAndAcquireResource()
	b, _ := g.CreateAndAcquireResource()
	require.NoError(t, g.Connect(a, b))

	root := a.RootIdentifier()
	held := g.Stats().Held

	require.NoError(t, g.Connect(a, b))

	assert.Same(t, root, a.RootIdentifier())
	assert.Equal(t, held, g.Stats().Held)
	nbs, _ := g.DirectlyConnectedTo(a)
	assert.Len(t, nbs, 1)

	require.NoError(t, g.Free())
}

// TestGroup_ConnectRequiresHeldRoots verifies ErrResourceNotHeld for
// resources whose classes this group never acquired.
func TestGroup_ConnectRequiresHeldRoots(t *testing.T) {
	w, opts := world(t)
	g := groups.New(opts...)

	held, _ := g.CreateAndAcquireResource()
	stranger := w.NewResource()

	assert.ErrorIs(t, g.Connect(held, stranger), groups.ErrResourceNotHeld)
	assert.ErrorIs(t, g.Connect(stranger, held), groups.ErrResourceNotHeld)
	assert.ErrorIs(t, g.Disconnect(held, stranger), groups.ErrResourceNotHeld)
	_, err := g.DirectlyConnectedTo(stranger)
	assert.ErrorIs(t, err, groups.ErrResourceNotHeld)

	// Usage errors leave the group intact and active.
	assert.True(t, g.Holds(held))
	require.NoError(t, g.Free())
}

// TestGroup_DisconnectWithoutSplitPreservesClass removes one edge of a
// triangle: connectivity survives via the third vertex.
func TestGroup_DisconnectWithoutSplitPreservesClass(t *testing.T) {
	_, opts := world(t)
	g := groups.New(opts...)

	a, _ := g.CreateAndAcquireResource()
	b, _ := g.CreateAndAcquireResource()
	c, _ := g.CreateAndAcquireResource()
	require.NoError(t, g.Connect(a, b))
	require.NoError(t, g.Connect(b, c))
	require.NoError(t, g.Connect(c, a))

	root := a.RootIdentifier()
	require.NoError(t, g.Disconnect(a, b))

	assert.Same(t, root, a.RootIdentifier(), "class unchanged while still connected via c")
	assert.Same(t, root, b.RootIdentifier())
	assert.Equal(t, 1, g.Stats().Held)

	require.NoError(t, g.Free())
}

// TestGroup_DisconnectSplitsClass continues the triangle scenario:
// removing the second path isolates b under a fresh root.
func TestGroup_DisconnectSplitsClass(t *testing.T) {
	w, opts := world(t)
	g := groups.New(opts...)

	a, _ := g.CreateAndAcquireResource()
	b, _ := g.CreateAndAcquireResource()
	c, _ := g.CreateAndAcquireResource()
	require.NoError(t, g.Connect(a, b))
	require.NoError(t, g.Connect(b, c))
	require.NoError(t, g.Connect(c, a))
	require.NoError(t, g.Disconnect(a, b))

	highWater := w.Stats().KeysIssued
	require.NoError(t, g.Disconnect(b, c))

	// b isolated; a and c still share a class.
	assert.Same(t, a.RootIdentifier(), c.RootIdentifier())
	assert.NotSame(t, a.RootIdentifier(), b.RootIdentifier())

	// Both fresh roots postdate every previously issued key.
	assert.Greater(t, a.RootIdentifier().Key(), highWater)
	assert.Greater(t, b.RootIdentifier().Key(), highWater)

	// The held set now guards both halves.
	assert.Equal(t, 2, g.Stats().Held)
	assert.True(t, g.Holds(a))
	assert.True(t, g.Holds(b))

	require.NoError(t, g.Free())
}

// TestGroup_DisconnectSelfRejected verifies the error surfaces and
// the resource stays held.
func TestGroup_DisconnectSelfRejected(t *testing.T) {
	_, opts := world(t)
	g := groups.New(opts...)

	a, _ := g.CreateAndAcquireResource()

	assert.ErrorIs(t, g.Disconnect(a, a), core.ErrSelfDisconnect)
	assert.True(t, g.Holds(a), "resource remains held after the rejected call")

	require.NoError(t, g.Free())
}

// TestGroup_DisconnectUnrelatedHeldClasses verifies removing a
// nonexistent edge between two held singleton classes is a no-op.
func TestGroup_DisconnectUnrelatedHeldClasses(t *testing.T) {
	_, opts := world(t)
	g := groups.New(opts...)

	a, _ := g.CreateAndAcquireResource()
	b, _ := g.CreateAndAcquireResource()
	ra, rb := a.RootIdentifier(), b.RootIdentifier()

	require.NoError(t, g.Disconnect(a, b))

	assert.Same(t, ra, a.RootIdentifier())
	assert.Same(t, rb, b.RootIdentifier())
	assert.Equal(t, 2, g.Stats().Held)

	require.NoError(t, g.Free())
}

// TestGroup_WorldMismatch verifies resources from a foreign world are
// rejected before any lock is taken.
func TestGroup_WorldMismatch(t *testing.T) {
	_, opts := world(t)
	g := groups.New(opts...)

	foreign := core.NewWorld().NewResource()
	mine, _ := g.CreateAndAcquireResource()

	assert.ErrorIs(t, g.Connect(mine, foreign), groups.ErrWorldMismatch)
	assert.ErrorIs(t, g.Disconnect(mine, foreign), groups.ErrWorldMismatch)
	_, err := g.DirectlyConnectedTo(foreign)
	assert.ErrorIs(t, err, groups.ErrWorldMismatch)
	assert.False(t, g.Holds(foreign))

	_, err = groups.Acquire([]*core.Resource{foreign}, opts...)
	assert.ErrorIs(t, err, groups.ErrWorldMismatch)

	require.NoError(t, g.Free())
}

// TestGroup_NilResource verifies nil inputs surface core.ErrNilResource.
func TestGroup_NilResource(t *testing.T) {
	_, opts := world(t)
	g := groups.New(opts...)
	a, _ := g.CreateAndAcquireResource()

	assert.ErrorIs(t, g.Connect(a, nil), core.ErrNilResource)
	assert.ErrorIs(t, g.Connect(nil, a), core.ErrNilResource)
	assert.ErrorIs(t, g.Disconnect(nil, nil), core.ErrNilResource)
	_, err := g.DirectlyConnectedTo(nil)
	assert.ErrorIs(t, err, core.ErrNilResource)

	require.NoError(t, g.Free())
}

// TestCreateResource verifies the package-level constructor returns a
// fresh unacquired singleton.
func TestCreateResource(t *testing.T) {
	w, opts := world(t)

	r := groups.CreateResource(opts...)
	require.NotNil(t, r)
	assert.Same(t, w, r.World())
	assert.Empty(t, r.Neighbors())

	// Unacquired: a fresh group can take it without blocking.
	g, err := groups.Acquire([]*core.Resource{r}, opts...)
	require.NoError(t, err)
	require.NoError(t, g.Free())
}

// TestCreateConnected verifies the one-call create-and-wire helper
// leaves everything released and connected.
func TestCreateConnected(t *testing.T) {
	_, opts := world(t)

	a := groups.CreateResource(opts...)
	b := groups.CreateResource(opts...)

	r, err := groups.CreateConnected([]*core.Resource{a, b}, opts...)
	require.NoError(t, err)
	require.NotNil(t, r)

	// r is edge-connected to each input and all three share one class.
	assert.Equal(t, []*core.Resource{a, b}, r.Neighbors())
	assert.Same(t, r.RootIdentifier(), a.RootIdentifier())
	assert.Same(t, r.RootIdentifier(), b.RootIdentifier())

	// Everything is released: acquiring the class again succeeds.
	g, err := groups.Acquire([]*core.Resource{r}, opts...)
	require.NoError(t, err)
	require.NoError(t, g.Free())
}

// TestCreateConnected_Single covers the "create a sibling of r" idiom.
func TestCreateConnected_Single(t *testing.T) {
	_, opts := world(t)

	a := groups.CreateResource(opts...)
	r, err := groups.CreateConnected([]*core.Resource{a}, opts...)
	require.NoError(t, err)

	assert.Equal(t, []*core.Resource{a}, r.Neighbors())
	assert.Same(t, r.RootIdentifier(), a.RootIdentifier())
}
