package groups

import "github.com/michaelbradley91/StickySharedResources/core"

// CreateResource returns a fresh, disconnected, unacquired resource.
// Sugar for Options resolution plus World.NewResource: no group is
// involved and no lock is taken.
// Complexity: O(1).
func CreateResource(opts ...Option) *core.Resource {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return o.World.NewResource()
}

// CreateConnected acquires every resource in resources, creates a new
// resource, connects it to each of them, frees, and returns the new
// resource. With a single element this is the "create a sibling of r"
// idiom; with none it degenerates to CreateResource (via a transient
// group, so the result's class lock is exercised once).
//
// On any error the group is freed before returning, so no class stays
// locked behind a failed call.
func CreateConnected(resources []*core.Resource, opts ...Option) (*core.Resource, error) {
	// 1. Lock every class containing an input resource.
	g, err := Acquire(resources, opts...)
	if err != nil {
		return nil, err
	}

	// 2. New resource, born held, then edge-connected to each input.
	//    Each Connect merges the fresh singleton class into the inputs'.
	r, err := g.CreateAndAcquireResource()
	if err == nil {
		for _, other := range resources {
			if err = g.Connect(r, other); err != nil {
				break
			}
		}
	}
	if err != nil {
		_ = g.Free() // surface the original error, not Free's

		return nil, err
	}

	// 3. Release everything; the new resource remains connected.
	if err = g.Free(); err != nil {
		return nil, err
	}

	return r, nil
}
