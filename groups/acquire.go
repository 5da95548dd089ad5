package groups

import (
	"sort"

	"github.com/michaelbradley91/StickySharedResources/core"
)

// Acquire constructs a group and runs the acquisition protocol over
// resources, returning only once every class containing one of them is
// exclusively locked. Duplicate resources, and distinct resources that
// share a class, collapse to a single held root.
//
// Acquire may block while waiting on class semaphores and, if the world
// gate is closed, before its first lock attempt. Input validation
// errors (nil resource, foreign world) are returned before anything is
// locked, so a failed Acquire never leaks a held class.
func Acquire(resources []*core.Resource, opts ...Option) (*Group, error) {
	g := New(opts...)
	if err := g.acquire(resources); err != nil {
		return nil, err
	}

	return g, nil
}

// acquire is the deadlock-avoiding core: lock classes in ascending key
// order, revalidate after each blocking wait, restart on stale locks.
//
// Why this terminates without deadlock: every merge or split allocates
// identifiers with keys strictly greater than anything existing, so the
// roots relevant to this acquisition only ever grow in key order.
// Locking in ascending key order therefore participates in a global
// partial order on class locks and cycles are impossible. A lock that
// turns stale (its class merged away before we got it) is released and
// the snapshot recomputed; locks already held stay valid because
// holding a root prevents anyone else from merging or splitting that
// class.
func (g *Group) acquire(resources []*core.Resource) error {
	// 1. Validate and dedupe inputs before taking any lock.
	rs := make([]*core.Resource, 0, len(resources))
	seen := make(map[*core.Resource]struct{}, len(resources))
	for _, r := range resources {
		if r == nil {
			return core.ErrNilResource
		}
		if r.World() != g.world {
			return ErrWorldMismatch
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		rs = append(rs, r)
	}
	if len(rs) == 0 {
		return nil
	}

	// 2. Admission: new groups wait here while a starved group finishes.
	//    We hold nothing yet, so parking is harmless.
	gate := g.world.Gate()
	gate.Enter()
	budget := g.restartBudget
	closed := false
	defer func() {
		// The acquisition phase is over (the held set is complete), so a
		// closed gate reopens even though the classes stay locked until
		// Free. The bound the gate provides is on acquisition-time
		// interference, not on class-lock hold times.
		if closed {
			gate.Open()
		}
	}()

	for {
		// 3. Snapshot: unique current roots not already held, ascending
		//    by key. Recomputed every iteration: classes may have
		//    merged or split while we were blocked.
		targets := g.snapshotTargets(rs)
		if len(targets) == 0 {
			return nil
		}

		// 4. Lock the smallest-key target. May block indefinitely.
		t := targets[0]
		t.Lock()

		// 5. Revalidate: after blocking, t must still root at least one
		//    requested resource (one whose class we do not already
		//    hold; a held class cannot have drifted onto t, since
		//    holding a root freezes its class).
		valid := false
		for _, r := range rs {
			if r.RootIdentifier() == t {
				valid = true
				break
			}
		}

		if valid {
			g.addHeld(t)
			continue
		}

		// 6. Stale: the class was merged away before we locked it.
		t.Unlock()
		g.restarts++
		budget--
		if budget <= 0 && !closed {
			gate.Close()
			closed = true
			g.gateClosures++
		}
	}
}

// snapshotTargets returns the unique current roots of rs that are not
// already held, sorted ascending by key.
func (g *Group) snapshotTargets(rs []*core.Resource) []*core.Identifier {
	uniq := make(map[*core.Identifier]struct{}, len(rs))
	targets := make([]*core.Identifier, 0, len(rs))
	for _, r := range rs {
		root := r.RootIdentifier()
		if g.holds(root) {
			continue
		}
		if _, dup := uniq[root]; dup {
			continue
		}
		uniq[root] = struct{}{}
		targets = append(targets, root)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Key() < targets[j].Key() })

	return targets
}
