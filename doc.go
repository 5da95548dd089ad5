// Package sticky (StickySharedResources) is a multi-resource
// mutual-exclusion manager for concurrent Go programs.
//
// 🚀 What is StickySharedResources?
//
//	A library that lets callers synchronize over dynamic groups of
//	logical resources, so that exclusive access to any one resource
//	implies exclusive access to everything connected to it:
//
//	  • Resources: lightweight handles that can be connected and
//	    disconnected at runtime, forming an undirected connectivity graph
//	  • Classes: each connected component is guarded by a single
//	    semaphore, found through a mutable disjoint-set forest
//	  • Groups: short-lived, single-goroutine holders of acquired
//	    classes: the only surface for create / connect / disconnect /
//	    acquire / free
//
// ✨ Why StickySharedResources?
//
//   - Deadlock-free          — classes are locked in ascending key order
//     with post-lock revalidation; merges only ever introduce larger keys
//   - Starvation-bounded     — a process-wide fairness gate throttles new
//     contenders once a group has restarted too often
//   - Oblivious composition  — components each guard one resource and
//     stay unaware of whatever else has been connected to it
//   - In-process, pure Go    — no persistence, no IPC, no cgo
//
// Under the hood, everything is organized under two subpackages:
//
//	core/   — Identifier (disjoint-set node + class semaphore), Resource
//	          (adjacency + closure cache), World (keys + fairness gate)
//	groups/ — Group lifecycle, the ordered acquisition protocol, and
//	          package-level constructors
//
// Quick ASCII example:
//
//	    A───B       acquiring A exclusively also excludes
//	    │   │       any acquirer of B, C or D, because all
//	    C───D       four share one class lock
//
// A soak harness lives in cmd/stickystress for stressing the
// acquisition protocol and the fairness gate under real contention.
package sticky
