// Package core: sentinel errors shared by the forest and resource APIs.
//
// This file declares the error values returned by Resource adjacency
// operations. Group-level errors (freed groups, unheld resources) live
// in package groups; fatal invariant violations panic instead of
// returning an error.
package core

import "errors"

// Sentinel errors for core resource operations.
var (
	// ErrNilResource indicates a nil *Resource was passed where a live
	// resource is required.
	ErrNilResource = errors.New("core: resource is nil")

	// ErrSelfDisconnect indicates an attempt to disconnect a resource
	// from itself. The self edge is a representation convention and can
	// never be removed.
	ErrSelfDisconnect = errors.New("core: cannot disconnect a resource from itself")
)
