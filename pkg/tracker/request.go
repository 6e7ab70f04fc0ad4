// Package tracker implements the memoized, invalidation-aware computation
// graph described as the Request Tracker: each node is a pure "request"
// whose result may be reused across builds if none of its declared
// invalidations fire.
//
// © 2025 parcelgo authors. MIT License.
package tracker

import (
	"context"

	"github.com/parcelgo/parcelgo/pkg/graphmodel"
)

// Key is a request's content hash: its inputs fully determine the hash,
// which is also the memoization key.
type Key [32]byte

// Request is a pure computation unit identified by its content hash. Key
// must be a deterministic function of the request's inputs only — never of
// ambient state such as the current time or an injected collaborator.
type Request interface {
	// Key returns this request's content hash.
	Key() Key

	// Run executes the request. ctx carries the tracker's bookkeeping for
	// cycle detection and edge recording; implementations that invoke
	// sub-requests must do so via Tracker.Run(ctx, ...) using this same
	// ctx so the parent/child edge is recorded correctly.
	//
	// err is reserved for internal invariant violations (a cycle, a
	// dereferenced null handle, a missing pipeline) that should abort the
	// whole build; diags carry user-facing failures that stop only this
	// request's subtree and are not cached as a value, though their
	// invalidations still are.
	Run(ctx context.Context, rt *Tracker) (value any, invalidations []graphmodel.Invalidation, diags []graphmodel.Diagnostic, err error)
}
