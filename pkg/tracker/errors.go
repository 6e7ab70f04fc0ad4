package tracker

// errors.go defines the sentinel errors returned by Tracker.Run.
//
// © 2025 parcelgo authors. MIT License.

import "errors"

// ErrCycleDetected is returned by Run when a request transitively depends
// on itself. This aborts the whole build: a cycle is an invariant
// violation, not a recoverable per-asset diagnostic.
var ErrCycleDetected = errors.New("tracker: dependency cycle detected")
