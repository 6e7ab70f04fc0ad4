// Package graphmodel defines the asset graph's data model: paths,
// environments, assets, dependencies, invalidations, and the handles that
// tie them to the interned memory substrate in internal/intern.
//
// © 2025 parcelgo authors. MIT License.
package graphmodel

import "github.com/parcelgo/parcelgo/internal/pageheap"

// Handle is the 32-bit opaque address type shared across the module. 1 is
// reserved as null/uninitialized and never dereferences.
type Handle = pageheap.Handle

// NullHandle is the sentinel value for an uninitialized Handle.
const NullHandle Handle = pageheap.NullHandle

// Interned is a handle whose referent is immutable and owned by an
// interner. The phantom type parameter only exists to keep, say, an
// Interned[Path] from being mistaken for an Interned[Environment] at
// compile time; equality and hashing are handle equality and hashing.
type Interned[T any] struct {
	h Handle
}

// NewInterned wraps a raw handle. Used by the intern package's callers
// after a successful Intern call.
func NewInterned[T any](h Handle) Interned[T] { return Interned[T]{h: h} }

// Handle returns the underlying 32-bit address.
func (i Interned[T]) Handle() Handle { return i.h }

// IsNull reports whether this handle is the reserved null value.
func (i Interned[T]) IsNull() bool { return i.h == NullHandle }
