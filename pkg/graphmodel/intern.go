package graphmodel

// intern.go wires the process-wide interners to the Path and Environment handle types.
//
// © 2025 parcelgo authors. MIT License.

import (
	"github.com/parcelgo/parcelgo/internal/arena"
	"github.com/parcelgo/parcelgo/internal/intern"
	"github.com/parcelgo/parcelgo/internal/pageheap"
)

// Paths and Environments are the two process-wide interners the spec
// requires: all Interned[Path] and Interned[Environment] handles in a
// process are minted from these, sharing the default page heap
// (internal/pageheap.Default). Each interner bumps from its own arena,
// since an Arena is not safe for concurrent use and the two interners
// lock independently; the path interner uses internal/arena.Default.
var (
	pathInterner = intern.New[Path](arena.Default())
	envInterner  = intern.New[Environment](arena.New(pageheap.Default()))
)

// InternPath deduplicates p to a stable handle.
func InternPath(p Path) Interned[Path] {
	return NewInterned[Path](pathInterner.Intern(p))
}

// LookupPath resolves a path handle back to its value.
func LookupPath(h Interned[Path]) Path {
	return pathInterner.MustGet(h.Handle())
}

// InternEnvironment deduplicates e to a stable handle. Per the design
// note, e's CanonicalBytes omits source location, so two environments
// built at different call sites with otherwise-identical settings share a
// handle.
func InternEnvironment(e Environment) Interned[Environment] {
	return NewInterned[Environment](envInterner.Intern(e))
}

// LookupEnvironment resolves an environment handle back to its value.
func LookupEnvironment(h Interned[Environment]) Environment {
	return envInterner.MustGet(h.Handle())
}

// ResetEnvironments empties the environment interner. Test harnesses must
// call this between isolated builds run in the same process, since
// Environment hashing excludes source location and would otherwise alias
// identical environments from unrelated test cases.
func ResetEnvironments() {
	envInterner.Reset()
}

// ResetPaths empties the path interner. Exposed for symmetry and for test
// harnesses that construct many disposable graphs in one process.
func ResetPaths() {
	pathInterner.Reset()
}
