// Package intern implements content-hash deduplication of immutable values
// into stable handles backed by the page heap. It is generic over any value
// that can produce a canonical byte encoding of itself; the concrete Path
// and Environment types live in pkg/graphmodel and satisfy Value there.
//
// © 2025 parcelgo authors. MIT License.
package intern

import (
	"bytes"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/parcelgo/parcelgo/internal/arena"
	"github.com/parcelgo/parcelgo/internal/pageheap"
)

// Value is anything the interner can deduplicate: it must expose a
// deterministic byte encoding used both for the probe hash and for the
// full-value comparison that resolves collisions.
type Value interface {
	CanonicalBytes() []byte
}

// Interner is a content-addressed table mapping a hash of a value's
// canonical bytes to a stable handle. Insertion is idempotent: Intern
// returns the existing handle when an equal value is already present.
type Interner[T Value] struct {
	mu       sync.Mutex
	arena    *arena.Arena
	buckets  map[uint64][]pageheap.Handle
	byHandle map[pageheap.Handle]T
}

// New constructs an interner that stores canonical bytes in a.
func New[T Value](a *arena.Arena) *Interner[T] {
	return &Interner[T]{
		arena:    a,
		buckets:  make(map[uint64][]pageheap.Handle),
		byHandle: make(map[pageheap.Handle]T),
	}
}

// Intern returns the stable handle for v, minting a new one (and copying
// v's canonical bytes into the arena) only if no equal value has been seen
// before. Concurrent callers interning equal values observe the same
// handle.
func (in *Interner[T]) Intern(v T) pageheap.Handle {
	raw := v.CanonicalBytes()
	h := xxhash.Sum64(raw)

	in.mu.Lock()
	defer in.mu.Unlock()

	for _, handle := range in.buckets[h] {
		if bytes.Equal(in.byHandle[handle].CanonicalBytes(), raw) {
			return handle
		}
	}

	addr := arena.Bytes(in.arena, raw)
	in.buckets[h] = append(in.buckets[h], addr)
	in.byHandle[addr] = v
	return addr
}

// MustGet resolves a handle back to its interned value. It panics on an
// unknown handle: dereferencing a handle the interner never minted is an
// internal invariant violation, not a recoverable condition.
func (in *Interner[T]) MustGet(handle pageheap.Handle) T {
	in.mu.Lock()
	defer in.mu.Unlock()
	v, ok := in.byHandle[handle]
	if !ok {
		panic("intern: handle does not resolve to a value")
	}
	return v
}

// Reset empties the interner. Test harnesses use this to isolate builds
// that would otherwise alias identical Environment values across cases.
func (in *Interner[T]) Reset() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.buckets = make(map[uint64][]pageheap.Handle)
	in.byHandle = make(map[pageheap.Handle]T)
}

// Len reports how many distinct values are currently interned.
func (in *Interner[T]) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.byHandle)
}
