// Package arena implements monotonic bump allocation over a page heap.
//
// Go has no thread-local storage, so rather than installing a hidden
// per-thread "current arena" the way the original implementation does, an
// Arena is an explicit value: each build worker owns one and threads it
// through its own call stack. This is the pragmatic substitution the
// design notes call out for languages without thread-locals — the contract
// (the installed allocator must outlive every handle derived from it) is
// preserved, just made visible in the type signature instead of hidden
// behind a thread-local lookup.
//
// © 2025 parcelgo authors. MIT License.
package arena

import (
	"unsafe"

	"github.com/parcelgo/parcelgo/internal/pageheap"
)

// Arena performs monotonic bump allocation within pages acquired from a
// pageheap.Heap. It is not safe for concurrent use; callers that need
// per-goroutine allocation should construct one Arena per goroutine, all
// sharing the same underlying Heap.
type Arena struct {
	heap    *pageheap.Heap
	page    uint32
	offset  uint32
	hasPage bool
}

// New constructs an arena that allocates pages from heap.
func New(heap *pageheap.Heap) *Arena {
	return &Arena{heap: heap}
}

func alignUp8(x uint32) uint32 {
	return (x + 7) &^ 7
}

// Alloc reserves size bytes (rounded up to 8) and returns their address.
// When the current page cannot satisfy the request, a fresh page is pulled
// from the heap and the cursor resets to its start.
func (a *Arena) Alloc(size uint32) pageheap.Handle {
	size = alignUp8(size)

	if !a.hasPage {
		idx := a.heap.AllocPage(int(size), false)
		a.page = idx
		a.offset = size
		a.hasPage = true
		return pageheap.PackAddr(idx, 0)
	}

	pageLen := uint32(len(a.heap.GetPage(a.page)))
	if a.offset+size > pageLen {
		idx := a.heap.AllocPage(int(size), false)
		a.page = idx
		a.offset = size
		return pageheap.PackAddr(idx, 0)
	}

	addr := pageheap.PackAddr(a.page, a.offset)
	a.offset += size
	return addr
}

// Dealloc releases the most recent allocation if addr+size lines up exactly
// with the current cursor (LIFO). Any other request is a no-op, matching
// the limited dealloc contract in the design.
func (a *Arena) Dealloc(addr pageheap.Handle, size uint32) {
	if !a.hasPage {
		return
	}
	size = alignUp8(size)
	pageIdx, offset := pageheap.UnpackAddr(addr)
	if pageIdx != a.page {
		return
	}
	if offset+size == a.offset {
		a.offset = offset
	}
}

// Value bump-allocates a zero-initialised T and returns both its handle and
// a live pointer into the arena's page.
func Value[T any](a *Arena) (pageheap.Handle, *T) {
	var zero T
	addr := a.Alloc(uint32(unsafe.Sizeof(zero)))
	return addr, pageheap.Get[T](a.heap, addr)
}

// Bytes copies buf into the arena and returns its handle.
func Bytes(a *Arena, buf []byte) pageheap.Handle {
	addr := a.Alloc(uint32(len(buf)))
	dst := a.heap.GetSlice(addr, len(buf))
	copy(dst, buf)
	return addr
}

// Heap exposes the underlying page heap, mainly so sibling allocators
// (slab) can resolve addresses without needing a second reference threaded
// through every call site.
func (a *Arena) Heap() *pageheap.Heap { return a.heap }

var defaultArena = New(pageheap.Default())

// Default returns the process-wide arena backing the default path interner.
func Default() *Arena { return defaultArena }
