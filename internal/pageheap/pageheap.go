// Package pageheap implements the process-wide, append-only paged address
// space shared by the arena, slab, and interner. Addresses are packed into a
// 32-bit Handle as (page_index, offset); handle 1 is reserved and never
// dereferences.
//
// Pages are never moved or individually freed: once appended, a page's
// backing array stays alive for the life of the process (or until the heap
// itself is discarded by the test harness). This lets every other piece of
// the memory substrate treat a Handle as a stable address for as long as the
// arena that produced it is alive.
//
// © 2025 parcelgo authors. MIT License.
package pageheap

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unsafe"
)

const (
	// PageSize is the minimum size of a freshly allocated page, 64 KiB,
	// matching the teacher's paged heap sizing.
	PageSize = 1 << 16

	offsetBits = 16
	offsetMask = uint32(1)<<offsetBits - 1
)

// Handle is a 32-bit opaque identifier pointing into the page heap. The
// value 1 is reserved as "null/uninitialized" and never dereferences.
type Handle = uint32

// NullHandle is the reserved null address.
const NullHandle Handle = 1

type page struct {
	buf []byte
}

// Heap is a process-wide vector of pages supporting concurrent append.
type Heap struct {
	mu    sync.Mutex
	pages []*page
}

// New constructs an empty heap.
func New() *Heap {
	return &Heap{}
}

// PackAddr combines a page index and an in-page offset into a Handle.
func PackAddr(pageIndex, offset uint32) Handle {
	return (pageIndex << offsetBits) | (offset & offsetMask)
}

// UnpackAddr splits a Handle back into its page index and in-page offset.
func UnpackAddr(addr Handle) (pageIndex, offset uint32) {
	return addr >> offsetBits, addr & offsetMask
}

// AllocPage appends a new page of at least max(minSize, PageSize) bytes and
// returns its stable index. Go slice allocation always zero-fills, so the
// zeroed flag only documents intent for callers that care; there is no
// cheaper un-zeroed path on this backend.
func (h *Heap) AllocPage(minSize int, zeroed bool) uint32 {
	_ = zeroed
	size := minSize
	if size < PageSize {
		size = PageSize
	}
	p := &page{buf: make([]byte, size)}

	h.mu.Lock()
	idx := uint32(len(h.pages))
	h.pages = append(h.pages, p)
	h.mu.Unlock()
	return idx
}

// GetPage returns the backing slice for a page index. No bounds checking is
// performed; callers (arena, slab) are expected to maintain the invariant
// that every address they hand out was produced by this heap.
func (h *Heap) GetPage(index uint32) []byte {
	h.mu.Lock()
	p := h.pages[index]
	h.mu.Unlock()
	return p.buf
}

// GetSlice returns a byte view of length bytes starting at addr.
func (h *Heap) GetSlice(addr Handle, length int) []byte {
	pageIndex, offset := UnpackAddr(addr)
	buf := h.GetPage(pageIndex)
	return buf[offset : offset+uint32(length)]
}

// Get reinterprets the bytes at addr as *T. The caller must guarantee addr
// was allocated with at least sizeof(T) bytes and 8-byte alignment, same as
// the hot-path contract in the original page allocator.
func Get[T any](h *Heap, addr Handle) *T {
	pageIndex, offset := UnpackAddr(addr)
	buf := h.GetPage(pageIndex)
	return (*T)(unsafe.Pointer(&buf[offset]))
}

// FindPage performs a linear scan to locate which page (and offset within
// it) a raw pointer falls into. Used only by tooling and tests.
func (h *Heap) FindPage(ptr unsafe.Pointer) (Handle, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	target := uintptr(ptr)
	for i, p := range h.pages {
		if len(p.buf) == 0 {
			continue
		}
		start := uintptr(unsafe.Pointer(&p.buf[0]))
		end := start + uintptr(len(p.buf))
		if target >= start && target < end {
			return PackAddr(uint32(i), uint32(target-start)), true
		}
	}
	return 0, false
}

// Dump writes each page to dir as page.<index>.bin, for offline debugging.
func (h *Heap) Dump(dir string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, p := range h.pages {
		name := filepath.Join(dir, fmt.Sprintf("page.%d.bin", i))
		if err := os.WriteFile(name, p.buf, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// PageCount reports how many pages have been allocated so far.
func (h *Heap) PageCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pages)
}

var defaultHeap = New()

// Default returns the process-wide page heap used by the interner and any
// caller that doesn't need an isolated heap (mainly tests).
func Default() *Heap { return defaultHeap }
