// Package slab implements a typed free-list allocator over arena-allocated
// fixed-size slots, grounded on the original implementation's Slab<T>.
//
// © 2025 parcelgo authors. MIT License.
package slab

import (
	"unsafe"

	"github.com/parcelgo/parcelgo/internal/arena"
	"github.com/parcelgo/parcelgo/internal/pageheap"
)

// freeNode is written in place at the start of every freed run.
type freeNode struct {
	slots uint32
	next  uint32
}

// Slab is a free-list allocator keyed by the fixed element size of T. It is
// not safe for concurrent use without external synchronization, the same
// contract the arena it bumps from carries.
type Slab[T any] struct {
	heap     *pageheap.Heap
	arena    *arena.Arena
	freeHead pageheap.Handle
}

// New constructs an empty slab that bumps fresh slots from a.
func New[T any](a *arena.Arena) *Slab[T] {
	return &Slab[T]{heap: a.Heap(), arena: a, freeHead: pageheap.NullHandle}
}

func elemSize[T any]() uint32 {
	var zero T
	return uint32(unsafe.Sizeof(zero))
}

// Alloc returns the address of count contiguous T slots. It first walks the
// free list for a run big enough to satisfy the request, splitting from the
// tail of the first fit; failing that, it bump-allocates fresh memory from
// the arena.
func (s *Slab[T]) Alloc(count uint32) pageheap.Handle {
	size := elemSize[T]()

	if s.freeHead != pageheap.NullHandle {
		addr := s.freeHead
		prev := &s.freeHead
		for {
			node := pageheap.Get[freeNode](s.heap, addr)
			if node.slots >= count {
				if count < node.slots {
					node.slots -= count
					return addr + size*node.slots
				}
				*prev = node.next
				return addr
			}
			if node.next == pageheap.NullHandle {
				break
			}
			prev = &node.next
			addr = node.next
		}
	}

	return s.arena.Alloc(size * count)
}

// Dealloc returns count slots starting at addr to the free list. Adjacent
// runs are not coalesced; that's a permitted optimization, not a
// correctness requirement.
func (s *Slab[T]) Dealloc(addr pageheap.Handle, count uint32) {
	node := pageheap.Get[freeNode](s.heap, addr)
	node.slots = count
	node.next = s.freeHead
	s.freeHead = addr
}
