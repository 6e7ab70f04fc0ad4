package pageheap

// pageheap_test.go covers handle packing, page growth, typed access, and pointer-to-handle lookup.
//
// © 2025 parcelgo authors. MIT License.

import (
	"testing"
	"unsafe"
)

func TestPackUnpackAddrRoundTrip(t *testing.T) {
	cases := []struct{ page, offset uint32 }{
		{0, 0},
		{1, 42},
		{7, offsetMask},
	}
	for _, c := range cases {
		addr := PackAddr(c.page, c.offset)
		gotPage, gotOffset := UnpackAddr(addr)
		if gotPage != c.page || gotOffset != c.offset {
			t.Fatalf("PackAddr(%d,%d) round-trip got (%d,%d)", c.page, c.offset, gotPage, gotOffset)
		}
	}
}

func TestAllocPageStableIndex(t *testing.T) {
	h := New()
	idx0 := h.AllocPage(8, false)
	idx1 := h.AllocPage(8, false)
	if idx0 != 0 || idx1 != 1 {
		t.Fatalf("expected sequential page indices, got %d, %d", idx0, idx1)
	}
	if h.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", h.PageCount())
	}
}

func TestAllocPageMinimumSize(t *testing.T) {
	h := New()
	idx := h.AllocPage(8, false)
	buf := h.GetPage(idx)
	if len(buf) != PageSize {
		t.Fatalf("expected page of size %d, got %d", PageSize, len(buf))
	}

	idx2 := h.AllocPage(PageSize*2, false)
	buf2 := h.GetPage(idx2)
	if len(buf2) != PageSize*2 {
		t.Fatalf("expected oversized page of %d, got %d", PageSize*2, len(buf2))
	}
}

func TestGetAndGetSlice(t *testing.T) {
	h := New()
	idx := h.AllocPage(8, false)
	addr := PackAddr(idx, 0)

	type pair struct{ A, B uint32 }
	p := Get[pair](h, addr)
	p.A, p.B = 11, 22

	raw := h.GetSlice(addr, 8)
	if len(raw) != 8 {
		t.Fatalf("expected 8-byte slice, got %d", len(raw))
	}

	p2 := Get[pair](h, addr)
	if p2.A != 11 || p2.B != 22 {
		t.Fatalf("expected (11,22), got (%d,%d)", p2.A, p2.B)
	}
}

func TestFindPage(t *testing.T) {
	h := New()
	idx := h.AllocPage(8, false)
	buf := h.GetPage(idx)

	addr, ok := h.FindPage(unsafe.Pointer(&buf[5]))
	if !ok {
		t.Fatal("expected FindPage to locate the pointer")
	}
	page, offset := UnpackAddr(addr)
	if page != idx || offset != 5 {
		t.Fatalf("expected (page=%d,offset=5), got (page=%d,offset=%d)", idx, page, offset)
	}
}

func TestNullHandleNeverAllocated(t *testing.T) {
	h := New()
	idx := h.AllocPage(8, false)
	addr := PackAddr(idx, 0)
	if addr == NullHandle {
		t.Fatal("a real allocation must never collide with NullHandle")
	}
}
