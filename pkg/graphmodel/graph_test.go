package graphmodel

// graph_test.go covers stable node indices, edge recording, and shared-subtree deduplication.
//
// © 2025 parcelgo authors. MIT License.

import "testing"

func TestAssetGraphAddNodeReturnsStableIndex(t *testing.T) {
	g := NewAssetGraph()
	i0 := g.AddNode(Asset{AssetType: "js"})
	i1 := g.AddNode(Asset{AssetType: "css"})

	if i0 != 0 || i1 != 1 {
		t.Fatalf("expected sequential indices 0,1, got %d,%d", i0, i1)
	}
	if g.Node(i0).AssetType != "js" || g.Node(i1).AssetType != "css" {
		t.Fatalf("node lookup by index returned wrong asset")
	}
}

func TestAssetGraphVisitDeduplicatesSharedSubtree(t *testing.T) {
	g := NewAssetGraph()
	shared := g.AddNode(Asset{AssetType: "js"})

	idx1, first := g.Visit(1, 2, "", shared)
	idx2, second := g.Visit(1, 2, "", NodeIndex(999))

	if !first {
		t.Fatalf("expected the first Visit of a triple to report first=true")
	}
	if second {
		t.Fatalf("expected a repeated Visit of the same triple to report first=false")
	}
	if idx1 != shared || idx2 != shared {
		t.Fatalf("expected both Visit calls to resolve to the original index %d, got %d and %d", shared, idx1, idx2)
	}
}

func TestAssetGraphEdgesAllowRevisitingANode(t *testing.T) {
	g := NewAssetGraph()
	a := g.AddNode(Asset{AssetType: "js"})
	b := g.AddNode(Asset{AssetType: "js"})

	g.AddEdge(a, b, Dependency{Specifier: "./b"})
	g.AddEdge(a, b, Dependency{Specifier: "./b", Priority: PriorityLazy})

	if len(g.Edges()) != 2 {
		t.Fatalf("expected two distinct edges between the same pair of nodes, got %d", len(g.Edges()))
	}
}
