package graphmodel

// graph.go implements the Asset Graph: a stable-index node arena plus index-pair edges.
//
// © 2025 parcelgo authors. MIT License.

// NodeIndex is a stable index into an AssetGraph's node arena. It never
// changes once assigned, which is what lets the builder revisit an
// already-resolved (path, env, pipeline) triple without introducing a new
// node: edges are index pairs, not owning references, so a DAG that shares
// a subtree never needs to duplicate it.
type NodeIndex int

// Edge is a directed dependency edge: From's asset declared Dep, which
// resolved to the asset at To.
type Edge struct {
	From NodeIndex
	To   NodeIndex
	Dep  Dependency
}

// AssetGraph is the output of a build: a DAG of assets connected by
// resolved dependency edges. Nodes live in a flat slice rather than being
// linked by pointer, so a dependency that resolves back to an
// already-visited asset becomes an extra edge into the existing index
// instead of a new node or a reference cycle.
type AssetGraph struct {
	nodes []Asset
	edges []Edge

	// visited de-duplicates (path, env, pipeline) triples within one
	// build so a diamond dependency is resolved once and wired twice.
	visited map[visitKey]NodeIndex
}

type visitKey struct {
	path     Handle
	env      Handle
	pipeline string
}

// NewAssetGraph returns an empty graph.
func NewAssetGraph() *AssetGraph {
	return &AssetGraph{visited: make(map[visitKey]NodeIndex)}
}

// AddNode appends asset as a new node and returns its stable index.
func (g *AssetGraph) AddNode(asset Asset) NodeIndex {
	idx := NodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, asset)
	return idx
}

// AddEdge records a resolved dependency from one node to another. Adding
// the same (from, to) pair more than once with different payloads is
// permitted; each call appends a distinct Edge.
func (g *AssetGraph) AddEdge(from, to NodeIndex, dep Dependency) {
	g.edges = append(g.edges, Edge{From: from, To: to, Dep: dep})
}

// Node returns the asset at idx.
func (g *AssetGraph) Node(idx NodeIndex) Asset { return g.nodes[idx] }

// SetNode overwrites the asset at idx, used when a later pipeline stage
// refines an asset already added to the graph.
func (g *AssetGraph) SetNode(idx NodeIndex, asset Asset) { g.nodes[idx] = asset }

// Nodes returns every node in insertion order. The returned slice must not
// be mutated by the caller.
func (g *AssetGraph) Nodes() []Asset { return g.nodes }

// Edges returns every edge in insertion order. The returned slice must not
// be mutated by the caller.
func (g *AssetGraph) Edges() []Edge { return g.edges }

// Len returns the number of nodes in the graph.
func (g *AssetGraph) Len() int { return len(g.nodes) }

// Visit records that the (path, env, pipeline) triple resolved to idx,
// returning false if it was already visited (with its existing index)
// during this build. Pipeline is the empty string when none is pinned.
func (g *AssetGraph) Visit(path, env Handle, pipeline string, idx NodeIndex) (NodeIndex, bool) {
	key := visitKey{path: path, env: env, pipeline: pipeline}
	if existing, ok := g.visited[key]; ok {
		return existing, false
	}
	g.visited[key] = idx
	return idx, true
}
