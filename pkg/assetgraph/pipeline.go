package assetgraph

// pipeline.go maps a file extension and pipeline name to its ordered transformer list.
//
// © 2025 parcelgo authors. MIT License.

import (
	"sync"

	"github.com/parcelgo/parcelgo/pkg/graphmodel"
)

// PipelineKey selects a pipeline by the file extension it applies to and,
// optionally, a named pipeline distinct from the default (e.g. a
// `pipeline:` prefix on an import specifier).
type PipelineKey struct {
	Extension string
	Pipeline  string
}

// PipelineMap is the result of loading `.parcelrc`-equivalent
// configuration: a table from (extension, pipeline) to the ordered list of
// transformer plugins that should run over a matching asset.
type PipelineMap struct {
	mu        sync.RWMutex
	pipelines map[PipelineKey][]PluginNode
}

// NewPipelineMap returns an empty map; use Register to populate it.
func NewPipelineMap() *PipelineMap {
	return &PipelineMap{pipelines: make(map[PipelineKey][]PluginNode)}
}

// Register associates nodes with key, replacing any existing registration.
func (m *PipelineMap) Register(key PipelineKey, nodes []PluginNode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipelines[key] = nodes
}

// Lookup resolves the pipeline for path under the named pipeline (nil or ""
// for the default), reporting whether a chain was ever registered for that
// (extension, pipeline) pair. This distinguishes an extension nobody
// configured (ok == false) from one explicitly registered with an empty
// chain (ok == true, nodes == nil) — callers use the distinction to tell
// "unknown" assets from ones that merely pass through unmodified.
func (m *PipelineMap) Lookup(path graphmodel.Path, pipeline *string) ([]PluginNode, bool) {
	name := ""
	if pipeline != nil {
		name = *pipeline
	}
	key := PipelineKey{Extension: path.Extension(), Pipeline: name}

	m.mu.RLock()
	defer m.mu.RUnlock()
	nodes, ok := m.pipelines[key]
	return nodes, ok
}

// Get resolves the pipeline for path under the named pipeline (nil or ""
// for the default). An extension with no registered pipeline passes
// through as an empty chain — the asset is added to the graph unmodified,
// matching scenario 1's "identity chain" semantics.
func (m *PipelineMap) Get(path graphmodel.Path, pipeline *string) []PluginNode {
	nodes, _ := m.Lookup(path, pipeline)
	return nodes
}
