// Package assetgraph implements the Asset Graph Builder: the top-level
// driver that expands a set of entries into a DAG of assets by running
// per-file transformer pipelines, discovering and resolving dependencies,
// and iterating until the graph closes.
//
// © 2025 parcelgo authors. MIT License.
package assetgraph

import (
	"context"

	"github.com/parcelgo/parcelgo/pkg/graphmodel"
)

// TransformResult is what one Transformer call in a pipeline produces: a
// (possibly retyped) asset, its new code, any dependencies it discovered,
// and any invalidations it wants recorded against the enclosing request.
type TransformResult struct {
	Asset         graphmodel.Asset
	Code          []byte
	Dependencies  []graphmodel.Dependency
	Invalidations []graphmodel.Invalidation
}

// Transformer is a pure function over (asset, bytes) -> transformed,
// treated by the core as an opaque plugin; individual transformer
// implementations are out of scope (spec.md §1).
type Transformer interface {
	Transform(ctx context.Context, asset graphmodel.Asset, code []byte) (TransformResult, []graphmodel.Diagnostic)
}

// PluginNode names one step of a pipeline. PackageName identifies the
// plugin for logging and pipeline-identity comparison; Transformer is the
// callable itself.
type PluginNode struct {
	PackageName string
	Transformer Transformer
}

func pipelinesEqual(a, b []PluginNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].PackageName != b[i].PackageName {
			return false
		}
	}
	return true
}
