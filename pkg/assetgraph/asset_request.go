package assetgraph

// asset_request.go implements the per-file transform pipeline, including the extension-flip restart.
//
// © 2025 parcelgo authors. MIT License.

import (
	"context"
	"crypto/sha256"
	"errors"

	"github.com/zeebo/xxh3"

	"github.com/parcelgo/parcelgo/pkg/blobcache"
	"github.com/parcelgo/parcelgo/pkg/farm"
	"github.com/parcelgo/parcelgo/pkg/graphmodel"
	"github.com/parcelgo/parcelgo/pkg/tracker"
)

// AssetRequest is the memoized unit of work that turns one file into an
// Asset plus the Dependencies it declares, by running it through the
// transformer pipeline selected for its extension. Grounded directly on
// the Rust original's AssetRequest/run_pipeline (asset_request.rs): read
// the file if code wasn't already supplied by a resolver, run each
// transformer in sequence, and restart the pipeline from the configured
// chain for the new extension whenever a transformer changes the asset's
// type.
type AssetRequest struct {
	Transformers *PipelineMap
	FilePath     graphmodel.Path
	Code         []byte // nil means read FilePath via FS
	Pipeline     *string
	Env          graphmodel.Environment
	SideEffects  bool

	FS        FileSystem
	Farm      farm.Farm
	BlobCache *blobcache.Store
}

// AssetRequestResult is AssetRequest's cached value.
type AssetRequestResult struct {
	Asset        graphmodel.Asset
	Dependencies []graphmodel.Dependency
}

func (r AssetRequest) Key() tracker.Key {
	h := sha256.New()
	h.Write([]byte("asset"))
	h.Write([]byte(r.FilePath))
	if r.Pipeline != nil {
		h.Write([]byte(*r.Pipeline))
	}
	h.Write(r.Env.CanonicalBytes())
	h.Write([]byte{boolByte(r.SideEffects)})
	if r.Code != nil {
		h.Write(r.Code)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return tracker.Key(out)
}

func (r AssetRequest) Run(ctx context.Context, rt *tracker.Tracker) (any, []graphmodel.Invalidation, []graphmodel.Diagnostic, error) {
	pipeline, registered := r.Transformers.Lookup(r.FilePath, r.Pipeline)

	assetType := r.FilePath.Extension()
	if !registered {
		assetType = "unknown"
	}

	var flags graphmodel.AssetFlags
	flags = flags.With(graphmodel.FlagIsBundleSplittable, true)
	flags = flags.With(graphmodel.FlagIsSource, r.FilePath.IsSource())
	flags = flags.With(graphmodel.FlagSideEffects, r.SideEffects)

	envHandle := graphmodel.InternEnvironment(r.Env)
	asset := graphmodel.Asset{
		FilePath:  graphmodel.InternPath(r.FilePath),
		Env:       envHandle,
		Pipeline:  r.Pipeline,
		AssetType: assetType,
		Flags:     flags,
	}

	code := r.Code
	if code == nil {
		var err error
		code, err = r.FS.ReadFile(ctx, r.FilePath)
		if err != nil {
			diag := graphmodel.IOFailure(r.FilePath, err)
			invs := []graphmodel.Invalidation{graphmodel.FileUpdate{Path: r.FilePath}}
			return nil, invs, []graphmodel.Diagnostic{diag}, nil
		}
	}

	finalPath, finalAsset, finalCode, deps, invs, diags := runPipeline(ctx, pipeline, r.FilePath, asset, code, r.Transformers, r.Farm)
	invs = append(invs, graphmodel.FileUpdate{Path: r.FilePath})

	if len(diags) > 0 {
		return nil, invs, diags, nil
	}

	outputHash := xxh3.Hash(finalCode)
	finalAsset.OutputHash = outputHash
	finalAsset.ContentKey = outputHash
	finalAsset.Stats.Size = uint32(len(finalCode))

	if r.BlobCache != nil {
		if err := r.BlobCache.Set(finalAsset.ContentKey, finalCode); err != nil {
			diag := graphmodel.IOFailure(finalPath, err)
			return nil, invs, []graphmodel.Diagnostic{diag}, nil
		}
	}

	return AssetRequestResult{Asset: finalAsset, Dependencies: deps}, invs, nil, nil
}

// transformerTask adapts one Transformer call to farm.Task. Payload is
// unused: the only Farm implementation the core ships is in-process.
type transformerTask struct {
	transformer Transformer
	asset       graphmodel.Asset
	code        []byte
}

func (t transformerTask) Payload() ([]byte, error) {
	return nil, errors.New("assetgraph: transformer tasks are not serializable in this build")
}

func (t transformerTask) Execute(ctx context.Context) (any, error) {
	result, diags := t.transformer.Transform(ctx, t.asset, t.code)
	if len(diags) > 0 {
		return nil, &graphmodel.DiagnosticsError{Diagnostics: diags}
	}
	return result, nil
}

// runPipeline runs each transformer in pipeline over (asset, code) in
// order, restarting from the pipeline configured for the new extension
// whenever a transformer retypes the asset and that pipeline differs from
// the one currently executing — mirroring the Rust original's run_pipeline
// exactly, including the extension-flip restart.
func runPipeline(
	ctx context.Context,
	pipeline []PluginNode,
	path graphmodel.Path,
	asset graphmodel.Asset,
	code []byte,
	transformers *PipelineMap,
	f farm.Farm,
) (graphmodel.Path, graphmodel.Asset, []byte, []graphmodel.Dependency, []graphmodel.Invalidation, []graphmodel.Diagnostic) {
	var deps []graphmodel.Dependency
	var invs []graphmodel.Invalidation

	for _, node := range pipeline {
		priorType := asset.AssetType

		raw, err := f.Run(ctx, transformerTask{transformer: node.Transformer, asset: asset, code: code})
		if err != nil {
			var de *graphmodel.DiagnosticsError
			if errors.As(err, &de) {
				return path, asset, code, deps, invs, de.Diagnostics
			}
			return path, asset, code, deps, invs, []graphmodel.Diagnostic{graphmodel.IOFailure(path, err)}
		}
		tr := raw.(TransformResult)

		if tr.Asset.AssetType != priorType {
			nextPath := path.WithExtension(tr.Asset.AssetType)
			nextPipeline := transformers.Get(nextPath, tr.Asset.Pipeline)
			if !pipelinesEqual(nextPipeline, pipeline) {
				tr.Asset.FilePath = graphmodel.InternPath(nextPath)
				deps = append(deps, tr.Dependencies...)
				invs = append(invs, tr.Invalidations...)
				restPath, restAsset, restCode, restDeps, restInvs, restDiags := runPipeline(ctx, nextPipeline, nextPath, tr.Asset, tr.Code, transformers, f)
				return restPath, restAsset, restCode, append(deps, restDeps...), append(invs, restInvs...), restDiags
			}
			path = nextPath
			tr.Asset.FilePath = graphmodel.InternPath(nextPath)
		}

		asset = tr.Asset
		code = tr.Code
		deps = append(deps, tr.Dependencies...)
		invs = append(invs, tr.Invalidations...)
	}

	return path, asset, code, deps, invs, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func pipelineKeyString(pipeline *string) string {
	if pipeline == nil {
		return ""
	}
	return *pipeline
}
