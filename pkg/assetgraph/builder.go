package assetgraph

// builder.go implements Builder.Build: frontier-by-frontier graph expansion.
//
// © 2025 parcelgo authors. MIT License.

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/parcelgo/parcelgo/pkg/blobcache"
	"github.com/parcelgo/parcelgo/pkg/farm"
	"github.com/parcelgo/parcelgo/pkg/graphmodel"
	"github.com/parcelgo/parcelgo/pkg/tracker"
)

// Builder drives the full Asset Graph Construction algorithm: expand
// entries into AssetRequests, run each through its transformer pipeline,
// resolve every declared Dependency, and keep expanding newly resolved
// assets until no new (path, env, pipeline) triple is discovered.
type Builder struct {
	tracker      *tracker.Tracker
	farm         farm.Farm
	fs           FileSystem
	blobs        *blobcache.Store
	configLoader ConfigLoader
	resolver     Resolver

	concurrency int
}

// NewBuilder wires a Builder's collaborators. rt, f, fs, cl, and res are
// required: Build loads its pipeline map through cl and resolves every
// entry through res. blobs may be nil, in which case no blob-cache write
// is made.
func NewBuilder(rt *tracker.Tracker, f farm.Farm, fs FileSystem, blobs *blobcache.Store, cl ConfigLoader, res Resolver, opts ...Option) *Builder {
	cfg := defaultConfig()
	applyOptions(cfg, opts)

	return &Builder{
		tracker:      rt,
		farm:         f,
		fs:           fs,
		blobs:        blobs,
		configLoader: cl,
		resolver:     res,
		concurrency:  cfg.concurrency,
	}
}

type workItem struct {
	path     graphmodel.Path
	env      graphmodel.Environment
	pipeline *string

	hasFrom  bool
	fromNode graphmodel.NodeIndex
	dep      graphmodel.Dependency
}

// Build resolves entries (specifiers, not necessarily literal paths) under
// env and expands the results into a complete AssetGraph. It returns
// *graphmodel.DiagnosticsError, unwrappable to []graphmodel.Diagnostic, if
// any resolution or asset failed; partial progress on sibling entries is
// discarded.
func (b *Builder) Build(ctx context.Context, entries []graphmodel.Path, env graphmodel.Environment) (*graphmodel.AssetGraph, error) {
	cfgVal, cfgDiags, err := b.tracker.Run(ctx, ConfigRequest{Loader: b.configLoader})
	if err != nil {
		return nil, err
	}
	if len(cfgDiags) > 0 {
		return nil, graphmodel.NewDiagnosticsError(cfgDiags)
	}
	pipelineMap := cfgVal.(*PipelineMap)

	graph := graphmodel.NewAssetGraph()
	var allDiags []graphmodel.Diagnostic

	// Resolve each entry through the same Resolver Request a discovered
	// dependency uses, with no originating asset.
	frontier := make([]workItem, 0, len(entries))
	for _, e := range entries {
		resolved, diags, resolveErr := b.tracker.Run(ctx, ResolverRequest{
			Resolver: b.resolver,
			Dep: graphmodel.Dependency{
				Specifier: string(e),
				Env:       graphmodel.InternEnvironment(env),
			},
			FromPath: "",
		})
		if resolveErr != nil {
			return nil, resolveErr
		}
		if len(diags) > 0 {
			allDiags = append(allDiags, diags...)
			continue
		}
		rr := resolved.(ResolveResult)
		frontier = append(frontier, workItem{path: rr.Path, env: rr.Env, pipeline: rr.Pipeline})
	}

	for len(frontier) > 0 {
		idxs := make([]graphmodel.NodeIndex, len(frontier))
		isNew := make([]bool, len(frontier))

		for i, item := range frontier {
			pathHandle := graphmodel.InternPath(item.path)
			envHandle := graphmodel.InternEnvironment(item.env)
			candidate := graphmodel.NodeIndex(graph.Len())

			idx, first := graph.Visit(pathHandle.Handle(), envHandle.Handle(), pipelineKeyString(item.pipeline), candidate)
			if first {
				graph.AddNode(graphmodel.Asset{FilePath: pathHandle, Env: envHandle, Pipeline: item.pipeline})
			}
			if item.hasFrom {
				graph.AddEdge(item.fromNode, idx, item.dep)
			}
			idxs[i] = idx
			isNew[i] = first
		}

		results := make([]AssetRequestResult, len(frontier))
		resultDiags := make([][]graphmodel.Diagnostic, len(frontier))

		g, gctx := errgroup.WithContext(ctx)
		if b.concurrency > 0 {
			g.SetLimit(b.concurrency)
		}
		for i, item := range frontier {
			if !isNew[i] {
				continue
			}
			i, item := i, item
			g.Go(func() error {
				req := AssetRequest{
					Transformers: pipelineMap,
					FilePath:     item.path,
					Pipeline:     item.pipeline,
					Env:          item.env,
					FS:           b.fs,
					Farm:         b.farm,
					BlobCache:    b.blobs,
				}
				value, diags, runErr := b.tracker.Run(gctx, req)
				if runErr != nil {
					return runErr
				}
				resultDiags[i] = diags
				if len(diags) == 0 {
					results[i] = value.(AssetRequestResult)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		var nextFrontier []workItem
		for i, item := range frontier {
			if !isNew[i] {
				continue
			}
			if len(resultDiags[i]) > 0 {
				allDiags = append(allDiags, resultDiags[i]...)
				continue
			}

			graph.SetNode(idxs[i], results[i].Asset)

			for _, dep := range results[i].Dependencies {
				resolved, resolveDiags, resolveErr := b.tracker.Run(ctx, ResolverRequest{
					Resolver: b.resolver,
					Dep:      dep,
					FromPath: item.path,
				})
				if resolveErr != nil {
					return nil, resolveErr
				}
				if len(resolveDiags) > 0 {
					allDiags = append(allDiags, resolveDiags...)
					continue
				}
				rr := resolved.(ResolveResult)
				nextFrontier = append(nextFrontier, workItem{
					path:     rr.Path,
					env:      rr.Env,
					pipeline: rr.Pipeline,
					hasFrom:  true,
					fromNode: idxs[i],
					dep:      dep,
				})
			}
		}
		frontier = nextFrontier
	}

	if len(allDiags) > 0 {
		return nil, graphmodel.NewDiagnosticsError(allDiags)
	}
	return graph, nil
}
