// Package parcelgo wires the Request Tracker, Asset Graph Builder, Worker
// Farm, and blob cache into the single entry point a host embeds: Build.
//
// © 2025 parcelgo authors. MIT License.
package parcelgo

import (
	"context"

	"go.uber.org/zap"

	"github.com/parcelgo/parcelgo/internal/pageheap"
	"github.com/parcelgo/parcelgo/pkg/assetgraph"
	"github.com/parcelgo/parcelgo/pkg/blobcache"
	"github.com/parcelgo/parcelgo/pkg/farm"
	"github.com/parcelgo/parcelgo/pkg/graphmodel"
	"github.com/parcelgo/parcelgo/pkg/tracker"
)

// Options exposes the collaborators the Asset Graph Builder needs but the
// core treats as opaque: the file-system read interface, the on-disk blob
// cache, configuration discovery, and dependency resolution. Flags beyond
// these are plugin-visible and left to the host, matching spec.md §6's
// "arbitrary plugin-visible flags."
type Options struct {
	FS           assetgraph.FileSystem
	BlobCache    *blobcache.Store
	ConfigLoader assetgraph.ConfigLoader
	Resolver     assetgraph.Resolver
	Farm         farm.Farm
	Env          graphmodel.Environment
	Logger       *zap.Logger
	Concurrency  int
}

// Session owns a Tracker across builds so NextBuild can be called between
// Build invocations to apply incremental file-system events.
type Session struct {
	tracker *tracker.Tracker
	builder *assetgraph.Builder
}

// NewSession constructs a Session from opts, building the Request Tracker
// and Asset Graph Builder that will be reused across incremental builds.
func NewSession(opts Options) *Session {
	if opts.Farm == nil {
		opts.Farm = farm.NewInProcess(opts.Concurrency)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rt := tracker.New(tracker.WithLogger(logger))
	b := assetgraph.NewBuilder(rt, opts.Farm, opts.FS, opts.BlobCache, opts.ConfigLoader, opts.Resolver, assetgraph.WithConcurrency(opts.Concurrency))

	return &Session{tracker: rt, builder: b}
}

// Build expands entries into a complete AssetGraph, returning a
// *graphmodel.DiagnosticsError (unwrappable to []graphmodel.Diagnostic) on
// any transform, resolve, or configuration failure.
func (s *Session) Build(ctx context.Context, entries []string, env graphmodel.Environment) (*graphmodel.AssetGraph, error) {
	paths := make([]graphmodel.Path, len(entries))
	for i, e := range entries {
		paths[i] = graphmodel.Path(e)
	}
	return s.builder.Build(ctx, paths, env)
}

// NextBuild applies events to the session's Request Tracker, marking every
// cached request they invalidate (and everything that transitively
// depended on it) dirty ahead of the next Build call. It returns the
// number of requests evicted.
func (s *Session) NextBuild(events []graphmodel.FileEvent) int {
	return s.tracker.NextBuild(events)
}

// Tracker exposes the underlying Request Tracker, primarily for debug
// tooling (cmd/parcelgo-inspect) and tests.
func (s *Session) Tracker() *tracker.Tracker { return s.tracker }

// Snapshot is the JSON-serializable debug payload exposed by a host's
// /debug/parcelgo/snapshot handler, grounded on the teacher's
// /debug/arena-cache/snapshot endpoint.
type Snapshot struct {
	CachedRequests int `json:"cached_requests"`
	PageHeapPages  int `json:"pageheap_pages"`
}

// BuildSnapshot reports current tracker and page-heap stats for s.
func (s *Session) BuildSnapshot() Snapshot {
	return Snapshot{
		CachedRequests: s.tracker.Len(),
		PageHeapPages:  pageheap.Default().PageCount(),
	}
}
