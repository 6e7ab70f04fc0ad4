package assetgraph

// resolver.go implements the dependency-to-path resolution request.
//
// © 2025 parcelgo authors. MIT License.

import (
	"context"
	"crypto/sha256"
	"encoding/binary"

	"github.com/parcelgo/parcelgo/pkg/graphmodel"
	"github.com/parcelgo/parcelgo/pkg/tracker"
)

// ResolveResult is what a Resolver produces for one Dependency: the
// concrete (path, environment, pipeline) triple the Asset Graph Builder
// should expand next.
type ResolveResult struct {
	Path     graphmodel.Path
	Env      graphmodel.Environment
	Pipeline *string
}

// Resolver turns a declared Dependency into a concrete file to build,
// treated as an opaque plugin by the core (spec.md §1 scopes individual
// resolver implementations out).
type Resolver interface {
	Resolve(ctx context.Context, dep graphmodel.Dependency, fromPath graphmodel.Path) (ResolveResult, []graphmodel.Diagnostic, error)
}

// ResolverRequest is the memoized Request Tracker wrapper around one
// Resolver.Resolve call, keyed by every input that can change the
// resolution outcome — specifier, specifier type, target environment,
// named pipeline, and the originating asset path — so identical imports
// from the same file collapse to a single resolution without conflating
// imports that differ only in, say, target environment.
type ResolverRequest struct {
	Resolver Resolver
	Dep      graphmodel.Dependency
	FromPath graphmodel.Path
}

func (r ResolverRequest) Key() tracker.Key {
	h := sha256.New()
	h.Write([]byte("resolve"))
	h.Write([]byte(r.FromPath))
	h.Write([]byte(r.Dep.Specifier))
	h.Write([]byte{byte(r.Dep.SpecifierType)})
	var envHandle [4]byte
	binary.BigEndian.PutUint32(envHandle[:], r.Dep.Env.Handle())
	h.Write(envHandle[:])
	if r.Dep.Pipeline != nil {
		h.Write([]byte(*r.Dep.Pipeline))
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return tracker.Key(out)
}

func (r ResolverRequest) Run(ctx context.Context, rt *tracker.Tracker) (any, []graphmodel.Invalidation, []graphmodel.Diagnostic, error) {
	res, diags, err := r.Resolver.Resolve(ctx, r.Dep, r.FromPath)
	if err != nil {
		return nil, nil, nil, err
	}
	invs := []graphmodel.Invalidation{graphmodel.FileUpdate{Path: r.FromPath}}
	return res, invs, diags, nil
}
