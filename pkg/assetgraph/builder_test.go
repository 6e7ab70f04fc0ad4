package assetgraph

// builder_test.go covers single-file builds, extension flips, exclusions, and diagnostics.
//
// © 2025 parcelgo authors. MIT License.

import (
	"context"
	"errors"
	"testing"

	"github.com/zeebo/xxh3"

	"github.com/parcelgo/parcelgo/pkg/farm"
	"github.com/parcelgo/parcelgo/pkg/graphmodel"
	"github.com/parcelgo/parcelgo/pkg/tracker"
)

type fakeFS struct {
	files map[graphmodel.Path][]byte
}

func (f fakeFS) ReadFile(ctx context.Context, path graphmodel.Path) ([]byte, error) {
	b, ok := f.files[path]
	if !ok {
		return nil, errors.New("no such file: " + string(path))
	}
	return b, nil
}

type fakeConfigLoader struct {
	pm *PipelineMap
}

func (c fakeConfigLoader) Load(ctx context.Context) (*PipelineMap, []graphmodel.Diagnostic, error) {
	return c.pm, nil, nil
}

// identityTransform leaves the asset untouched; used to test that
// registering a pipeline with a no-op transformer still passes through.
type identityTransform struct{}

func (identityTransform) Transform(ctx context.Context, asset graphmodel.Asset, code []byte) (TransformResult, []graphmodel.Diagnostic) {
	return TransformResult{Asset: asset, Code: code}, nil
}

// tsToJsTransform mimics a compile step that retypes .ts to .js mid pipeline.
type tsToJsTransform struct{}

func (tsToJsTransform) Transform(ctx context.Context, asset graphmodel.Asset, code []byte) (TransformResult, []graphmodel.Diagnostic) {
	asset.AssetType = "js"
	return TransformResult{Asset: asset, Code: code}, nil
}

// depAddingTransform declares one dependency on a fixed specifier, but only
// when running over fromFile, so the target of the dependency doesn't
// recursively declare the same dependency on itself.
type depAddingTransform struct {
	fromFile  graphmodel.Path
	specifier string
}

func (t depAddingTransform) Transform(ctx context.Context, asset graphmodel.Asset, code []byte) (TransformResult, []graphmodel.Diagnostic) {
	result := TransformResult{Asset: asset, Code: code}
	if graphmodel.LookupPath(asset.FilePath) == t.fromFile {
		result.Dependencies = []graphmodel.Dependency{{Specifier: t.specifier}}
	}
	return result, nil
}

type literalResolver struct{}

func (literalResolver) Resolve(ctx context.Context, dep graphmodel.Dependency, fromPath graphmodel.Path) (ResolveResult, []graphmodel.Diagnostic, error) {
	return ResolveResult{Path: graphmodel.Path(dep.Specifier)}, nil, nil
}

// aliasResolver maps every specifier through a fixed table, standing in for
// a resolver that turns a bare package specifier into a real file path.
type aliasResolver struct {
	aliases map[string]graphmodel.Path
}

func (r aliasResolver) Resolve(ctx context.Context, dep graphmodel.Dependency, fromPath graphmodel.Path) (ResolveResult, []graphmodel.Diagnostic, error) {
	p, ok := r.aliases[dep.Specifier]
	if !ok {
		return ResolveResult{}, nil, errors.New("unresolvable specifier: " + dep.Specifier)
	}
	return ResolveResult{Path: p}, nil, nil
}

func newTestBuilder(t *testing.T, files map[graphmodel.Path][]byte, pm *PipelineMap) *Builder {
	t.Helper()
	graphmodel.ResetPaths()
	graphmodel.ResetEnvironments()
	t.Cleanup(func() {
		graphmodel.ResetPaths()
		graphmodel.ResetEnvironments()
	})

	rt := tracker.New()
	f := farm.NewInProcess(4)
	fs := fakeFS{files: files}
	return NewBuilder(rt, f, fs, nil, fakeConfigLoader{pm: pm}, literalResolver{})
}

func TestBuildSingleFileEntryNoTransforms(t *testing.T) {
	pm := NewPipelineMap()
	pm.Register(PipelineKey{Extension: "js"}, []PluginNode{{PackageName: "identity", Transformer: identityTransform{}}})
	files := map[graphmodel.Path][]byte{"a.js": []byte("console.log(1)")}
	b := newTestBuilder(t, files, pm)

	graph, err := b.Build(context.Background(), []graphmodel.Path{"a.js"}, graphmodel.Environment{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if graph.Len() != 1 {
		t.Fatalf("expected exactly one node, got %d", graph.Len())
	}

	asset := graph.Node(0)
	if graphmodel.LookupPath(asset.FilePath) != "a.js" {
		t.Fatalf("expected file path a.js, got %q", graphmodel.LookupPath(asset.FilePath))
	}
	if asset.AssetType != "js" {
		t.Fatalf("expected asset type js, got %q", asset.AssetType)
	}
	if !asset.IsSource() {
		t.Fatalf("expected IS_SOURCE true for a top-level file")
	}
	want := xxh3.Hash(files["a.js"])
	if asset.OutputHash != want {
		t.Fatalf("expected output hash %d, got %d", want, asset.OutputHash)
	}
	if len(graph.Edges()) != 0 {
		t.Fatalf("expected zero dependencies, got %d edges", len(graph.Edges()))
	}
}

func TestBuildExtensionFlipRestartsPipeline(t *testing.T) {
	pm := NewPipelineMap()
	pm.Register(PipelineKey{Extension: "ts"}, []PluginNode{{PackageName: "ts-compiler", Transformer: tsToJsTransform{}}})
	files := map[graphmodel.Path][]byte{"a.ts": []byte("let x: number = 1")}
	b := newTestBuilder(t, files, pm)

	graph, err := b.Build(context.Background(), []graphmodel.Path{"a.ts"}, graphmodel.Environment{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	asset := graph.Node(0)
	if asset.AssetType != "js" {
		t.Fatalf("expected asset retyped to js after the flip, got %q", asset.AssetType)
	}
	if graphmodel.LookupPath(asset.FilePath) != "a.js" {
		t.Fatalf("expected file path rewritten to a.js, got %q", graphmodel.LookupPath(asset.FilePath))
	}
}

func TestBuildNodeModulesIsNotSource(t *testing.T) {
	pm := NewPipelineMap()
	files := map[graphmodel.Path][]byte{"node_modules/lib/index.js": []byte("module.exports = {}")}
	b := newTestBuilder(t, files, pm)

	graph, err := b.Build(context.Background(), []graphmodel.Path{"node_modules/lib/index.js"}, graphmodel.Environment{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if graph.Node(0).IsSource() {
		t.Fatalf("expected a node_modules asset to have IS_SOURCE false")
	}
}

func TestBuildResolvesEntrySpecifiersBeforeFirstAssetRequest(t *testing.T) {
	pm := NewPipelineMap()
	pm.Register(PipelineKey{Extension: "js"}, []PluginNode{{PackageName: "identity", Transformer: identityTransform{}}})
	files := map[graphmodel.Path][]byte{"src/real.js": []byte("1")}

	graphmodel.ResetPaths()
	graphmodel.ResetEnvironments()
	t.Cleanup(func() {
		graphmodel.ResetPaths()
		graphmodel.ResetEnvironments()
	})
	rt := tracker.New()
	f := farm.NewInProcess(4)
	resolver := aliasResolver{aliases: map[string]graphmodel.Path{"my-entry": "src/real.js"}}
	b := NewBuilder(rt, f, fakeFS{files: files}, nil, fakeConfigLoader{pm: pm}, resolver)

	graph, err := b.Build(context.Background(), []graphmodel.Path{"my-entry"}, graphmodel.Environment{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if graph.Len() != 1 {
		t.Fatalf("expected exactly one node, got %d", graph.Len())
	}
	if got := graphmodel.LookupPath(graph.Node(0).FilePath); got != "src/real.js" {
		t.Fatalf("expected entry specifier resolved to src/real.js, got %q", got)
	}
}

func TestBuildUnregisteredExtensionYieldsUnknownAssetType(t *testing.T) {
	pm := NewPipelineMap()
	files := map[graphmodel.Path][]byte{"a.xyz": []byte("???")}
	b := newTestBuilder(t, files, pm)

	graph, err := b.Build(context.Background(), []graphmodel.Path{"a.xyz"}, graphmodel.Environment{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := graph.Node(0).AssetType; got != "unknown" {
		t.Fatalf("expected asset_type unknown for an extension with no registered pipeline, got %q", got)
	}
}

func TestBuildRegisteredEmptyChainKeepsRealExtension(t *testing.T) {
	pm := NewPipelineMap()
	pm.Register(PipelineKey{Extension: "json"}, nil)
	files := map[graphmodel.Path][]byte{"a.json": []byte("{}")}
	b := newTestBuilder(t, files, pm)

	graph, err := b.Build(context.Background(), []graphmodel.Path{"a.json"}, graphmodel.Environment{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := graph.Node(0).AssetType; got != "json" {
		t.Fatalf("expected asset_type json for an explicitly-registered empty chain, got %q", got)
	}
}

func TestBuildDiscoversAndResolvesDependency(t *testing.T) {
	pm := NewPipelineMap()
	pm.Register(PipelineKey{Extension: "js"}, []PluginNode{{PackageName: "dep-finder", Transformer: depAddingTransform{fromFile: "a.js", specifier: "b.js"}}})
	files := map[graphmodel.Path][]byte{
		"a.js": []byte("import './b.js'"),
		"b.js": []byte("export const x = 1"),
	}
	b := newTestBuilder(t, files, pm)

	graph, err := b.Build(context.Background(), []graphmodel.Path{"a.js"}, graphmodel.Environment{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if graph.Len() != 2 {
		t.Fatalf("expected two nodes (a.js and b.js), got %d", graph.Len())
	}
	if len(graph.Edges()) != 1 {
		t.Fatalf("expected one dependency edge, got %d", len(graph.Edges()))
	}
	edge := graph.Edges()[0]
	if graphmodel.LookupPath(graph.Node(edge.From).FilePath) != "a.js" {
		t.Fatalf("expected edge to originate from a.js")
	}
	if graphmodel.LookupPath(graph.Node(edge.To).FilePath) != "b.js" {
		t.Fatalf("expected edge to resolve to b.js")
	}
}

func TestBuildPropagatesTransformerFailureAsDiagnostics(t *testing.T) {
	pm := NewPipelineMap()
	pm.Register(PipelineKey{Extension: "js"}, []PluginNode{{PackageName: "broken", Transformer: brokenTransform{}}})
	files := map[graphmodel.Path][]byte{"a.js": []byte("x")}
	b := newTestBuilder(t, files, pm)

	_, err := b.Build(context.Background(), []graphmodel.Path{"a.js"}, graphmodel.Environment{})
	if err == nil {
		t.Fatalf("expected an error from the failing transformer")
	}
	var de *graphmodel.DiagnosticsError
	if !errors.As(err, &de) {
		t.Fatalf("expected *graphmodel.DiagnosticsError, got %T", err)
	}
	if len(de.Diagnostics) != 1 || de.Diagnostics[0].Message != "boom" {
		t.Fatalf("unexpected diagnostics: %+v", de.Diagnostics)
	}
}

type brokenTransform struct{}

func (brokenTransform) Transform(ctx context.Context, asset graphmodel.Asset, code []byte) (TransformResult, []graphmodel.Diagnostic) {
	return TransformResult{}, []graphmodel.Diagnostic{{Message: "boom", Severity: graphmodel.SeverityError}}
}
