package graphmodel

// dependency.go defines the Dependency edge type and its priority levels.
//
// © 2025 parcelgo authors. MIT License.

// SpecifierType distinguishes how a Dependency's Specifier should be
// interpreted by the resolver.
type SpecifierType uint8

const (
	SpecifierEsm SpecifierType = iota
	SpecifierCommonJS
	SpecifierURL
	SpecifierCustom
)

// DependencyPriority hints at how eagerly a resolved dependency should be
// fetched; the core only threads the value through, a bundler downstream
// would act on it.
type DependencyPriority uint8

const (
	PrioritySync DependencyPriority = iota
	PriorityParallel
	PriorityLazy
)

// Dependency is a declared reference from one asset to another source,
// produced by transformers and consumed by the resolver inside the Asset
// Graph Builder.
type Dependency struct {
	Specifier      string
	SpecifierType  SpecifierType
	ResolveFrom    Interned[Path]
	Env            Interned[Environment]
	Priority       DependencyPriority
	BundleBehavior BundleBehavior
	IsOptional     bool
	Pipeline       *string
}
