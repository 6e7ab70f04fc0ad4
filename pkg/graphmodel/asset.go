package graphmodel

// asset.go defines the Asset node type and its bitset of boolean flags.
//
// © 2025 parcelgo authors. MIT License.

import "time"

// AssetFlags is a bitset of boolean asset properties.
type AssetFlags uint8

const (
	FlagIsSource AssetFlags = 1 << iota
	FlagIsBundleSplittable
	FlagSideEffects
)

func (f AssetFlags) Has(flag AssetFlags) bool { return f&flag != 0 }

// With returns f with flag set or cleared according to set, leaving other
// flags untouched.
func (f AssetFlags) With(flag AssetFlags, set bool) AssetFlags {
	if set {
		return f | flag
	}
	return f &^ flag
}

// BundleBehavior controls how a bundler downstream of this core would
// treat the asset; the core only carries the value, it never acts on it.
type BundleBehavior uint8

const (
	BundleBehaviorNone BundleBehavior = iota
	BundleBehaviorInline
	BundleBehaviorIsolated
)

// AssetStats carries size/time accounting for one asset.
type AssetStats struct {
	Size uint32
	Time time.Duration
}

// Symbol is a single named export/import binding carried on an Asset.
type Symbol struct {
	Local    string
	Exported string
	IsWeak   bool
}

// Asset describes one produced artifact.
type Asset struct {
	FilePath   Interned[Path]
	Env        Interned[Environment]
	Pipeline   *string
	AssetType  string
	ContentKey uint64
	OutputHash uint64
	Flags      AssetFlags
	Stats      AssetStats
	Symbols    []Symbol
	Meta       map[string]any
	UniqueKey  *string

	BundleBehavior BundleBehavior
}

// SetSideEffects toggles the SIDE_EFFECTS flag.
func (a *Asset) SetSideEffects(v bool) { a.Flags = a.Flags.With(FlagSideEffects, v) }

// IsSource reports whether the asset's flags mark it as first-party
// source (no "node_modules" path component).
func (a *Asset) IsSource() bool { return a.Flags.Has(FlagIsSource) }
