package graphmodel

// environment.go defines the build Environment handle type.
//
// © 2025 parcelgo authors. MIT License.

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
)

// SourceLocation identifies where an Environment value was constructed.
// It participates in neither the interner hash nor equality: two
// Environments built at different call sites but with otherwise identical
// settings are deliberately unified, per the spec's known-quirk design
// note. Test harnesses that build multiple times in one process should
// call ResetEnvironments between isolated builds to avoid cross-build
// aliasing.
type SourceLocation struct {
	FilePath string
	Line     int
	Column   int
}

// Environment is the build-target descriptor participating in asset
// identity: engines, source type, loc, and related flags.
type Environment struct {
	Context          string
	Engines          map[string]string
	OutputFormat     string
	SourceType       string
	ShouldOptimize   bool
	IsLibrary        bool
	ShouldScopeHoist bool
	SourceMap        bool

	// Loc is intentionally excluded from CanonicalBytes.
	Loc *SourceLocation
}

// CanonicalBytes implements intern.Value. It deliberately omits Loc so
// that two Environments built at different call sites, but otherwise
// identical, dedupe to the same handle.
func (e Environment) CanonicalBytes() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "ctx=%s;fmt=%s;src=%s;opt=%t;lib=%t;hoist=%t;map=%t;",
		e.Context, e.OutputFormat, e.SourceType,
		e.ShouldOptimize, e.IsLibrary, e.ShouldScopeHoist, e.SourceMap)

	keys := make([]string, 0, len(e.Engines))
	for k := range e.Engines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString("engines=")
	for _, k := range keys {
		writeLenPrefixed(&b, k)
		writeLenPrefixed(&b, e.Engines[k])
	}
	return []byte(b.String())
}

// writeLenPrefixed appends s to b prefixed with its length, so that two
// different (key, value) splits can never serialize to the same bytes —
// unlike a plain ":"-joined pair, which a key or value containing ":" could
// forge.
func writeLenPrefixed(b *strings.Builder, s string) {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(s)))
	b.Write(length[:])
	b.WriteString(s)
}
