package graphmodel

// intern_test.go covers interning of graphmodel's handle-backed value types.
//
// © 2025 parcelgo authors. MIT License.

import (
	"reflect"
	"testing"
)

func TestInternPathIsIdempotent(t *testing.T) {
	defer ResetPaths()

	h1 := InternPath("a.js")
	h2 := InternPath("a.js")
	if h1.Handle() != h2.Handle() {
		t.Fatalf("expected equal paths to share a handle")
	}
	if LookupPath(h1) != "a.js" {
		t.Fatalf("expected round-tripped path")
	}
}

func TestInternEnvironmentIgnoresSourceLocation(t *testing.T) {
	defer ResetEnvironments()

	e1 := Environment{SourceType: "module", Context: "browser", Loc: &SourceLocation{FilePath: "a.js", Line: 1}}
	e2 := Environment{SourceType: "module", Context: "browser", Loc: &SourceLocation{FilePath: "b.js", Line: 99}}

	h1 := InternEnvironment(e1)
	h2 := InternEnvironment(e2)
	if h1.Handle() != h2.Handle() {
		t.Fatalf("expected environments differing only by source location to share a handle")
	}
}

func TestResetEnvironmentsIsolatesBuilds(t *testing.T) {
	ResetEnvironments()
	e := Environment{SourceType: "module"}
	InternEnvironment(e)

	ResetEnvironments()
	after := InternEnvironment(e)

	// Handles minted before a reset are no longer valid; only the handle
	// minted after the reset is guaranteed to resolve.
	if !reflect.DeepEqual(LookupEnvironment(after), e) {
		t.Fatalf("expected the post-reset handle to resolve correctly")
	}
}
