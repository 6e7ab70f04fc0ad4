package assetgraph

// fs.go declares the file system abstraction AssetRequest reads source through.
//
// © 2025 parcelgo authors. MIT License.

import (
	"context"

	"github.com/parcelgo/parcelgo/pkg/graphmodel"
)

// FileSystem is the narrow file-read contract the core relies on; it never
// touches the real filesystem directly, per spec.md §1's "file-system
// access (treated as a read(path) -> bytes interface)".
type FileSystem interface {
	ReadFile(ctx context.Context, path graphmodel.Path) ([]byte, error)
}
