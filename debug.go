package parcelgo

// debug.go exposes the build host's live Request Tracker and page-heap stats as JSON.
//
// © 2025 parcelgo authors. MIT License.

import (
	"encoding/json"
	"net/http"
)

// SnapshotHandler returns an http.Handler serving s's current Snapshot as
// JSON at whatever path the host mounts it under — conventionally
// /debug/parcelgo/snapshot, matching cmd/parcelgo-inspect's default.
func (s *Session) SnapshotHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.BuildSnapshot())
	})
}
