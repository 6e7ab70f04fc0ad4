package graphmodel

// invalidation.go defines the Invalidation variants a request can declare.
//
// © 2025 parcelgo authors. MIT License.

import (
	"bytes"
	"encoding/binary"
)

// Invalidation is a condition that, when it occurs, marks a cached request
// result stale. Every request result carries a vector of invalidations it
// depends upon.
type Invalidation interface {
	// CanonicalBytes returns a deterministic, type-tagged encoding of the
	// invalidation, so invalidations of different kinds never encode to the
	// same bytes. Request keys do not include it, and FileEvent.Matches
	// compares the typed fields directly rather than this encoding.
	CanonicalBytes() []byte
	invalidation()
}

func writeTagged(tag byte, s string) []byte {
	var buf bytes.Buffer
	buf.WriteByte(tag)
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(s)))
	buf.Write(length[:])
	buf.WriteString(s)
	return buf.Bytes()
}

// FileUpdate invalidates when the given path is updated.
type FileUpdate struct{ Path Path }

func (f FileUpdate) invalidation()          {}
func (f FileUpdate) CanonicalBytes() []byte { return writeTagged('U', string(f.Path)) }

// FileCreate invalidates when a path matching Pattern (a literal path or a
// glob) is created.
type FileCreate struct{ Pattern string }

func (f FileCreate) invalidation()          {}
func (f FileCreate) CanonicalBytes() []byte { return writeTagged('C', f.Pattern) }

// FileDelete invalidates when the given path is deleted.
type FileDelete struct{ Path Path }

func (f FileDelete) invalidation()          {}
func (f FileDelete) CanonicalBytes() []byte { return writeTagged('D', string(f.Path)) }

// EnvChange invalidates when the named environment variable changes.
type EnvChange struct{ Key string }

func (e EnvChange) invalidation()          {}
func (e EnvChange) CanonicalBytes() []byte { return writeTagged('E', e.Key) }

// Startup invalidates unconditionally on process startup (a request that
// should never survive a cold start).
type Startup struct{}

func (s Startup) invalidation()          {}
func (s Startup) CanonicalBytes() []byte { return []byte{'S'} }

// FileEventKind distinguishes the three kinds of file-system events the
// host delivers at the start of a build.
type FileEventKind uint8

const (
	FileCreated FileEventKind = iota + 1
	FileUpdated
	FileDeleted
)

// FileEvent pairs a path with the kind of change observed.
type FileEvent struct {
	Path Path
	Kind FileEventKind
}

// Matches reports whether inv should be marked dirty by ev, following the
// matching rules in the request tracker's design: update<->FileUpdate by
// equal path, create<->FileCreate by pattern match, delete<->FileDelete by
// equal path.
func (ev FileEvent) Matches(inv Invalidation) bool {
	switch v := inv.(type) {
	case FileUpdate:
		return ev.Kind == FileUpdated && ev.Path == v.Path
	case FileCreate:
		return ev.Kind == FileCreated && matchGlob(v.Pattern, string(ev.Path))
	case FileDelete:
		return ev.Kind == FileDeleted && ev.Path == v.Path
	default:
		return false
	}
}

func matchGlob(pattern, name string) bool {
	if pattern == name {
		return true
	}
	ok, err := pathMatch(pattern, name)
	return err == nil && ok
}
