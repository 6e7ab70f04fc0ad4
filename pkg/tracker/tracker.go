package tracker

// tracker.go implements Tracker.Run and the dirty-propagation walk used by NextBuild.
//
// © 2025 parcelgo authors. MIT License.

import (
	"context"
	"encoding/hex"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/parcelgo/parcelgo/pkg/graphmodel"
)

// cacheEntry is what Run memoizes per Key. A request that produced
// diagnostics is never served from cache (hasValue is false) — it reruns on
// every Run call until it succeeds — but its invalidations are still
// recorded so NextBuild can decide whether a retry is even worth
// attempting once the triggering file changes.
type cacheEntry struct {
	value         any
	hasValue      bool
	invalidations []graphmodel.Invalidation
	diags         []graphmodel.Diagnostic
}

type runResult struct {
	value any
	diags []graphmodel.Diagnostic
}

// Tracker is the memoized, invalidation-aware computation graph. It is safe
// for concurrent use; concurrent Run calls for the same Key are
// deduplicated via singleflight so only one goroutine actually executes the
// request.
type Tracker struct {
	mu    sync.RWMutex
	cache map[Key]*cacheEntry

	// edges records parent -> child request keys observed during Run, and
	// reverseEdges the inverse. NextBuild walks reverseEdges to propagate
	// dirtiness from an invalidated request to everything that transitively
	// depended on its result.
	edges        map[Key]map[Key]struct{}
	reverseEdges map[Key]map[Key]struct{}

	group singleflight.Group

	logger  *zap.Logger
	metrics metricsSink
}

// New constructs an empty Tracker.
func New(opts ...Option) *Tracker {
	cfg := defaultConfig()
	applyOptions(cfg, opts)

	return &Tracker{
		cache:        make(map[Key]*cacheEntry),
		edges:        make(map[Key]map[Key]struct{}),
		reverseEdges: make(map[Key]map[Key]struct{}),
		logger:       cfg.logger,
		metrics:      cfg.metrics,
	}
}

// Run executes req, or returns its memoized result if a cache entry exists
// and is valid. ctx must be the ctx passed by a calling request's own Run
// method (or context.Background() at the root) so that parent/child edges
// and cycle detection work; diags is populated precisely when the request
// failed in a user-facing way and was therefore not cached as a value.
func (t *Tracker) Run(ctx context.Context, req Request) (any, []graphmodel.Diagnostic, error) {
	key := req.Key()
	parent := frameFromContext(ctx)

	if parent.contains(key) {
		t.metrics.CycleDetected()
		return nil, nil, ErrCycleDetected
	}
	if parent != nil {
		t.recordEdge(parent.key, key)
	}
	childCtx := withFrame(ctx, &frame{key: key, parent: parent})

	t.mu.RLock()
	entry, ok := t.cache[key]
	t.mu.RUnlock()
	if ok && entry.hasValue {
		t.metrics.RequestHit()
		return entry.value, nil, nil
	}
	t.metrics.RequestMiss()

	v, err, _ := t.group.Do(keyString(key), func() (any, error) {
		value, invalidations, diags, runErr := req.Run(childCtx, t)
		if runErr != nil {
			return nil, runErr
		}

		newEntry := &cacheEntry{invalidations: invalidations, diags: diags}
		if len(diags) == 0 {
			newEntry.value = value
			newEntry.hasValue = true
		}

		t.mu.Lock()
		t.cache[key] = newEntry
		t.mu.Unlock()

		return runResult{value: value, diags: diags}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	res := v.(runResult)
	return res.value, res.diags, nil
}

// NextBuild applies a batch of file-system events, invalidating every
// cached request whose declared invalidations match one of them, along with
// everything that transitively depended on those requests. It returns the
// number of requests evicted.
func (t *Tracker) NextBuild(events []graphmodel.FileEvent) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	dirty := make(map[Key]struct{})
	for key, entry := range t.cache {
		for _, inv := range entry.invalidations {
			if matchesAny(events, inv) {
				dirty[key] = struct{}{}
				break
			}
		}
	}

	queue := make([]Key, 0, len(dirty))
	for k := range dirty {
		queue = append(queue, k)
	}
	for len(queue) > 0 {
		k := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for parent := range t.reverseEdges[k] {
			if _, seen := dirty[parent]; !seen {
				dirty[parent] = struct{}{}
				queue = append(queue, parent)
			}
		}
	}

	for k := range dirty {
		delete(t.cache, k)
		delete(t.edges, k)
		delete(t.reverseEdges, k)
	}

	t.metrics.BuildDirtied(len(dirty))
	return len(dirty)
}

// Len returns the number of valid, currently cached entries.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, e := range t.cache {
		if e.hasValue {
			n++
		}
	}
	return n
}

func (t *Tracker) recordEdge(parent, child Key) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.edges[parent] == nil {
		t.edges[parent] = make(map[Key]struct{})
	}
	t.edges[parent][child] = struct{}{}

	if t.reverseEdges[child] == nil {
		t.reverseEdges[child] = make(map[Key]struct{})
	}
	t.reverseEdges[child][parent] = struct{}{}
}

func matchesAny(events []graphmodel.FileEvent, inv graphmodel.Invalidation) bool {
	for _, ev := range events {
		if ev.Matches(inv) {
			return true
		}
	}
	return false
}

func keyString(k Key) string {
	return hex.EncodeToString(k[:])
}
