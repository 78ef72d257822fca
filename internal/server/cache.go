// internal/server/cache.go
//
// Snapshot cache for the service mode.
//
// Context
// -------
// Hosted control planes poll /v1/resolve/{profile}, and a resolution may
// reach out to Vault, so results are cached per profile: a small LRU
// with a TTL, plus a singleflight group so concurrent requests for the
// same profile collapse into one resolution.
//
// Sizing is modest on purpose.  A deployment rarely has more than a
// handful of profiles; the capacity bound exists so a scanner probing
// random profile names cannot grow the map.
package server

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fridaylabs/fridayctl/internal/metrics"
	"github.com/fridaylabs/fridayctl/internal/resolve"
)

// ResolveFunc produces a fresh snapshot for a profile name.  The command
// layer wires in profile lookup, source assembly, and the Vault client.
type ResolveFunc func(ctx context.Context, profileName string) (*resolve.Snapshot, error)

type snapshotCache struct {
	resolver ResolveFunc
	ttl      time.Duration
	cap      int

	sfg  singleflight.Group
	mu   sync.Mutex
	ll   *list.List // MRU at front
	dict map[string]*list.Element
}

type cacheEntry struct {
	profile string
	snap    *resolve.Snapshot
	exp     time.Time
}

func newSnapshotCache(resolver ResolveFunc, ttl time.Duration, capacity int) *snapshotCache {
	if capacity < 1 {
		capacity = 16
	}
	return &snapshotCache{
		resolver: resolver,
		ttl:      ttl,
		cap:      capacity,
		ll:       list.New(),
		dict:     make(map[string]*list.Element, capacity),
	}
}

// get returns the cached snapshot for profile, resolving on miss or
// expiry.  Concurrent misses for the same profile share one resolution.
func (c *snapshotCache) get(ctx context.Context, profile string) (*resolve.Snapshot, error) {
	if snap, ok := c.lookup(profile); ok {
		metrics.SnapshotCacheHitsTotal.Inc()
		return snap, nil
	}

	v, err, _ := c.sfg.Do(profile, func() (interface{}, error) {
		// Double-check after the singleflight barrier.
		if snap, ok := c.lookup(profile); ok {
			metrics.SnapshotCacheHitsTotal.Inc()
			return snap, nil
		}

		metrics.ResolveTotal.WithLabelValues(profile).Inc()
		snap, err := c.resolver(ctx, profile)
		if err != nil {
			metrics.ResolveErrorsTotal.WithLabelValues(profile).Inc()
			var miss *resolve.MissingSecretError
			if errors.As(err, &miss) {
				metrics.MissingSecretTotal.Inc()
			}
			return nil, err
		}
		c.store(profile, snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*resolve.Snapshot), nil
}

func (c *snapshotCache) lookup(profile string) (*resolve.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ele, ok := c.dict[profile]
	if !ok {
		return nil, false
	}
	ent := ele.Value.(*cacheEntry)
	if time.Now().After(ent.exp) {
		c.ll.Remove(ele)
		delete(c.dict, profile)
		metrics.CachedSnapshots.Set(float64(c.ll.Len()))
		return nil, false
	}
	c.ll.MoveToFront(ele)
	return ent.snap, true
}

func (c *snapshotCache) store(profile string, snap *resolve.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, ok := c.dict[profile]; ok {
		ele.Value = &cacheEntry{profile: profile, snap: snap, exp: time.Now().Add(c.ttl)}
		c.ll.MoveToFront(ele)
		return
	}
	ele := c.ll.PushFront(&cacheEntry{profile: profile, snap: snap, exp: time.Now().Add(c.ttl)})
	c.dict[profile] = ele
	if c.ll.Len() > c.cap {
		last := c.ll.Back()
		c.ll.Remove(last)
		delete(c.dict, last.Value.(*cacheEntry).profile)
	}
	metrics.CachedSnapshots.Set(float64(c.ll.Len()))
}
