package query

import (
	"hash/maphash"
	"runtime"
	"sync"

	"go.trai.ch/zerr"

	"go.trai.ch/memo/internal/core/domain"
)

// maxShards bounds the derived shard count; past this point shard selection
// overhead dominates any contention win.
const maxShards = 256

// entry is one completed result. Entries are immutable for the session.
type entry[V any] struct {
	value V
	dep   domain.DepNodeIndex
}

// shard is one independently locked partition of a query kind's state. It
// holds both the completed results and the in-flight jobs for its keys, so a
// single lock acquisition answers "cached, in flight, or mine to compute".
type shard[K comparable, V any] struct {
	mu      sync.Mutex
	results map[K]entry[V]
	active  map[K]*job
}

// cache is the sharded storage for one query kind. The shard count is a
// power of two fixed at construction; shard selection is hash(key) masked
// into the shard slice.
type cache[K comparable, V any] struct {
	shards []shard[K, V]
	mask   uint64
	seed   maphash.Seed
}

func newCache[K comparable, V any](shardCount int) *cache[K, V] {
	if shardCount <= 0 {
		shardCount = defaultShardCount()
	}
	if shardCount&(shardCount-1) != 0 {
		panic(zerr.With(domain.ErrInvalidShardCount, "shards", shardCount))
	}

	c := &cache[K, V]{
		shards: make([]shard[K, V], shardCount),
		mask:   uint64(shardCount - 1),
		seed:   maphash.MakeSeed(),
	}
	for i := range c.shards {
		c.shards[i].results = make(map[K]entry[V])
		c.shards[i].active = make(map[K]*job)
	}
	return c
}

// defaultShardCount derives a power of two from available parallelism.
func defaultShardCount() int {
	n := 1
	for n < 4*runtime.GOMAXPROCS(0) && n < maxShards {
		n <<= 1
	}
	return n
}

// shardFor selects the shard for a key. The hash is per-process seeded,
// which is fine: shard placement never leaves the process.
func (c *cache[K, V]) shardFor(key K) *shard[K, V] {
	h := maphash.Comparable(c.seed, key)
	return &c.shards[h&c.mask]
}

// complete moves a key from in-flight to completed. The entry for a key is
// written exactly once per session; a second insert means two computations
// ran for one key, so it fails loudly instead of silently overwriting.
func (s *shard[K, V]) complete(key K, value V, dep domain.DepNodeIndex) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.active, key)
	if _, exists := s.results[key]; exists {
		panic(zerr.With(domain.ErrDuplicateCacheEntry, "dep_index", uint32(dep)))
	}
	s.results[key] = entry[V]{value: value, dep: dep}
}

// abandon removes an in-flight job without completing it.
func (s *shard[K, V]) abandon(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, key)
}

// iter visits every completed entry. It takes the shard locks one at a time
// in ascending shard order and copies each shard's entries out before
// visiting them, so the callback never runs under a lock. Concurrent
// completions may or may not be observed; this is a diagnostic snapshot, not
// a fixed point.
func (c *cache[K, V]) iter(fn func(key K, value V, dep domain.DepNodeIndex) bool) {
	type row struct {
		key K
		e   entry[V]
	}
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		rows := make([]row, 0, len(s.results))
		for k, e := range s.results {
			rows = append(rows, row{key: k, e: e})
		}
		s.mu.Unlock()

		for _, r := range rows {
			if !fn(r.key, r.e.value, r.e.dep) {
				return
			}
		}
	}
}
