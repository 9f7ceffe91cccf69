package query

import "sync/atomic"

// Stats is a point-in-time snapshot of one query kind's cache counters.
type Stats struct {
	// Hits counts reads answered from the completed cache.
	Hits uint64
	// Misses counts reads that claimed a fresh computation.
	Misses uint64
	// DiskHits counts claimed computations short-circuited by the on-disk
	// cache (a subset of Misses).
	DiskHits uint64
	// Cycles counts reads resolved through the cycle handler.
	Cycles uint64
}

type stats struct {
	hits     atomic.Uint64
	misses   atomic.Uint64
	diskHits atomic.Uint64
	cycles   atomic.Uint64
}

// Stats returns a snapshot of the cache counters.
func (q *Query[K, V]) Stats() Stats {
	return Stats{
		Hits:     q.stats.hits.Load(),
		Misses:   q.stats.misses.Load(),
		DiskHits: q.stats.diskHits.Load(),
		Cycles:   q.stats.cycles.Load(),
	}
}
