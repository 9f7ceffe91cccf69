package query

import (
	"errors"
	"fmt"

	"go.trai.ch/zerr"

	"go.trai.ch/memo/internal/core/domain"
)

// Query binds one query kind's Config to an Engine and owns its sharded
// cache. All reads of this kind go through Get.
type Query[K comparable, V any] struct {
	engine *Engine
	config Config[K, V]
	cache  *cache[K, V]
	stats  stats
}

// Option configures a Query.
type Option func(*options)

type options struct {
	shards int
}

// WithShards overrides the shard count. Must be a power of two. Zero keeps
// the parallelism-derived default.
func WithShards(n int) Option {
	return func(o *options) { o.shards = n }
}

// New binds a query kind to an engine.
func New[K comparable, V any](e *Engine, cfg Config[K, V], opts ...Option) *Query[K, V] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Query[K, V]{
		engine: e,
		config: cfg,
		cache:  newCache[K, V](o.shards),
	}
}

// Get returns the value for key, computing it via the Config at most once
// per session. Concurrent callers for the same key are serialized: the first
// computes, the rest park until the result lands in the cache. Waiting never
// deadlocks; a wait that would close a dependency cycle is converted into
// the Config's cycle handler result instead.
//
// Get propagates a nested computation's error to every caller that was
// blocked on it, as well as to its own caller.
func (q *Query[K, V]) Get(qctx *Context, key K) (V, error) {
	var zero V

	for {
		sh := q.cache.shardFor(key)

		sh.mu.Lock()
		if e, ok := sh.results[key]; ok {
			sh.mu.Unlock()
			q.stats.hits.Add(1)
			q.engine.recordRead(qctx, e.dep)
			return e.value, nil
		}

		if target, ok := sh.active[key]; ok {
			sh.mu.Unlock()
			if err := q.engine.jobs.wait(qctx.job, target); err != nil {
				var cerr *domain.CycleError
				if errors.As(err, &cerr) {
					q.stats.cycles.Add(1)
					return q.config.HandleCycleError(qctx, cerr)
				}
				return zero, err
			}
			// The job completed; the result is in the cache now.
			continue
		}

		// The key is ours to compute. Claim it while still holding the
		// shard lock, then do everything else without it: the job registry,
		// the dependency graph, and the disk bridge all take their own
		// locks, and a thread holds at most one at a time.
		j := q.engine.jobs.newJob(q.frame(key))
		sh.active[key] = j
		sh.mu.Unlock()

		q.stats.misses.Add(1)
		return q.execute(qctx, sh, key, j)
	}
}

// execute runs the miss path for a freshly claimed key: disk consult first,
// then the live computation.
func (q *Query[K, V]) execute(qctx *Context, sh *shard[K, V], key K, j *job) (V, error) {
	var zero V

	q.engine.jobs.register(qctx.job, j)
	j.depIndex = q.engine.deps.AllocNode(q.config.Name(), q.keyFingerprint(key))

	if value, ok := q.tryDisk(qctx, key); ok {
		q.stats.diskHits.Add(1)
		q.finish(qctx, sh, key, j, value)
		return value, nil
	}

	ctx, span := q.engine.tracer.Start(qctx.ctx, q.config.Name())
	span.SetAttribute("query.key", q.config.DescribeKey(key))

	var value V
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				perr := zerr.With(domain.ErrQueryPoisoned, "query", q.config.Name())
				perr = zerr.With(perr, "key", q.config.DescribeKey(key))
				perr = zerr.With(perr, "panic", fmt.Sprint(r))
				span.RecordError(perr)
				span.End()
				q.engine.log.Warn("query poisoned by panic",
					"query", q.config.Name(), "key", q.config.DescribeKey(key))
				sh.abandon(key)
				q.engine.jobs.finish(j, perr)
				panic(r)
			}
		}()
		value, err = q.config.Compute(qctx.child(ctx, j), key)
	}()

	if err != nil {
		err = zerr.With(errors.Join(domain.ErrQueryFailed, err), "query", q.config.Name())
		err = zerr.With(err, "key", q.config.DescribeKey(key))
		span.RecordError(err)
		span.End()
		sh.abandon(key)
		q.engine.jobs.finish(j, err)
		return zero, err
	}
	span.End()

	if fp, ok := q.config.HashResult(value); ok {
		_ = q.engine.deps.SetResultFingerprint(j.depIndex, fp)
	}

	q.finish(qctx, sh, key, j, value)
	return value, nil
}

// tryDisk consults the disk-cache bridge before computing. Any failure along
// the way is a silent miss; the stored fingerprint was already validated (or
// not) by the layer that seeded the previous-index table.
func (q *Query[K, V]) tryDisk(qctx *Context, key K) (V, bool) {
	var zero V

	if !q.config.CacheOnDisk(key, nil) {
		return zero, false
	}
	prev, ok := q.engine.deps.PrevIndex(q.keyFingerprint(key))
	if !ok {
		return zero, false
	}
	return q.config.TryLoadFromDisk(qctx, prev)
}

// finish publishes a completed value, wakes all waiters, and records the
// read edge for the caller.
func (q *Query[K, V]) finish(qctx *Context, sh *shard[K, V], key K, j *job, value V) {
	sh.complete(key, value, j.depIndex)
	q.engine.jobs.finish(j, nil)
	q.engine.recordRead(qctx, j.depIndex)
}

// DepIndex returns the dependency-node index of a completed key.
func (q *Query[K, V]) DepIndex(key K) (domain.DepNodeIndex, bool) {
	sh := q.cache.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.results[key]
	if !ok {
		return 0, false
	}
	return e.dep, true
}

// Iter visits every completed (key, value, dep index) triple. See cache.iter
// for the locking discipline.
func (q *Query[K, V]) Iter(fn func(key K, value V, dep domain.DepNodeIndex) bool) {
	q.cache.iter(fn)
}

// Name returns the query kind's name.
func (q *Query[K, V]) Name() string {
	return q.config.Name()
}

func (q *Query[K, V]) frame(key K) domain.Frame {
	return domain.Frame{
		Query: domain.NewInternedString(q.config.DescribeKey(key)),
		Span:  q.config.Span(key),
	}
}

// keyFingerprint is stable across sessions: kind name combined with the key
// description, both hashed with a seedless hash.
func (q *Query[K, V]) keyFingerprint(key K) domain.Fingerprint {
	return domain.FingerprintString(q.config.Name()).
		Combine(domain.FingerprintString(q.config.DescribeKey(key)))
}
