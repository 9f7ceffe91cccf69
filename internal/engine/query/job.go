package query

import (
	"sort"
	"sync"
	"sync/atomic"

	"go.trai.ch/memo/internal/core/domain"
)

// JobID identifies one in-flight computation. IDs are allocated from a
// single engine-wide atomic counter, so they are unique and comparable
// without any lock. Zero is never a valid id.
type JobID uint64

// JobInfo is a diagnostic snapshot of one in-flight job.
type JobInfo struct {
	ID        JobID
	Query     domain.Frame
	Parent    JobID // zero when the job has no parent query
	BlockedOn JobID // zero when the job is running
	Waiters   []JobID
}

// job is the runtime record of one in-progress computation. The latch (done
// channel plus err) is owned by the computing goroutine; parent, blockedOn
// and waiters are guarded by the registry mutex.
type job struct {
	id       JobID
	frame    domain.Frame
	depIndex domain.DepNodeIndex

	done chan struct{}
	err  error // set before done is closed, read only after

	parent    *job
	blockedOn *job
	waiters   map[JobID]struct{}
}

// registry is the engine-wide wait graph over in-flight jobs. It exists so
// that the cycle check can walk blocked-on chains across query kinds: a
// cycle A(kind1) -> B(kind2) -> A must be visible from either side.
type registry struct {
	nextID atomic.Uint64

	mu     sync.Mutex
	active map[JobID]*job
}

func newRegistry() *registry {
	return &registry{
		active: make(map[JobID]*job),
	}
}

// newJob allocates a job shell with an id and latch. The job is not visible
// to the wait graph until register is called; callers that lose the race to
// claim a key simply drop the shell.
func (r *registry) newJob(frame domain.Frame) *job {
	return &job{
		id:      JobID(r.nextID.Add(1)),
		frame:   frame,
		done:    make(chan struct{}),
		waiters: make(map[JobID]struct{}),
	}
}

// register makes the job visible and links it under its parent. A parent
// synchronously computing a nested query is genuinely waiting on it, so the
// parent is marked blocked-on the child. That single invariant is what makes
// re-entrant cycles on one goroutine and wait cycles across goroutines the
// same chain walk.
func (r *registry) register(parent, j *job) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j.parent = parent
	if parent != nil {
		parent.blockedOn = j
	}
	r.active[j.id] = j
}

// finish completes the job with the given error (nil on success), unlinks it
// from the wait graph, and wakes every waiter.
func (r *registry) finish(j *job, err error) {
	r.mu.Lock()
	delete(r.active, j.id)
	if j.parent != nil && j.parent.blockedOn == j {
		j.parent.blockedOn = nil
	}
	r.mu.Unlock()

	j.err = err
	close(j.done)
}

// wait parks the current job until target completes. Before parking it runs
// the cycle check; if waiting would close a cycle in the blocked-on chain,
// wait returns a *domain.CycleError instead of blocking. After a normal
// wake it returns target's error, nil meaning the caller should retry its
// cache lookup.
//
// cur may be nil (a top-level caller outside any query); top-level callers
// cannot be part of a cycle and always just park.
func (r *registry) wait(cur, target *job) error {
	r.mu.Lock()
	if cur != nil {
		if cerr := r.findCycleLocked(target, cur); cerr != nil {
			r.mu.Unlock()
			return cerr
		}
		cur.blockedOn = target
		target.waiters[cur.id] = struct{}{}
	}
	r.mu.Unlock()

	// Park with no locks held. Completion of the target is the only wake
	// condition at this layer; cancellation is the caller's concern.
	<-target.done

	if cur != nil {
		r.mu.Lock()
		if cur.blockedOn == target {
			cur.blockedOn = nil
		}
		delete(target.waiters, cur.id)
		r.mu.Unlock()
	}

	return target.err
}

// findCycleLocked walks the blocked-on chain from target. If the chain
// reaches cur, the visited jobs form the cycle that cur waiting on target
// would close, and a CycleError is built from their frames in waits-on
// order. Every edge in the chain was added under the registry mutex, so the
// goroutine adding the final edge always observes the complete cycle.
func (r *registry) findCycleLocked(target, cur *job) *domain.CycleError {
	chain := []*job{target}
	for j := target; j != cur; {
		j = j.blockedOn
		if j == nil {
			return nil
		}
		chain = append(chain, j)
	}

	frames := make([]domain.Frame, len(chain))
	inCycle := make(map[JobID]struct{}, len(chain))
	for i, j := range chain {
		frames[i] = j.frame
		inCycle[j.id] = struct{}{}
	}

	cerr := &domain.CycleError{Cycle: frames}
	if p := target.parent; p != nil {
		if _, ok := inCycle[p.id]; !ok {
			usage := p.frame
			cerr.Usage = &usage
		}
	}
	return cerr
}

// snapshot returns diagnostic info for every in-flight job.
func (r *registry) snapshot() map[JobID]JobInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[JobID]JobInfo, len(r.active))
	for id, j := range r.active {
		info := JobInfo{
			ID:    id,
			Query: j.frame,
		}
		if j.parent != nil {
			info.Parent = j.parent.id
		}
		if j.blockedOn != nil {
			info.BlockedOn = j.blockedOn.id
		}
		for wid := range j.waiters {
			info.Waiters = append(info.Waiters, wid)
		}
		sort.Slice(info.Waiters, func(a, b int) bool { return info.Waiters[a] < info.Waiters[b] })
		out[id] = info
	}
	return out
}
