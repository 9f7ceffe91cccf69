package query

import (
	"context"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

// Engine is the shared state behind all query kinds of one session: the
// dependency graph arena, the wait graph over in-flight jobs, and the
// ambient logger/tracer. Discarding the Engine (and building a fresh one,
// optionally seeded from disk) is the only invalidation boundary.
type Engine struct {
	deps   *domain.DepGraph
	jobs   *registry
	log    ports.Logger
	tracer ports.Tracer
}

// Options configures a new Engine. All fields are optional.
type Options struct {
	// Logger receives engine diagnostics. Defaults to a no-op logger.
	Logger ports.Logger
	// Tracer receives one span per live computation. Defaults to a no-op
	// tracer.
	Tracer ports.Tracer
	// DepGraph lets the caller pre-seed the previous-session index table.
	// Defaults to a fresh empty graph.
	DepGraph *domain.DepGraph
}

// NewEngine creates an Engine for one session.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		deps:   opts.DepGraph,
		jobs:   newRegistry(),
		log:    opts.Logger,
		tracer: opts.Tracer,
	}
	if e.deps == nil {
		e.deps = domain.NewDepGraph()
	}
	if e.log == nil {
		e.log = noopLogger{}
	}
	if e.tracer == nil {
		e.tracer = noopTracer{}
	}
	return e
}

// DepGraph exposes the session's dependency graph.
func (e *Engine) DepGraph() *domain.DepGraph {
	return e.deps
}

// NewContext creates a top-level query context. Each worker entering the
// engine from outside any query gets its own.
func (e *Engine) NewContext(ctx context.Context) *Context {
	return &Context{ctx: ctx, engine: e}
}

// ActiveJobs returns a diagnostic snapshot of all in-flight jobs across all
// query kinds, for reporting stalls or rendering cycle diagnostics from
// outside the hot path.
func (e *Engine) ActiveJobs() map[JobID]JobInfo {
	return e.jobs.snapshot()
}

// recordRead records a dependency edge from the currently executing query to
// the node behind a result it just read. Top-level reads have no current
// query and record nothing.
func (e *Engine) recordRead(qctx *Context, dep domain.DepNodeIndex) {
	if qctx.job != nil {
		e.deps.RecordEdge(qctx.job.depIndex, dep)
	}
}

// Context carries the engine handle and the currently executing query.
// It is threaded explicitly through every Compute call instead of living in
// goroutine-local state, so edge recording works no matter how the client
// schedules its workers.
type Context struct {
	ctx    context.Context
	engine *Engine
	job    *job
}

// Context returns the underlying context.Context.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Engine returns the engine this context belongs to.
func (c *Context) Engine() *Engine {
	return c.engine
}

// child derives the context a nested computation runs under.
func (c *Context) child(ctx context.Context, j *job) *Context {
	return &Context{ctx: ctx, engine: c.engine, job: j}
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}
func (noopLogger) Error(error, ...any) {}
func (noopLogger) SetLevel(string)     {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End()                     {}
func (noopSpan) RecordError(error)        {}
func (noopSpan) SetAttribute(string, any) {}
