package domain

import (
	"sync"

	"go.trai.ch/zerr"
)

// DepNodeIndex is an opaque, densely allocated handle into the dependency
// graph. An index is assigned once per computation within a session and its
// meaning never changes for the rest of that session.
type DepNodeIndex uint32

// SerializedDepNodeIndex is a DepNodeIndex as recorded by a previous session.
// It is only meaningful against that session's on-disk cache.
type SerializedDepNodeIndex uint32

// DepNode describes one allocated dependency-graph node: which query kind
// produced it, the fingerprint of the key it was computed for, and (once the
// computation finished) the fingerprint of the result.
type DepNode struct {
	Kind              InternedString
	KeyFingerprint    Fingerprint
	ResultFingerprint Fingerprint
	HasResult         bool
}

// DepGraph is an append-only arena of DepNodes with adjacency edges.
// Nodes and edges are only ever added, never removed or rewritten (except for
// the one-shot result fingerprint), which keeps concurrent reads safe under a
// single mutex. A fresh graph is built per session; invalidation between
// sessions happens by discarding the whole graph.
type DepGraph struct {
	mu    sync.Mutex
	nodes []DepNode
	edges [][]DepNodeIndex

	// prev maps key fingerprints to the node index a previous session
	// recorded for them, seeded from the on-disk cache header.
	prev map[Fingerprint]SerializedDepNodeIndex
}

// NewDepGraph creates an empty dependency graph.
func NewDepGraph() *DepGraph {
	return &DepGraph{
		prev: make(map[Fingerprint]SerializedDepNodeIndex),
	}
}

// AllocNode appends a node for a (query kind, key fingerprint) pair and
// returns its index.
func (g *DepGraph) AllocNode(kind string, keyFP Fingerprint) DepNodeIndex {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := DepNodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, DepNode{
		Kind:           NewInternedString(kind),
		KeyFingerprint: keyFP,
	})
	g.edges = append(g.edges, nil)
	return idx
}

// RecordEdge records that the query behind parent read the result behind
// child. Duplicate edges are collapsed.
func (g *DepGraph) RecordEdge(parent, child DepNodeIndex) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if int(parent) >= len(g.nodes) || int(child) >= len(g.nodes) {
		// Indices are allocated by this graph; an out-of-range index means a
		// caller mixed graphs from different sessions.
		err := zerr.With(ErrUnknownDepNode, "parent", uint32(parent))
		panic(zerr.With(err, "child", uint32(child)))
	}

	for _, e := range g.edges[parent] {
		if e == child {
			return
		}
	}
	g.edges[parent] = append(g.edges[parent], child)
}

// SetResultFingerprint records the result fingerprint for a completed node.
func (g *DepGraph) SetResultFingerprint(idx DepNodeIndex, fp Fingerprint) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if int(idx) >= len(g.nodes) {
		return zerr.With(ErrUnknownDepNode, "index", uint32(idx))
	}
	g.nodes[idx].ResultFingerprint = fp
	g.nodes[idx].HasResult = true
	return nil
}

// Node returns the node for the given index.
func (g *DepGraph) Node(idx DepNodeIndex) (DepNode, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if int(idx) >= len(g.nodes) {
		return DepNode{}, false
	}
	return g.nodes[idx], true
}

// Edges returns a copy of the outgoing edges of the given node.
func (g *DepGraph) Edges(idx DepNodeIndex) []DepNodeIndex {
	g.mu.Lock()
	defer g.mu.Unlock()

	if int(idx) >= len(g.edges) {
		return nil
	}
	out := make([]DepNodeIndex, len(g.edges[idx]))
	copy(out, g.edges[idx])
	return out
}

// NodeCount returns the number of allocated nodes.
func (g *DepGraph) NodeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// SeedPrevious installs the previous session's key-fingerprint to node-index
// table, typically read from the on-disk cache header.
func (g *DepGraph) SeedPrevious(prev map[Fingerprint]SerializedDepNodeIndex) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for fp, idx := range prev {
		g.prev[fp] = idx
	}
}

// PrevIndex looks up the node index a previous session recorded for the
// given key fingerprint.
func (g *DepGraph) PrevIndex(keyFP Fingerprint) (SerializedDepNodeIndex, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx, ok := g.prev[keyFP]
	return idx, ok
}
