package domain_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/memo/internal/core/domain"
)

func TestDepGraphAllocNode(t *testing.T) {
	g := domain.NewDepGraph()

	a := g.AllocNode("parse", domain.FingerprintString("a"))
	b := g.AllocNode("typecheck", domain.FingerprintString("b"))

	assert.Equal(t, domain.DepNodeIndex(0), a)
	assert.Equal(t, domain.DepNodeIndex(1), b)
	assert.Equal(t, 2, g.NodeCount())

	node, ok := g.Node(a)
	require.True(t, ok)
	assert.Equal(t, "parse", node.Kind.String())
	assert.Equal(t, domain.FingerprintString("a"), node.KeyFingerprint)
	assert.False(t, node.HasResult)

	_, ok = g.Node(99)
	assert.False(t, ok)
}

func TestDepGraphRecordEdge(t *testing.T) {
	g := domain.NewDepGraph()
	a := g.AllocNode("parse", 1)
	b := g.AllocNode("typecheck", 2)

	g.RecordEdge(b, a)
	g.RecordEdge(b, a) // duplicate collapses

	assert.Equal(t, []domain.DepNodeIndex{a}, g.Edges(b))
	assert.Empty(t, g.Edges(a))
}

func TestDepGraphRecordEdgePanicsOnUnknownNode(t *testing.T) {
	g := domain.NewDepGraph()
	a := g.AllocNode("parse", 1)

	assert.Panics(t, func() {
		g.RecordEdge(a, 42)
	})
}

func TestDepGraphSetResultFingerprint(t *testing.T) {
	g := domain.NewDepGraph()
	a := g.AllocNode("parse", 1)

	require.NoError(t, g.SetResultFingerprint(a, 7))

	node, ok := g.Node(a)
	require.True(t, ok)
	assert.True(t, node.HasResult)
	assert.Equal(t, domain.Fingerprint(7), node.ResultFingerprint)

	err := g.SetResultFingerprint(99, 7)
	assert.ErrorIs(t, err, domain.ErrUnknownDepNode)
}

func TestDepGraphPreviousIndices(t *testing.T) {
	g := domain.NewDepGraph()

	_, ok := g.PrevIndex(1)
	assert.False(t, ok)

	g.SeedPrevious(map[domain.Fingerprint]domain.SerializedDepNodeIndex{
		1: 10,
		2: 20,
	})

	idx, ok := g.PrevIndex(1)
	require.True(t, ok)
	assert.Equal(t, domain.SerializedDepNodeIndex(10), idx)
}

func TestDepGraphConcurrentAlloc(t *testing.T) {
	g := domain.NewDepGraph()

	const workers = 16
	indices := make([]domain.DepNodeIndex, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			indices[i] = g.AllocNode("parse", domain.Fingerprint(i))
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, g.NodeCount())
	seen := make(map[domain.DepNodeIndex]struct{}, workers)
	for _, idx := range indices {
		_, dup := seen[idx]
		assert.False(t, dup, "index %d allocated twice", idx)
		seen[idx] = struct{}{}
	}
}
