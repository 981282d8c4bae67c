package cull

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reko3d/reko/render/backend"
)

// occlusionStub wraps Headless to script query results and capabilities.
type occlusionStub struct {
	*backend.Headless
	noQueries bool
	passed    bool
	ready     bool
}

func (s *occlusionStub) Caps() backend.Caps {
	caps := s.Headless.Caps()
	if s.noQueries {
		caps.OcclusionQueries = false
	}
	return caps
}

func (s *occlusionStub) QueryResult(h backend.QueryHandle) (bool, bool) {
	if _, ok := s.Headless.QueryResult(h); !ok {
		return false, false
	}
	return s.passed, s.ready
}

func TestOcclusionRegisterUnregister(t *testing.T) {
	b := backend.NewHeadless()
	c := NewOcclusionCuller(b, 0)
	require.True(t, c.Supported())

	c.Register("car-a")
	c.Register("car-a") // second register keeps the existing query
	_, _, queries := b.ResourceCounts()
	assert.Equal(t, 1, queries)

	c.Unregister("car-a")
	c.Unregister("car-a") // double unregister is a no-op
	_, _, queries = b.ResourceCounts()
	assert.Equal(t, 0, queries)
}

func TestOcclusionShouldTestInterval(t *testing.T) {
	b := backend.NewHeadless()
	c := NewOcclusionCuller(b, 5)
	c.Register("car-a")

	// issuedFrame starts at zero, so the first eligible frame is 5
	assert.False(t, c.ShouldTest("car-a", 3))
	assert.True(t, c.ShouldTest("car-a", 5))

	c.MarkIssued("car-a", 5)
	assert.False(t, c.ShouldTest("car-a", 20), "pending query blocks re-issue")

	c.PollResults()
	assert.False(t, c.ShouldTest("car-a", 7), "within interval after result")
	assert.True(t, c.ShouldTest("car-a", 10))

	assert.False(t, c.ShouldTest("unknown", 100))
}

func TestOcclusionResultsUpdateVisibility(t *testing.T) {
	stub := &occlusionStub{Headless: backend.NewHeadless(), passed: false, ready: false}
	c := NewOcclusionCuller(stub, 5)
	c.Register("debris")

	assert.True(t, c.Visible("debris"), "starts visible")

	c.MarkIssued("debris", 5)
	c.PollResults()
	assert.True(t, c.Visible("debris"), "in-flight query keeps last state")

	stub.ready = true
	c.PollResults()
	assert.False(t, c.Visible("debris"), "failed query marks occluded")

	stub.passed = true
	c.MarkIssued("debris", 10)
	c.PollResults()
	assert.True(t, c.Visible("debris"))
}

func TestOcclusionVisibilityStats(t *testing.T) {
	stub := &occlusionStub{Headless: backend.NewHeadless(), passed: false, ready: true}
	c := NewOcclusionCuller(stub, 5)
	c.Register("a")
	c.Register("b")

	c.MarkIssued("a", 5)
	c.PollResults()

	total, visible, culled := c.VisibilityStats()
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, visible)
	assert.Equal(t, 1, culled)
}

func TestOcclusionUnsupportedBackend(t *testing.T) {
	stub := &occlusionStub{Headless: backend.NewHeadless(), noQueries: true}
	c := NewOcclusionCuller(stub, 5)

	assert.False(t, c.Supported())
	c.Register("car-a")
	assert.False(t, c.ShouldTest("car-a", 100))
	assert.True(t, c.Visible("car-a"), "unsupported backends never cull")

	total, _, _ := c.VisibilityStats()
	assert.Equal(t, 0, total, "nothing tracked without query support")
}

func TestOcclusionUntrackedAlwaysVisible(t *testing.T) {
	c := NewOcclusionCuller(backend.NewHeadless(), 5)
	assert.True(t, c.Visible("never-registered"))
}

func TestOcclusionDispose(t *testing.T) {
	b := backend.NewHeadless()
	c := NewOcclusionCuller(b, 5)
	c.Register("a")
	c.Register("b")

	c.Dispose()
	_, _, queries := b.ResourceCounts()
	assert.Equal(t, 0, queries)
}
