package cull

import (
	"github.com/reko3d/reko/render/backend"
)

// DefaultCheckInterval is how many frames pass between re-issued queries
// for the same object.
const DefaultCheckInterval = 5

type occlusionEntry struct {
	query       backend.QueryHandle
	lastVisible bool
	pending     bool
	issuedFrame uint64
}

// OcclusionCuller schedules per-object GPU occlusion queries. Query
// results arrive one or more frames late on real backends, so the culler
// always answers from the last known state and folds results in as they
// become available. On a backend without query support it degrades to
// reporting everything visible.
type OcclusionCuller struct {
	backend       backend.GraphicsBackend
	supported     bool
	checkInterval uint64
	entries       map[string]*occlusionEntry
}

func NewOcclusionCuller(b backend.GraphicsBackend, checkInterval int) *OcclusionCuller {
	if checkInterval <= 0 {
		checkInterval = DefaultCheckInterval
	}
	return &OcclusionCuller{
		backend:       b,
		supported:     b.Caps().OcclusionQueries,
		checkInterval: uint64(checkInterval),
		entries:       make(map[string]*occlusionEntry),
	}
}

func (c *OcclusionCuller) Supported() bool { return c.supported }

// Register starts tracking an object. Registering an id twice keeps the
// existing query.
func (c *OcclusionCuller) Register(id string) {
	if !c.supported {
		return
	}
	if _, ok := c.entries[id]; ok {
		return
	}
	q, err := c.backend.CreateQuery()
	if err != nil {
		// query creation failing flips the whole culler off rather than
		// tracking a half-registered set
		c.supported = false
		return
	}
	c.entries[id] = &occlusionEntry{query: q, lastVisible: true}
}

// Unregister releases the object's query. Unknown ids are a no-op, so
// double unregistering never leaks or crashes.
func (c *OcclusionCuller) Unregister(id string) {
	entry, ok := c.entries[id]
	if !ok {
		return
	}
	c.backend.DestroyQuery(entry.query)
	delete(c.entries, id)
}

// ShouldTest reports whether this object's query should be re-issued this
// frame. Between intervals, and while a previous query is still in
// flight, the cached result stands.
func (c *OcclusionCuller) ShouldTest(id string, frame uint64) bool {
	if !c.supported {
		return false
	}
	entry, ok := c.entries[id]
	if !ok {
		return false
	}
	if entry.pending {
		return false
	}
	return frame-entry.issuedFrame >= c.checkInterval
}

// QueryHandle returns the query to wrap the object's depth draw in when
// ShouldTest said yes. MarkIssued must follow once the draw is submitted.
func (c *OcclusionCuller) QueryHandle(id string) backend.QueryHandle {
	if entry, ok := c.entries[id]; ok {
		return entry.query
	}
	return 0
}

func (c *OcclusionCuller) MarkIssued(id string, frame uint64) {
	if entry, ok := c.entries[id]; ok {
		entry.pending = true
		entry.issuedFrame = frame
	}
}

// PollResults folds in every query result the GPU has produced so far.
// Queries still in flight keep their previous visibility.
func (c *OcclusionCuller) PollResults() {
	if !c.supported {
		return
	}
	for _, entry := range c.entries {
		if !entry.pending {
			continue
		}
		passed, ready := c.backend.QueryResult(entry.query)
		if !ready {
			continue
		}
		entry.lastVisible = passed
		entry.pending = false
	}
}

// Visible answers from the last completed query. Untracked objects and
// unsupported backends are always visible; a wrong "visible" only costs a
// draw, a wrong "hidden" loses geometry.
func (c *OcclusionCuller) Visible(id string) bool {
	if !c.supported {
		return true
	}
	entry, ok := c.entries[id]
	if !ok {
		return true
	}
	return entry.lastVisible
}

// VisibilityStats reports tracked/visible/culled counts for diagnostics.
func (c *OcclusionCuller) VisibilityStats() (total, visible, culled int) {
	total = len(c.entries)
	for _, entry := range c.entries {
		if entry.lastVisible {
			visible++
		} else {
			culled++
		}
	}
	return total, visible, culled
}

// Dispose releases every query resource.
func (c *OcclusionCuller) Dispose() {
	for id := range c.entries {
		c.Unregister(id)
	}
}
