// Package assets caches GPU-resident resources (shaders, textures) behind
// string ids so every consumer of the same asset shares one handle.
package assets

import (
	"sync"

	"github.com/reko3d/reko/render/backend"
	"github.com/reko3d/reko/render/core"
)

// ShaderManager compiles shader sources once per id. Compile failures are
// cached too: the diagnostics are logged on first failure and subsequent
// requests for the same id return the zero handle without recompiling.
type ShaderManager struct {
	backend backend.GraphicsBackend
	log     core.Logger

	mu       sync.Mutex
	shaders  map[string]backend.ShaderHandle
	inflight map[string]chan struct{}
}

func NewShaderManager(b backend.GraphicsBackend, log core.Logger) *ShaderManager {
	if log == nil {
		log = core.NewNopLogger()
	}
	return &ShaderManager{
		backend:  b,
		log:      log,
		shaders:  make(map[string]backend.ShaderHandle),
		inflight: make(map[string]chan struct{}),
	}
}

// Load returns the compiled shader for id, compiling source on first use.
// Concurrent loads of the same id compile once; the rest wait for that
// result. A failed compile returns the zero handle.
func (m *ShaderManager) Load(id, source string) backend.ShaderHandle {
	for {
		m.mu.Lock()
		if h, ok := m.shaders[id]; ok {
			m.mu.Unlock()
			return h
		}
		if done, ok := m.inflight[id]; ok {
			m.mu.Unlock()
			<-done
			continue
		}
		done := make(chan struct{})
		m.inflight[id] = done
		m.mu.Unlock()

		h, err := m.backend.CompileShader(id, source)
		if err != nil {
			m.log.Errorf("shader %q failed to compile: %v", id, err)
			h = 0
		}

		m.mu.Lock()
		m.shaders[id] = h
		delete(m.inflight, id)
		m.mu.Unlock()
		close(done)
		return h
	}
}

// Get returns the cached handle without compiling anything.
func (m *ShaderManager) Get(id string) (backend.ShaderHandle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.shaders[id]
	return h, ok
}

// Invalidate drops a cached entry so the next Load recompiles. Used after
// a shader source edit during development.
func (m *ShaderManager) Invalidate(id string) {
	m.mu.Lock()
	h, ok := m.shaders[id]
	delete(m.shaders, id)
	m.mu.Unlock()
	if ok && h.Valid() {
		m.backend.DestroyShader(h)
	}
}

// Count reports cached entries, failed ones included.
func (m *ShaderManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.shaders)
}

// Dispose destroys every cached shader. In-flight compiles finish first.
func (m *ShaderManager) Dispose() {
	for {
		m.mu.Lock()
		var done chan struct{}
		for _, ch := range m.inflight {
			done = ch
			break
		}
		if done == nil {
			break
		}
		m.mu.Unlock()
		<-done
	}
	for id, h := range m.shaders {
		if h.Valid() {
			m.backend.DestroyShader(h)
		}
		delete(m.shaders, id)
	}
	m.mu.Unlock()
}
