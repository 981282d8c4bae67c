package reko

import (
	"fmt"

	"github.com/reko3d/reko/render/backend"
)

// BackendName identifies a concrete GraphicsBackend implementation.
type BackendName string

const (
	BackendWebGPU   BackendName = "webgpu"
	BackendOpenGL   BackendName = "opengl"
	BackendHeadless BackendName = "headless"
)

// DefaultProbeOrder is tried front to back: the modern API first, the
// legacy context as fallback. A probe failure is non-fatal until the list
// is exhausted.
func DefaultProbeOrder() []BackendName {
	return []BackendName{BackendWebGPU, BackendOpenGL}
}

// probeBackend attempts to bring up one backend, creating the window it
// needs. The window is recreated per attempt because GLFW bakes the client
// API into the window at creation time.
func (r *Renderer) probeBackend(name BackendName) (backend.GraphicsBackend, *WindowState, error) {
	w := uint32(r.opts.Width)
	h := uint32(r.opts.Height)

	switch name {
	case BackendHeadless:
		return backend.NewHeadless(), nil, nil

	case BackendWebGPU:
		ws, err := createWindowState(r.opts.Width, r.opts.Height, r.opts.Title, false)
		if err != nil {
			return nil, nil, err
		}
		b, err := backend.NewWebGPU(ws.Window(), w, h)
		if err != nil {
			ws.destroy()
			return nil, nil, err
		}
		return b, ws, nil

	case BackendOpenGL:
		ws, err := createWindowState(r.opts.Width, r.opts.Height, r.opts.Title, true)
		if err != nil {
			return nil, nil, err
		}
		b, err := backend.NewOpenGL(w, h)
		if err != nil {
			ws.destroy()
			return nil, nil, err
		}
		return b, ws, nil

	default:
		return nil, nil, fmt.Errorf("renderer: unknown backend %q", name)
	}
}
