// Package reko is the façade over the render pipeline: backend probing
// with fallback, the frame loop, scene bookkeeping, and the event channel
// applications consume renderer state through.
package reko

import (
	"fmt"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/reko3d/reko/render/assets"
	"github.com/reko3d/reko/render/backend"
	"github.com/reko3d/reko/render/core"
	"github.com/reko3d/reko/render/pipeline"
)

// State is the renderer lifecycle. Probe failures move through
// ProbingFallback before Failed; Failed is terminal.
type State int

const (
	StateUninitialized State = iota
	StateProbingPrimary
	StateProbingFallback
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateProbingPrimary:
		return "probing-primary"
	case StateProbingFallback:
		return "probing-fallback"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// statsInterval is how many frames pass between pushed stats snapshots.
const statsInterval = 60

type Options struct {
	Width  int
	Height int
	Title  string

	Pipeline pipeline.Config

	// ProbeOrder overrides DefaultProbeOrder. Tests use
	// []BackendName{BackendHeadless}.
	ProbeOrder []BackendName

	Logger Logger
}

func (o *Options) normalize() {
	if o.Width <= 0 {
		o.Width = 1280
	}
	if o.Height <= 0 {
		o.Height = 720
	}
	if o.Title == "" {
		o.Title = "reko"
	}
	if len(o.ProbeOrder) == 0 {
		o.ProbeOrder = DefaultProbeOrder()
	}
	if o.Logger == nil {
		o.Logger = NewDefaultLogger("reko", false)
	}
}

// Renderer drives frames end to end. All methods must be called from the
// goroutine that called Init; GLFW and the GPU backends are single-thread.
type Renderer struct {
	opts Options
	log  Logger

	state       State
	backendName BackendName

	window   *WindowState
	backend  backend.GraphicsBackend
	pipe     *pipeline.Pipeline
	textures *assets.TextureManager

	camera  *core.Camera
	lights  []core.Light
	objects []*core.RenderableObject

	events *eventBus
	fps    fpsWindow
	stats  RenderStats

	frame     uint64
	lastFrame time.Time

	pendingW uint32
	pendingH uint32

	disposed bool
}

func NewRenderer(opts Options) *Renderer {
	opts.normalize()
	cam := core.NewCamera()
	cam.Aspect = float32(opts.Width) / float32(opts.Height)
	return &Renderer{
		opts:   opts,
		log:    opts.Logger,
		camera: cam,
		events: newEventBus(64),
	}
}

// Init walks the probe order until a backend comes up. Each failed probe
// is logged and the next candidate tried; only exhausting the list fails.
func (r *Renderer) Init() error {
	if r.state != StateUninitialized {
		return fmt.Errorf("renderer: Init in state %s", r.state)
	}

	for i, name := range r.opts.ProbeOrder {
		if i == 0 {
			r.state = StateProbingPrimary
		} else {
			r.state = StateProbingFallback
		}

		b, ws, err := r.probeBackend(name)
		if err != nil {
			r.log.Warnf("Backend %s unavailable: %v", name, err)
			continue
		}

		pipe, err := pipeline.New(b, r.log, r.opts.Pipeline, uint32(r.opts.Width), uint32(r.opts.Height))
		if err != nil {
			r.log.Warnf("Backend %s pipeline setup failed: %v", name, err)
			b.Dispose()
			if ws != nil {
				ws.destroy()
			}
			continue
		}

		r.backend = b
		r.window = ws
		r.pipe = pipe
		r.textures = assets.NewTextureManager(b, r.log)
		r.backendName = name
		r.state = StateReady
		r.lastFrame = time.Now()

		r.log.Infof("Renderer selected: %s", name)
		r.events.publish(Event{Kind: EventBackendReady, Backend: string(name)})
		return nil
	}

	r.state = StateFailed
	return fmt.Errorf("renderer: no usable backend (tried %v)", r.opts.ProbeOrder)
}

func (r *Renderer) State() State                  { return r.state }
func (r *Renderer) Backend() string               { return string(r.backendName) }
func (r *Renderer) Camera() *core.Camera          { return r.camera }
func (r *Renderer) Events() <-chan Event          { return r.events.events() }
func (r *Renderer) Stats() RenderStats            { return r.stats }
func (r *Renderer) WindowState() *WindowState { return r.window }

// Pipeline exposes the pass pipeline for LOD registration and stats.
func (r *Renderer) Pipeline() *pipeline.Pipeline { return r.pipe }

// Textures is the shared texture manager for scene materials.
func (r *Renderer) Textures() *assets.TextureManager { return r.textures }

func (r *Renderer) AddObject(obj *core.RenderableObject) {
	r.objects = append(r.objects, obj)
}

// RemoveObject drops the object and its per-id pipeline state (occlusion
// query, LOD group). Unknown ids are a no-op.
func (r *Renderer) RemoveObject(id string) {
	for i, obj := range r.objects {
		if obj.ID == id {
			r.objects = append(r.objects[:i], r.objects[i+1:]...)
			break
		}
	}
	if r.pipe != nil {
		r.pipe.Occlusion().Unregister(id)
		r.pipe.LOD().UnregisterGroup(id)
	}
}

func (r *Renderer) Objects() []*core.RenderableObject { return r.objects }

func (r *Renderer) SetLights(lights []core.Light) { r.lights = lights }
func (r *Renderer) AddLight(l core.Light)         { r.lights = append(r.lights, l) }

// Resize records the new surface size; it is applied between frames, never
// in the middle of one.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.pendingW = uint32(width)
	r.pendingH = uint32(height)
}

func (r *Renderer) applyPendingResize() {
	if r.pendingW == 0 {
		return
	}
	w, h := r.pendingW, r.pendingH
	r.pendingW, r.pendingH = 0, 0

	r.backend.Resize(w, h)
	if err := r.pipe.Resize(w, h); err != nil {
		r.log.Errorf("Resize to %dx%d failed: %v", w, h, err)
		r.events.publish(Event{Kind: EventError, Backend: string(r.backendName), Err: err})
		return
	}
	r.camera.Aspect = float32(w) / float32(h)
	if r.window != nil {
		r.window.WindowWidth = int(w)
		r.window.WindowHeight = int(h)
	}
}

// RenderFrame runs one frame. Frame-level failures, panics included, are
// logged and published as error events; the loop is expected to continue.
// The returned error only reports lifecycle misuse.
func (r *Renderer) RenderFrame() error {
	if r.disposed {
		return fmt.Errorf("renderer: disposed")
	}
	if r.state != StateReady {
		return fmt.Errorf("renderer: RenderFrame in state %s", r.state)
	}

	now := time.Now()
	dt := float32(now.Sub(r.lastFrame).Seconds())
	r.lastFrame = now
	if dt > 0.25 {
		// hitch or debugger pause; do not step simulation-scale time
		dt = 0.25
	}

	r.applyPendingResize()
	r.frame++

	r.renderGuarded(dt)

	r.fps.tick(dt)
	ps := r.pipe.Stats()
	r.stats = RenderStats{
		Backend:         string(r.backendName),
		FrameNumber:     r.frame,
		FPS:             r.fps.value(),
		FrameTimeMs:     dt * 1000,
		DrawCalls:       ps.DrawCalls,
		Triangles:       ps.Triangles,
		TotalObjects:    ps.TotalObjects,
		VisibleObjects:  ps.VisibleObjects,
		CulledObjects:   ps.CulledObjects,
		OccludedObjects: ps.OccludedObjects,
		ShadowCasters:   ps.ShadowCasters,
	}
	if r.frame%statsInterval == 0 {
		r.events.publish(Event{Kind: EventStats, Backend: string(r.backendName), Stats: r.stats})
	}
	return nil
}

// renderGuarded isolates the pipeline behind a recover so one bad frame
// cannot take the application down.
func (r *Renderer) renderGuarded(dt float32) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("renderer: frame %d panicked: %v", r.frame, rec)
			r.log.Errorf("%v", err)
			r.events.publish(Event{Kind: EventError, Backend: string(r.backendName), Err: err})
		}
	}()

	ctx := &core.RenderContext{
		Backend:     r.backend,
		Camera:      r.camera,
		Lights:      r.lights,
		Renderables: r.objects,
		DeltaTime:   dt,
		FrameNumber: r.frame,
	}
	if err := r.pipe.Render(ctx); err != nil {
		r.log.Errorf("Frame %d: %v", r.frame, err)
		r.events.publish(Event{Kind: EventError, Backend: string(r.backendName), Err: err})
	}
}

// Run drives the frame loop until the window closes or Dispose is called.
// Windowless (headless) renderers step via RenderFrame directly instead.
func (r *Renderer) Run() error {
	if r.window == nil {
		return fmt.Errorf("renderer: Run requires a windowed backend")
	}
	win := r.window.Window()
	for !win.ShouldClose() && !r.disposed {
		glfw.PollEvents()
		if err := r.RenderFrame(); err != nil {
			return err
		}
		if r.backendName == BackendOpenGL {
			win.SwapBuffers()
		}
	}
	return nil
}

// Dispose stops the loop, then releases GPU resources, then the window.
func (r *Renderer) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true

	if r.textures != nil {
		r.textures.Dispose()
	}
	if r.pipe != nil {
		r.pipe.Dispose()
	}
	if r.backend != nil {
		r.backend.Dispose()
	}
	if r.window != nil {
		r.window.destroy()
		glfw.Terminate()
	}
	r.state = StateUninitialized
}
