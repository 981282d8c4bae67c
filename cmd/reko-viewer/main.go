// reko-viewer is a small host for the renderer: it builds a stand-in
// accident scene (ground grid, two vehicles, debris), wires GLFW input to
// the orbit controller, and prints stats from the event channel.
package main

import (
	"flag"
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"

	"github.com/reko3d/reko"
	"github.com/reko3d/reko/render/core"
	"github.com/reko3d/reko/render/geometry"
	"github.com/reko3d/reko/render/lod"
	"github.com/reko3d/reko/render/pipeline"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	deferred := flag.Bool("deferred", false, "use the deferred pass graph")
	hdr := flag.Bool("hdr", false, "render to an HDR target with tone mapping")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log := reko.NewDefaultLogger("viewer", *debug)

	cfg := pipeline.Config{
		Shadows:        true,
		HDR:            *hdr,
		PostProcessing: *hdr,
	}
	if *deferred {
		cfg.Mode = pipeline.ModeDeferred
	}

	r := reko.NewRenderer(reko.Options{
		Width:    1280,
		Height:   720,
		Title:    "reko viewer",
		Pipeline: cfg,
		Logger:   log,
	})
	if err := r.Init(); err != nil {
		log.Errorf("%v", err)
		closer.Fatalln(err)
	}
	closer.Bind(r.Dispose)

	buildScene(r)

	controller := reko.NewOrbitController()
	controller.FocusOn(mgl32.Vec3{0, 0.5, 0}, 18)
	wireInput(r, controller)

	go func() {
		for ev := range r.Events() {
			switch ev.Kind {
			case reko.EventBackendReady:
				log.Infof("Backend ready: %s", ev.Backend)
			case reko.EventError:
				log.Warnf("Renderer error: %v", ev.Err)
			case reko.EventStats:
				s := ev.Stats
				fmt.Printf("frame %d  %5.1f fps  %d draws  %d tris  %d/%d visible (%d culled, %d occluded)\n",
					s.FrameNumber, s.FPS, s.DrawCalls, s.Triangles,
					s.VisibleObjects, s.TotalObjects, s.CulledObjects, s.OccludedObjects)
			}
		}
	}()

	win := r.WindowState().Window()
	last := glfw.GetTime()
	for !win.ShouldClose() {
		glfw.PollEvents()
		now := glfw.GetTime()
		controller.Update(float32(now - last))
		last = now
		controller.Apply(r.Camera())
		if err := r.RenderFrame(); err != nil {
			log.Errorf("%v", err)
			break
		}
		if r.Backend() == string(reko.BackendOpenGL) {
			win.SwapBuffers()
		}
	}
	closer.Close()
}

// buildScene assembles the reconstruction stand-in: a tiled ground grid,
// two vehicle hulls with LOD chains, a lamp post, and a windshield pane.
func buildScene(r *reko.Renderer) {
	ground := core.NewRenderableObject(geometry.CreateGroundGrid(60, 30), groundMaterial())
	ground.CastShadow = false
	r.AddObject(ground)

	vehicle(r, mgl32.Vec3{-2.5, 0.6, 0}, mgl32.Vec3{0.75, 0.2, 0.15}, 0.4)
	vehicle(r, mgl32.Vec3{2.0, 0.6, 1.5}, mgl32.Vec3{0.2, 0.3, 0.7}, -0.9)

	post := core.NewRenderableObject(geometry.CreateCylinder(0.08, 0.1, 4, 12, 1), metalMaterial())
	post.Transform.Position = mgl32.Vec3{6, 2, -4}
	r.AddObject(post)

	debris := core.NewRenderableObject(geometry.CreateSphere(0.3, 16, 12), metalMaterial())
	debris.Transform.Position = mgl32.Vec3{0.4, 0.3, 0.8}
	r.AddObject(debris)

	windshield := core.NewRenderableObject(geometry.CreateBox(1.6, 0.7, 0.05), glassMaterial())
	windshield.Transform.Position = mgl32.Vec3{-1.6, 1.1, 0}
	windshield.CastShadow = false
	r.AddObject(windshield)

	r.SetLights([]core.Light{
		{
			Type:      core.LightDirectional,
			Direction: mgl32.Vec3{-0.4, -1, -0.3},
			Color:     [3]float32{1, 0.96, 0.9},
			Intensity: 1.2,
			Shadows:   true,
		},
		{
			Type:      core.LightPoint,
			Position:  mgl32.Vec3{6, 3.8, -4},
			Color:     [3]float32{1, 0.8, 0.5},
			Intensity: 0.6,
			Range:     12,
		},
	})
}

// vehicle adds a box-hull vehicle with a three-level LOD chain.
func vehicle(r *reko.Renderer, pos, color mgl32.Vec3, yaw float32) *core.RenderableObject {
	hull := geometry.CreateBox(4.2, 1.2, 1.8)
	geometry.CalculateTangents(hull)

	mat := core.NewMaterial()
	mat.Albedo = color
	mat.Metallic = 0.6
	mat.Roughness = 0.35

	obj := core.NewRenderableObject(hull, mat)
	obj.Transform.Position = pos
	obj.Transform.Rotation = mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})
	r.AddObject(obj)

	meshes := []*core.Mesh{
		hull,
		geometry.CreateBox(4.2, 1.2, 1.8),
		geometry.CreateBox(4.4, 1.4, 2.0),
	}
	radius := hull.Bounds.BoundingSphere().Radius
	group := lod.GroupFor(obj.ID, obj.WorldBounds(), lod.GenerateLevels(meshes, radius))
	if err := r.Pipeline().LOD().RegisterGroup(group); err != nil {
		panic(err)
	}
	return obj
}

func groundMaterial() *core.Material {
	m := core.NewMaterial()
	m.Albedo = mgl32.Vec3{0.45, 0.45, 0.47}
	m.Roughness = 0.9
	return m
}

func metalMaterial() *core.Material {
	m := core.NewMaterial()
	m.Albedo = mgl32.Vec3{0.6, 0.6, 0.62}
	m.Metallic = 0.9
	m.Roughness = 0.3
	return m
}

func glassMaterial() *core.Material {
	m := core.NewMaterial()
	m.Albedo = mgl32.Vec3{0.6, 0.75, 0.85}
	m.Transparent = true
	m.Opacity = 0.35
	return m
}

// wireInput maps GLFW callbacks onto controller events: left drag rotates,
// right or middle drag pans, the wheel zooms.
func wireInput(r *reko.Renderer, controller *reko.OrbitController) {
	win := r.WindowState().Window()

	var lastX, lastY float64
	var rotating, panning bool

	win.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		pressed := action == glfw.Press
		switch button {
		case glfw.MouseButtonLeft:
			rotating = pressed
		case glfw.MouseButtonRight, glfw.MouseButtonMiddle:
			panning = pressed
		}
		if pressed {
			lastX, lastY = w.GetCursorPos()
		}
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		dx := float32(x - lastX)
		dy := float32(y - lastY)
		lastX, lastY = x, y
		if rotating {
			controller.Rotate(dx, dy)
		}
		if panning {
			controller.Pan(dx, dy)
		}
	})

	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		controller.Zoom(float32(yoff))
	})

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		r.Resize(width, height)
	})

	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyF:
			controller.FocusOn(mgl32.Vec3{0, 0.5, 0}, 18)
		}
	})
}
