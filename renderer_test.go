package reko

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reko3d/reko/render/core"
	"github.com/reko3d/reko/render/geometry"
	"github.com/reko3d/reko/render/pipeline"
)

func headlessRenderer(t *testing.T, cfg pipeline.Config) *Renderer {
	t.Helper()
	r := NewRenderer(Options{
		Pipeline:   cfg,
		ProbeOrder: []BackendName{BackendHeadless},
		Logger:     NewNopLogger(),
	})
	require.NoError(t, r.Init())
	t.Cleanup(r.Dispose)
	return r
}

func TestInitHeadless(t *testing.T) {
	r := headlessRenderer(t, pipeline.Config{})

	assert.Equal(t, StateReady, r.State())
	assert.Equal(t, "headless", r.Backend())
	assert.Nil(t, r.WindowState())

	select {
	case ev := <-r.Events():
		assert.Equal(t, EventBackendReady, ev.Kind)
		assert.Equal(t, "headless", ev.Backend)
	default:
		t.Fatal("Init should publish a backend-ready event")
	}
}

func TestInitFallsBack(t *testing.T) {
	r := NewRenderer(Options{
		ProbeOrder: []BackendName{"bogus", BackendHeadless},
		Logger:     NewNopLogger(),
	})
	require.NoError(t, r.Init())
	defer r.Dispose()

	assert.Equal(t, StateReady, r.State())
	assert.Equal(t, "headless", r.Backend(), "probe continues past a failed backend")
}

func TestInitAllProbesFail(t *testing.T) {
	r := NewRenderer(Options{
		ProbeOrder: []BackendName{"bogus", "also-bogus"},
		Logger:     NewNopLogger(),
	})
	assert.Error(t, r.Init())
	assert.Equal(t, StateFailed, r.State())
	assert.Error(t, r.RenderFrame(), "a failed renderer cannot render")
}

func TestInitTwice(t *testing.T) {
	r := headlessRenderer(t, pipeline.Config{})
	assert.Error(t, r.Init())
}

func addBox(r *Renderer, pos mgl32.Vec3) *core.RenderableObject {
	obj := core.NewRenderableObject(geometry.CreateBox(2, 2, 2), core.NewMaterial())
	obj.Transform.Position = pos
	r.AddObject(obj)
	return obj
}

func TestRenderFrameStats(t *testing.T) {
	r := headlessRenderer(t, pipeline.Config{})
	addBox(r, mgl32.Vec3{0, 0, 0})

	require.NoError(t, r.RenderFrame())
	require.NoError(t, r.RenderFrame())

	s := r.Stats()
	assert.Equal(t, uint64(2), s.FrameNumber)
	assert.Equal(t, "headless", s.Backend)
	assert.Equal(t, 1, s.TotalObjects)
	assert.Equal(t, 1, s.VisibleObjects)
	assert.Positive(t, s.DrawCalls)
}

func TestStatsEventInterval(t *testing.T) {
	r := headlessRenderer(t, pipeline.Config{})
	<-r.Events() // drain backend-ready

	for i := 0; i < statsInterval; i++ {
		require.NoError(t, r.RenderFrame())
	}

	select {
	case ev := <-r.Events():
		assert.Equal(t, EventStats, ev.Kind)
		assert.Equal(t, uint64(statsInterval), ev.Stats.FrameNumber)
	default:
		t.Fatalf("Expected a stats event after %d frames", statsInterval)
	}
}

func TestRemoveObject(t *testing.T) {
	r := headlessRenderer(t, pipeline.Config{})
	obj := addBox(r, mgl32.Vec3{0, 0, 0})
	addBox(r, mgl32.Vec3{3, 0, 0})

	require.NoError(t, r.RenderFrame())
	require.Len(t, r.Objects(), 2)

	r.RemoveObject(obj.ID)
	assert.Len(t, r.Objects(), 1)

	require.NoError(t, r.RenderFrame())
	assert.Equal(t, 1, r.Stats().TotalObjects)

	r.RemoveObject("no-such-id") // no-op
	assert.Len(t, r.Objects(), 1)
}

func TestLights(t *testing.T) {
	r := headlessRenderer(t, pipeline.Config{Shadows: true})
	addBox(r, mgl32.Vec3{0, 0, 0})
	r.SetLights([]core.Light{{
		Type:      core.LightDirectional,
		Direction: mgl32.Vec3{0, -1, 0},
		Color:     [3]float32{1, 1, 1},
		Intensity: 1,
		Shadows:   true,
	}})
	r.AddLight(core.Light{Type: core.LightPoint, Position: mgl32.Vec3{0, 4, 0}})

	require.NoError(t, r.RenderFrame())
	assert.Equal(t, 1, r.Stats().ShadowCasters)
}

func TestResizeAppliedBetweenFrames(t *testing.T) {
	r := headlessRenderer(t, pipeline.Config{HDR: true})

	r.Resize(1920, 1080)
	require.NoError(t, r.RenderFrame())
	assert.InDelta(t, 1920.0/1080.0, float64(r.Camera().Aspect), 1e-4)

	r.Resize(0, -5) // rejected
	require.NoError(t, r.RenderFrame())
	assert.InDelta(t, 1920.0/1080.0, float64(r.Camera().Aspect), 1e-4)
}

func TestDispose(t *testing.T) {
	r := NewRenderer(Options{
		ProbeOrder: []BackendName{BackendHeadless},
		Logger:     NewNopLogger(),
	})
	require.NoError(t, r.Init())

	r.Dispose()
	assert.Error(t, r.RenderFrame())
	r.Dispose() // idempotent
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUninitialized, "uninitialized"},
		{StateProbingPrimary, "probing-primary"},
		{StateProbingFallback, "probing-fallback"},
		{StateReady, "ready"},
		{StateFailed, "failed"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestFPSWindow(t *testing.T) {
	var w fpsWindow
	assert.Zero(t, w.value(), "no value before the first window closes")

	for i := 0; i < 50; i++ {
		w.tick(0.02) // 50 fps for one second
	}
	assert.InDelta(t, 50, float64(w.value()), 0.5)

	for i := 0; i < 10; i++ {
		w.tick(0.02)
	}
	assert.InDelta(t, 50, float64(w.value()), 0.5, "mid-window keeps the last average")
}

func TestEventBusDropsOnOverflow(t *testing.T) {
	bus := newEventBus(2)
	for i := 0; i < 10; i++ {
		bus.publish(Event{Kind: EventStats})
	}
	// the publisher never blocked; only the buffered two remain
	count := 0
	for {
		select {
		case <-bus.events():
			count++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 2, count)
}
