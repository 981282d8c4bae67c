package reko

// RenderStats is a point-in-time snapshot of the renderer. Retrieved by
// polling Stats() or pushed on the event channel every statsInterval
// frames.
type RenderStats struct {
	Backend     string
	FrameNumber uint64
	FPS         float32
	FrameTimeMs float32

	DrawCalls       int
	Triangles       int
	TotalObjects    int
	VisibleObjects  int
	CulledObjects   int
	OccludedObjects int
	ShadowCasters   int
}

// fpsWindow averages the frame rate over one-second windows. The value
// reported between window resets is the previous window's average.
type fpsWindow struct {
	frames  int
	elapsed float32
	fps     float32
}

func (w *fpsWindow) tick(dt float32) {
	w.frames++
	w.elapsed += dt
	if w.elapsed >= 1.0 {
		w.fps = float32(w.frames) / w.elapsed
		w.frames = 0
		w.elapsed = 0
	}
}

func (w *fpsWindow) value() float32 { return w.fps }
