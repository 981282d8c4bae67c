package core

import (
	"github.com/reko3d/reko/render/backend"
)

// RenderContext is the per-frame bundle the façade hands to the pipeline.
// It is rebuilt every frame; nothing in it may be retained across frames.
type RenderContext struct {
	Backend     backend.GraphicsBackend
	Camera      *Camera
	Lights      []Light
	Renderables []*RenderableObject
	DeltaTime   float32
	FrameNumber uint64
}
