package core

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/reko3d/reko/render/backend"
)

// Material carries scalar PBR parameters plus optional texture handles.
// Zero handles mean "no texture"; the pipeline falls back to the scalar
// values. What the shading program does with these is outside this core.
type Material struct {
	Albedo    mgl32.Vec3
	Metallic  float32
	Roughness float32
	AO        float32
	Emissive  mgl32.Vec3

	AlbedoMap    backend.TextureHandle
	NormalMap    backend.TextureHandle
	MetallicMap  backend.TextureHandle
	RoughnessMap backend.TextureHandle
	EmissiveMap  backend.TextureHandle

	Transparent bool
	Opacity     float32
}

func NewMaterial() *Material {
	return &Material{
		Albedo:    mgl32.Vec3{0.8, 0.8, 0.8},
		Roughness: 0.5,
		AO:        1.0,
		Opacity:   1.0,
	}
}
