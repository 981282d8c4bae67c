package core

import (
	"github.com/google/uuid"
)

// RenderableObject is one drawable instance handed to the pipeline each
// frame by the scene-authoring layer. The pipeline reads it, and only ever
// writes InFrustum, the cached result of the most recent cull.
type RenderableObject struct {
	ID        string
	Mesh      *Mesh
	Material  *Material
	Transform Transform

	Visible       bool
	CastShadow    bool
	ReceiveShadow bool
	Layer         int

	// InFrustum is owned by the culling step; scene code must not rely
	// on it between frames.
	InFrustum bool
}

func NewRenderableObject(mesh *Mesh, material *Material) *RenderableObject {
	return &RenderableObject{
		ID:            uuid.NewString(),
		Mesh:          mesh,
		Material:      material,
		Transform:     NewTransform(),
		Visible:       true,
		CastShadow:    true,
		ReceiveShadow: true,
	}
}

// WorldBounds returns the mesh bounds in world space.
func (r *RenderableObject) WorldBounds() AABB {
	return r.Mesh.Bounds.Transformed(r.Transform.Matrix())
}
