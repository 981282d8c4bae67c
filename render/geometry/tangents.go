package geometry

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/reko3d/reko/render/core"
)

// CalculateTangents derives a tangent per triangle from the uv gradient
// and writes it to all three vertices. Shared vertices keep whichever
// triangle wrote last; good enough for normal mapping, and much cheaper
// than area-weighted averaging.
func CalculateTangents(mesh *core.Mesh) {
	tangents := make([]mgl32.Vec3, len(mesh.Positions))

	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		i0, i1, i2 := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]

		edge1 := mesh.Positions[i1].Sub(mesh.Positions[i0])
		edge2 := mesh.Positions[i2].Sub(mesh.Positions[i0])
		dUV1 := mesh.UVs[i1].Sub(mesh.UVs[i0])
		dUV2 := mesh.UVs[i2].Sub(mesh.UVs[i0])

		det := dUV1.X()*dUV2.Y() - dUV2.X()*dUV1.Y()
		if det == 0 {
			continue // degenerate uv mapping, leave zero tangent
		}
		f := 1.0 / det

		tangent := mgl32.Vec3{
			f * (dUV2.Y()*edge1.X() - dUV1.Y()*edge2.X()),
			f * (dUV2.Y()*edge1.Y() - dUV1.Y()*edge2.Y()),
			f * (dUV2.Y()*edge1.Z() - dUV1.Y()*edge2.Z()),
		}
		if tangent.Len() > 0 {
			tangent = tangent.Normalize()
		}

		tangents[i0] = tangent
		tangents[i1] = tangent
		tangents[i2] = tangent
	}

	mesh.Tangents = tangents
}
