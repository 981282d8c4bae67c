package geometry

import (
	"github.com/reko3d/reko/render/core"
)

// MergeMeshes concatenates meshes into one, rewriting indices with a
// running vertex offset. Tangents are carried only when every input has
// them; a partial set would misalign the attribute arrays.
func MergeMeshes(meshes ...*core.Mesh) *core.Mesh {
	out := &core.Mesh{}
	if len(meshes) == 0 {
		return out
	}

	allTangents := true
	for _, m := range meshes {
		if len(m.Tangents) != len(m.Positions) {
			allTangents = false
			break
		}
	}

	for _, m := range meshes {
		offset := uint32(len(out.Positions))
		out.Positions = append(out.Positions, m.Positions...)
		out.Normals = append(out.Normals, m.Normals...)
		out.UVs = append(out.UVs, m.UVs...)
		if allTangents {
			out.Tangents = append(out.Tangents, m.Tangents...)
		}
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, idx+offset)
		}
	}

	out.Bounds = ComputeBounds(out.Positions)
	return out
}
