package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh holds CPU-side geometry. Meshes are immutable once built and may be
// shared between any number of renderables; the pipeline uploads them once
// and keys GPU buffers on the pointer.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Tangents  []mgl32.Vec3 // empty unless tangents were generated
	Indices   []uint32
	Bounds    AABB
}

func (m *Mesh) VertexCount() int   { return len(m.Positions) }
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Validate checks internal consistency: parallel attribute arrays and no
// index past the vertex count.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	if len(m.Normals) != n {
		return fmt.Errorf("mesh: %d normals for %d vertices", len(m.Normals), n)
	}
	if len(m.UVs) != n {
		return fmt.Errorf("mesh: %d uvs for %d vertices", len(m.UVs), n)
	}
	if len(m.Tangents) != 0 && len(m.Tangents) != n {
		return fmt.Errorf("mesh: %d tangents for %d vertices", len(m.Tangents), n)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: index count %d not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("mesh: index %d at %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

// Interleave packs the mesh into the engine-wide vertex layout:
// position, normal, uv, tangent (11 floats per vertex).
func (m *Mesh) Interleave() []float32 {
	out := make([]float32, 0, len(m.Positions)*11)
	for i := range m.Positions {
		p := m.Positions[i]
		n := m.Normals[i]
		uv := m.UVs[i]
		var t mgl32.Vec3
		if i < len(m.Tangents) {
			t = m.Tangents[i]
		}
		out = append(out,
			p.X(), p.Y(), p.Z(),
			n.X(), n.Y(), n.Z(),
			uv.X(), uv.Y(),
			t.X(), t.Y(), t.Z(),
		)
	}
	return out
}
