package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box. Min must be component-wise <= Max;
// NewAABB enforces that for arbitrary corner input.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func NewAABB(a, b mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{math32.Min(a.X(), b.X()), math32.Min(a.Y(), b.Y()), math32.Min(a.Z(), b.Z())},
		Max: mgl32.Vec3{math32.Max(a.X(), b.X()), math32.Max(a.Y(), b.Y()), math32.Max(a.Z(), b.Z())},
	}
}

func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Extents() mgl32.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Union grows the box to cover other.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{
			math32.Min(b.Min.X(), other.Min.X()),
			math32.Min(b.Min.Y(), other.Min.Y()),
			math32.Min(b.Min.Z(), other.Min.Z()),
		},
		Max: mgl32.Vec3{
			math32.Max(b.Max.X(), other.Max.X()),
			math32.Max(b.Max.Y(), other.Max.Y()),
			math32.Max(b.Max.Z(), other.Max.Z()),
		},
	}
}

// Transformed maps all 8 corners through m and rescans. Exact for the
// corners, conservative for the volume.
func (b AABB) Transformed(m mgl32.Mat4) AABB {
	corners := [8]mgl32.Vec3{
		{b.Min.X(), b.Min.Y(), b.Min.Z()},
		{b.Max.X(), b.Min.Y(), b.Min.Z()},
		{b.Min.X(), b.Max.Y(), b.Min.Z()},
		{b.Max.X(), b.Max.Y(), b.Min.Z()},
		{b.Min.X(), b.Min.Y(), b.Max.Z()},
		{b.Max.X(), b.Min.Y(), b.Max.Z()},
		{b.Min.X(), b.Max.Y(), b.Max.Z()},
		{b.Max.X(), b.Max.Y(), b.Max.Z()},
	}
	out := AABB{
		Min: mgl32.Vec3{math32.Inf(1), math32.Inf(1), math32.Inf(1)},
		Max: mgl32.Vec3{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)},
	}
	for _, c := range corners {
		p := mgl32.TransformCoordinate(c, m)
		out.Min = mgl32.Vec3{math32.Min(out.Min.X(), p.X()), math32.Min(out.Min.Y(), p.Y()), math32.Min(out.Min.Z(), p.Z())}
		out.Max = mgl32.Vec3{math32.Max(out.Max.X(), p.X()), math32.Max(out.Max.Y(), p.Y()), math32.Max(out.Max.Z(), p.Z())}
	}
	return out
}

// BoundingSphere returns the tightest sphere around the box.
func (b AABB) BoundingSphere() Sphere {
	return Sphere{
		Center: b.Center(),
		Radius: b.Extents().Len(),
	}
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}
