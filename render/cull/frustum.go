// Package cull rejects renderables the camera cannot see, first against
// the view frustum and then, on backends that support it, against GPU
// occlusion queries.
package cull

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/reko3d/reko/render/core"
)

// Frustum is 6 normalized planes in Ax + By + Cz + D = 0 form, order:
// left, right, bottom, top, near, far.
type Frustum [6]mgl32.Vec4

// ExtractFrustum derives the planes from a view-projection matrix using
// row addition/subtraction, then normalizes each plane so signed
// distances are in world units.
func ExtractFrustum(vp mgl32.Mat4) Frustum {
	var planes Frustum

	// left: row 3 + row 0
	planes[0] = mgl32.Vec4{
		vp.At(3, 0) + vp.At(0, 0),
		vp.At(3, 1) + vp.At(0, 1),
		vp.At(3, 2) + vp.At(0, 2),
		vp.At(3, 3) + vp.At(0, 3),
	}
	// right: row 3 - row 0
	planes[1] = mgl32.Vec4{
		vp.At(3, 0) - vp.At(0, 0),
		vp.At(3, 1) - vp.At(0, 1),
		vp.At(3, 2) - vp.At(0, 2),
		vp.At(3, 3) - vp.At(0, 3),
	}
	// bottom: row 3 + row 1
	planes[2] = mgl32.Vec4{
		vp.At(3, 0) + vp.At(1, 0),
		vp.At(3, 1) + vp.At(1, 1),
		vp.At(3, 2) + vp.At(1, 2),
		vp.At(3, 3) + vp.At(1, 3),
	}
	// top: row 3 - row 1
	planes[3] = mgl32.Vec4{
		vp.At(3, 0) - vp.At(1, 0),
		vp.At(3, 1) - vp.At(1, 1),
		vp.At(3, 2) - vp.At(1, 2),
		vp.At(3, 3) - vp.At(1, 3),
	}
	// near: row 3 + row 2
	planes[4] = mgl32.Vec4{
		vp.At(3, 0) + vp.At(2, 0),
		vp.At(3, 1) + vp.At(2, 1),
		vp.At(3, 2) + vp.At(2, 2),
		vp.At(3, 3) + vp.At(2, 3),
	}
	// far: row 3 - row 2
	planes[5] = mgl32.Vec4{
		vp.At(3, 0) - vp.At(2, 0),
		vp.At(3, 1) - vp.At(2, 1),
		vp.At(3, 2) - vp.At(2, 2),
		vp.At(3, 3) - vp.At(2, 3),
	}

	for i := 0; i < 6; i++ {
		length := math32.Sqrt(planes[i][0]*planes[i][0] + planes[i][1]*planes[i][1] + planes[i][2]*planes[i][2])
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}
	return planes
}

// TestAABB checks the box corner most aligned with each plane normal.
// Conservative: boxes that straddle a corner region may pass even when
// the exact intersection is empty, but nothing visible is ever rejected.
func TestAABB(box core.AABB, planes Frustum) bool {
	for _, p := range planes {
		var px, py, pz float32
		if p.X() >= 0 {
			px = box.Max.X()
		} else {
			px = box.Min.X()
		}
		if p.Y() >= 0 {
			py = box.Max.Y()
		} else {
			py = box.Min.Y()
		}
		if p.Z() >= 0 {
			pz = box.Max.Z()
		} else {
			pz = box.Min.Z()
		}
		if p.X()*px+p.Y()*py+p.Z()*pz+p.W() < 0 {
			return false
		}
	}
	return true
}

// TestSphere is a direct signed-distance test.
func TestSphere(s core.Sphere, planes Frustum) bool {
	for _, p := range planes {
		dist := p.X()*s.Center.X() + p.Y()*s.Center.Y() + p.Z()*s.Center.Z() + p.W()
		if dist < -s.Radius {
			return false
		}
	}
	return true
}

// CullObjects is the flat O(n) cull. It writes each object's InFrustum
// cache flag and returns the visible subset in input order.
func CullObjects(objects []*core.RenderableObject, planes Frustum) []*core.RenderableObject {
	visible := make([]*core.RenderableObject, 0, len(objects))
	for _, obj := range objects {
		if !obj.Visible {
			obj.InFrustum = false
			continue
		}
		obj.InFrustum = TestAABB(obj.WorldBounds(), planes)
		if obj.InFrustum {
			visible = append(visible, obj)
		}
	}
	return visible
}
