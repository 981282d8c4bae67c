// Package geometry builds procedural meshes. Generators return immutable
// core.Mesh values with bounds already computed; they are pure functions
// with no GPU involvement.
package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/reko3d/reko/render/core"
)

// CreateBox builds an axis-aligned box centered on the origin with
// per-face normals and uvs: 24 vertices, 36 indices.
func CreateBox(width, height, depth float32) *core.Mesh {
	hw, hh, hd := width/2, height/2, depth/2

	type face struct {
		normal  mgl32.Vec3
		corners [4]mgl32.Vec3
	}
	faces := []face{
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-hw, -hh, hd}, {hw, -hh, hd}, {hw, hh, hd}, {-hw, hh, hd}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{hw, -hh, -hd}, {-hw, -hh, -hd}, {-hw, hh, -hd}, {hw, hh, -hd}}},
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{hw, -hh, hd}, {hw, -hh, -hd}, {hw, hh, -hd}, {hw, hh, hd}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-hw, -hh, -hd}, {-hw, -hh, hd}, {-hw, hh, hd}, {-hw, hh, -hd}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-hw, hh, hd}, {hw, hh, hd}, {hw, hh, -hd}, {-hw, hh, -hd}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-hw, -hh, -hd}, {hw, -hh, -hd}, {hw, -hh, hd}, {-hw, -hh, hd}}},
	}
	uvs := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	mesh := &core.Mesh{}
	for _, f := range faces {
		base := uint32(len(mesh.Positions))
		for i, c := range f.corners {
			mesh.Positions = append(mesh.Positions, c)
			mesh.Normals = append(mesh.Normals, f.normal)
			mesh.UVs = append(mesh.UVs, uvs[i])
		}
		mesh.Indices = append(mesh.Indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
	mesh.Bounds = ComputeBounds(mesh.Positions)
	return mesh
}

// CreateSphere builds a UV sphere. segments is the longitudinal count,
// rings the latitudinal count; both are clamped to sane minimums.
func CreateSphere(radius float32, segments, rings int) *core.Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	mesh := &core.Mesh{}
	for ring := 0; ring <= rings; ring++ {
		v := float32(ring) / float32(rings)
		phi := v * math32.Pi
		for seg := 0; seg <= segments; seg++ {
			u := float32(seg) / float32(segments)
			theta := u * 2 * math32.Pi

			x := math32.Sin(phi) * math32.Cos(theta)
			y := math32.Cos(phi)
			z := math32.Sin(phi) * math32.Sin(theta)

			normal := mgl32.Vec3{x, y, z}
			mesh.Positions = append(mesh.Positions, normal.Mul(radius))
			mesh.Normals = append(mesh.Normals, normal)
			mesh.UVs = append(mesh.UVs, mgl32.Vec2{u, v})
		}
	}

	stride := uint32(segments + 1)
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			a := uint32(ring)*stride + uint32(seg)
			b := a + stride
			mesh.Indices = append(mesh.Indices,
				a, b, a+1,
				b, b+1, a+1,
			)
		}
	}
	mesh.Bounds = ComputeBounds(mesh.Positions)
	return mesh
}

// CreatePlane builds a flat XZ plane centered on the origin, facing +Y.
func CreatePlane(width, depth float32) *core.Mesh {
	hw, hd := width/2, depth/2
	mesh := &core.Mesh{
		Positions: []mgl32.Vec3{
			{-hw, 0, -hd}, {hw, 0, -hd}, {hw, 0, hd}, {-hw, 0, hd},
		},
		Normals: []mgl32.Vec3{
			{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0},
		},
		UVs: []mgl32.Vec2{
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
	mesh.Bounds = ComputeBounds(mesh.Positions)
	return mesh
}

// CreateGroundGrid is a plane with tiled uvs, used for large ground
// surfaces where a single 0..1 uv range would stretch the texture.
func CreateGroundGrid(size float32, uvRepeat float32) *core.Mesh {
	mesh := CreatePlane(size, size)
	for i := range mesh.UVs {
		mesh.UVs[i] = mesh.UVs[i].Mul(uvRepeat)
	}
	return mesh
}

// CreateCylinder builds an open-capped-or-not cylinder along Y. A zero
// radiusTop gives a cone. Side normals are smooth and account for slant.
func CreateCylinder(radiusTop, radiusBottom, height float32, radialSegments, heightSegments int) *core.Mesh {
	if radialSegments < 3 {
		radialSegments = 3
	}
	if heightSegments < 1 {
		heightSegments = 1
	}

	mesh := &core.Mesh{}
	halfH := height / 2
	slope := (radiusBottom - radiusTop) / height

	// side
	for y := 0; y <= heightSegments; y++ {
		v := float32(y) / float32(heightSegments)
		radius := radiusBottom + (radiusTop-radiusBottom)*v
		py := -halfH + v*height
		for x := 0; x <= radialSegments; x++ {
			u := float32(x) / float32(radialSegments)
			theta := u * 2 * math32.Pi
			sin, cos := math32.Sin(theta), math32.Cos(theta)

			mesh.Positions = append(mesh.Positions, mgl32.Vec3{radius * sin, py, radius * cos})
			mesh.Normals = append(mesh.Normals, mgl32.Vec3{sin, slope, cos}.Normalize())
			mesh.UVs = append(mesh.UVs, mgl32.Vec2{u, v})
		}
	}
	stride := uint32(radialSegments + 1)
	for y := 0; y < heightSegments; y++ {
		for x := 0; x < radialSegments; x++ {
			a := uint32(y)*stride + uint32(x)
			b := a + stride
			mesh.Indices = append(mesh.Indices,
				a, b, a+1,
				b, b+1, a+1,
			)
		}
	}

	// caps
	addCap := func(radius, py float32, up bool) {
		if radius <= 0 {
			return
		}
		normal := mgl32.Vec3{0, 1, 0}
		if !up {
			normal = mgl32.Vec3{0, -1, 0}
		}
		center := uint32(len(mesh.Positions))
		mesh.Positions = append(mesh.Positions, mgl32.Vec3{0, py, 0})
		mesh.Normals = append(mesh.Normals, normal)
		mesh.UVs = append(mesh.UVs, mgl32.Vec2{0.5, 0.5})
		for x := 0; x <= radialSegments; x++ {
			theta := float32(x) / float32(radialSegments) * 2 * math32.Pi
			sin, cos := math32.Sin(theta), math32.Cos(theta)
			mesh.Positions = append(mesh.Positions, mgl32.Vec3{radius * sin, py, radius * cos})
			mesh.Normals = append(mesh.Normals, normal)
			mesh.UVs = append(mesh.UVs, mgl32.Vec2{(sin + 1) / 2, (cos + 1) / 2})
		}
		for x := 0; x < radialSegments; x++ {
			a := center + 1 + uint32(x)
			b := a + 1
			if up {
				mesh.Indices = append(mesh.Indices, center, a, b)
			} else {
				mesh.Indices = append(mesh.Indices, center, b, a)
			}
		}
	}
	addCap(radiusTop, halfH, true)
	addCap(radiusBottom, -halfH, false)

	mesh.Bounds = ComputeBounds(mesh.Positions)
	return mesh
}

// ComputeBounds scans every vertex once.
func ComputeBounds(positions []mgl32.Vec3) core.AABB {
	if len(positions) == 0 {
		return core.AABB{}
	}
	b := core.AABB{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		b.Min = mgl32.Vec3{math32.Min(b.Min.X(), p.X()), math32.Min(b.Min.Y(), p.Y()), math32.Min(b.Min.Z(), p.Z())}
		b.Max = mgl32.Vec3{math32.Max(b.Max.X(), p.X()), math32.Max(b.Max.Y(), p.Y()), math32.Max(b.Max.Z(), p.Z())}
	}
	return b
}
