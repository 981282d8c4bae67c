package core

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func vecNear(t *testing.T, got, want mgl32.Vec3, eps float32, msg string) {
	t.Helper()
	if got.Sub(want).Len() > eps {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform()
	if tr.Matrix() != mgl32.Ident4() {
		t.Error("Fresh transform should be identity")
	}

	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Scale = mgl32.Vec3{2, 2, 2}
	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, tr.Matrix())
	vecNear(t, p, mgl32.Vec3{3, 2, 3}, 1e-5, "scale then translate")

	tr = NewTransform()
	tr.Rotation = mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 1, 0})
	p = mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, tr.Matrix())
	vecNear(t, p, mgl32.Vec3{0, 0, -1}, 1e-5, "quarter turn around +Y")
}

func TestAABBBasics(t *testing.T) {
	b := NewAABB(mgl32.Vec3{2, -1, 5}, mgl32.Vec3{-2, 3, 1})
	if b.Min != (mgl32.Vec3{-2, -1, 1}) || b.Max != (mgl32.Vec3{2, 3, 5}) {
		t.Errorf("NewAABB did not sort corners: %v..%v", b.Min, b.Max)
	}
	if b.Center() != (mgl32.Vec3{0, 1, 3}) {
		t.Errorf("Center %v", b.Center())
	}
	if b.Extents() != (mgl32.Vec3{2, 2, 2}) {
		t.Errorf("Extents %v", b.Extents())
	}
}

func TestAABBUnion(t *testing.T) {
	a := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	b := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{5, 2, 1}}
	u := a.Union(b)
	if u.Min != (mgl32.Vec3{-1, -1, -1}) || u.Max != (mgl32.Vec3{5, 2, 1}) {
		t.Errorf("Union %v..%v", u.Min, u.Max)
	}
}

func TestAABBTransformed(t *testing.T) {
	b := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}

	moved := b.Transformed(mgl32.Translate3D(10, 0, 0))
	vecNear(t, moved.Min, mgl32.Vec3{9, -1, -1}, 1e-5, "translated min")
	vecNear(t, moved.Max, mgl32.Vec3{11, 1, 1}, 1e-5, "translated max")

	// a 45 degree spin around Y widens x and z to sqrt(2)
	rot := mgl32.HomogRotate3DY(math32.Pi / 4)
	spun := b.Transformed(rot)
	want := math32.Sqrt(2)
	if math32.Abs(spun.Max.X()-want) > 1e-4 || math32.Abs(spun.Max.Z()-want) > 1e-4 {
		t.Errorf("Rotated box should widen to %f, got %v", want, spun.Max)
	}
	if math32.Abs(spun.Max.Y()-1) > 1e-5 {
		t.Errorf("Y extent should be unchanged, got %f", spun.Max.Y())
	}
}

func TestBoundingSphere(t *testing.T) {
	b := AABB{Min: mgl32.Vec3{-1, -2, -3}, Max: mgl32.Vec3{1, 2, 3}}
	s := b.BoundingSphere()
	if s.Center != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("Center %v", s.Center)
	}
	want := mgl32.Vec3{1, 2, 3}.Len()
	if math32.Abs(s.Radius-want) > 1e-5 {
		t.Errorf("Radius %f, want %f", s.Radius, want)
	}
}

func TestMeshValidate(t *testing.T) {
	m := &Mesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}},
		Indices:   []uint32{0, 1, 2},
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Valid mesh rejected: %v", err)
	}

	bad := *m
	bad.Normals = bad.Normals[:2]
	if bad.Validate() == nil {
		t.Error("Mismatched normals should fail")
	}

	bad = *m
	bad.Indices = []uint32{0, 1}
	if bad.Validate() == nil {
		t.Error("Non-triangle index count should fail")
	}

	bad = *m
	bad.Indices = []uint32{0, 1, 9}
	if bad.Validate() == nil {
		t.Error("Out-of-range index should fail")
	}
}

func TestMeshInterleave(t *testing.T) {
	m := &Mesh{
		Positions: []mgl32.Vec3{{1, 2, 3}},
		Normals:   []mgl32.Vec3{{0, 1, 0}},
		UVs:       []mgl32.Vec2{{0.5, 0.25}},
		Indices:   []uint32{},
	}
	got := m.Interleave()
	want := []float32{1, 2, 3, 0, 1, 0, 0.5, 0.25, 0, 0, 0}
	if len(got) != len(want) {
		t.Fatalf("Interleave length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Interleave[%d] = %f, want %f", i, got[i], want[i])
		}
	}

	m.Tangents = []mgl32.Vec3{{1, 0, 0}}
	got = m.Interleave()
	if got[8] != 1 {
		t.Errorf("Tangent not packed: %v", got[8:])
	}
}

func TestCameraMatrices(t *testing.T) {
	cam := NewCamera()
	cam.Position = mgl32.Vec3{0, 0, 10}
	cam.Target = mgl32.Vec3{0, 0, 0}

	vecNear(t, cam.Forward(), mgl32.Vec3{0, 0, -1}, 1e-5, "forward")

	// a point at the target projects to the screen center
	p := mgl32.TransformCoordinate(cam.Target, cam.ViewProjection())
	if math32.Abs(p.X()) > 1e-5 || math32.Abs(p.Y()) > 1e-5 {
		t.Errorf("Target should project to center, got %v", p)
	}
}

func TestScreenCoverage(t *testing.T) {
	cam := NewCamera()

	if cam.ScreenCoverage(1, 0) != 1 {
		t.Error("Zero distance clamps to full coverage")
	}
	near := cam.ScreenCoverage(1, 10)
	far := cam.ScreenCoverage(1, 100)
	if near <= far {
		t.Errorf("Coverage should shrink with distance: %f vs %f", near, far)
	}
	ratio := near / far
	if math32.Abs(ratio-10) > 1e-3 {
		t.Errorf("Coverage should fall off linearly with distance, ratio %f", ratio)
	}
}

func TestRenderableDefaults(t *testing.T) {
	mesh := &Mesh{Bounds: AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}}
	obj := NewRenderableObject(mesh, NewMaterial())

	if obj.ID == "" {
		t.Error("Objects need a generated id")
	}
	if !obj.Visible || !obj.CastShadow || !obj.ReceiveShadow {
		t.Error("Objects default to visible shadow casters")
	}
	other := NewRenderableObject(mesh, nil)
	if other.ID == obj.ID {
		t.Error("Ids must be unique")
	}
}

func TestWorldBounds(t *testing.T) {
	mesh := &Mesh{Bounds: AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}}
	obj := NewRenderableObject(mesh, nil)
	obj.Transform.Position = mgl32.Vec3{5, 0, 0}
	obj.Transform.Scale = mgl32.Vec3{2, 2, 2}

	wb := obj.WorldBounds()
	vecNear(t, wb.Min, mgl32.Vec3{3, -2, -2}, 1e-5, "world min")
	vecNear(t, wb.Max, mgl32.Vec3{7, 2, 2}, 1e-5, "world max")
}
