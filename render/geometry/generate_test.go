package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCreateBoxLayout(t *testing.T) {
	box := CreateBox(2, 2, 2)

	if got := box.VertexCount(); got != 24 {
		t.Errorf("Expected 24 vertices, got %d", got)
	}
	if got := len(box.Indices); got != 36 {
		t.Errorf("Expected 36 indices, got %d", got)
	}
	if box.Bounds.Min != (mgl32.Vec3{-1, -1, -1}) {
		t.Errorf("Expected bounds min (-1,-1,-1), got %v", box.Bounds.Min)
	}
	if box.Bounds.Max != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("Expected bounds max (1,1,1), got %v", box.Bounds.Max)
	}
	if err := box.Validate(); err != nil {
		t.Errorf("Box should validate: %v", err)
	}
}

func TestCreateBoxDimensions(t *testing.T) {
	tests := []struct {
		name             string
		w, h, d          float32
		wantMin, wantMax mgl32.Vec3
	}{
		{"unit", 1, 1, 1, mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5}},
		{"vehicle", 4, 1.2, 1.8, mgl32.Vec3{-2, -0.6, -0.9}, mgl32.Vec3{2, 0.6, 0.9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := CreateBox(tt.w, tt.h, tt.d)
			if box.Bounds.Min != tt.wantMin || box.Bounds.Max != tt.wantMax {
				t.Errorf("Bounds %v..%v, want %v..%v", box.Bounds.Min, box.Bounds.Max, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestCreateSphere(t *testing.T) {
	const segments, rings = 16, 12
	sphere := CreateSphere(2, segments, rings)

	wantVerts := (segments + 1) * (rings + 1)
	if got := sphere.VertexCount(); got != wantVerts {
		t.Errorf("Expected %d vertices, got %d", wantVerts, got)
	}
	if err := sphere.Validate(); err != nil {
		t.Errorf("Sphere should validate: %v", err)
	}

	for i, p := range sphere.Positions {
		r := p.Len()
		if r < 1.99 || r > 2.01 {
			t.Fatalf("Vertex %d at radius %f, expected 2", i, r)
		}
	}
}

func TestCreateSphereClampsParams(t *testing.T) {
	sphere := CreateSphere(1, 1, 1)
	if err := sphere.Validate(); err != nil {
		t.Errorf("Clamped sphere should validate: %v", err)
	}
	if sphere.VertexCount() < 12 {
		t.Errorf("Clamped sphere too small: %d vertices", sphere.VertexCount())
	}
}

func TestCreatePlaneFacesUp(t *testing.T) {
	plane := CreatePlane(10, 10)
	for i, n := range plane.Normals {
		if n != (mgl32.Vec3{0, 1, 0}) {
			t.Errorf("Normal %d is %v, expected +Y", i, n)
		}
	}
	if plane.Bounds.Min.Y() != 0 || plane.Bounds.Max.Y() != 0 {
		t.Errorf("Plane should be flat at y=0, bounds %v..%v", plane.Bounds.Min, plane.Bounds.Max)
	}
}

func TestCreateGroundGridTilesUVs(t *testing.T) {
	grid := CreateGroundGrid(60, 30)
	var maxU float32
	for _, uv := range grid.UVs {
		if uv.X() > maxU {
			maxU = uv.X()
		}
	}
	if maxU != 30 {
		t.Errorf("Expected uv repeat up to 30, got %f", maxU)
	}
}

func TestCreateCylinder(t *testing.T) {
	cyl := CreateCylinder(1, 1, 4, 12, 2)
	if err := cyl.Validate(); err != nil {
		t.Fatalf("Cylinder should validate: %v", err)
	}
	if cyl.Bounds.Min.Y() != -2 || cyl.Bounds.Max.Y() != 2 {
		t.Errorf("Cylinder height bounds %f..%f, expected -2..2", cyl.Bounds.Min.Y(), cyl.Bounds.Max.Y())
	}
}

func TestCreateConeHasNoTopCap(t *testing.T) {
	cone := CreateCylinder(0, 1, 2, 8, 1)
	cyl := CreateCylinder(1, 1, 2, 8, 1)
	if len(cone.Indices) >= len(cyl.Indices) {
		t.Errorf("Cone should have fewer indices than cylinder: %d vs %d", len(cone.Indices), len(cyl.Indices))
	}
	if err := cone.Validate(); err != nil {
		t.Errorf("Cone should validate: %v", err)
	}
}

func TestComputeBounds(t *testing.T) {
	pts := []mgl32.Vec3{{1, 2, 3}, {-4, 0, 1}, {2, -5, 8}}
	b := ComputeBounds(pts)
	if b.Min != (mgl32.Vec3{-4, -5, 1}) {
		t.Errorf("Min %v", b.Min)
	}
	if b.Max != (mgl32.Vec3{2, 2, 8}) {
		t.Errorf("Max %v", b.Max)
	}

	empty := ComputeBounds(nil)
	if empty.Min != (mgl32.Vec3{}) || empty.Max != (mgl32.Vec3{}) {
		t.Errorf("Empty bounds should be zero, got %v..%v", empty.Min, empty.Max)
	}
}

func TestCalculateTangents(t *testing.T) {
	box := CreateBox(2, 2, 2)
	CalculateTangents(box)

	if len(box.Tangents) != box.VertexCount() {
		t.Fatalf("Expected %d tangents, got %d", box.VertexCount(), len(box.Tangents))
	}
	var nonZero int
	for _, tan := range box.Tangents {
		if tan.Len() > 0.5 {
			nonZero++
		}
	}
	if nonZero != len(box.Tangents) {
		t.Errorf("Expected all tangents non-zero, got %d of %d", nonZero, len(box.Tangents))
	}
}

func TestMergeMeshes(t *testing.T) {
	a := CreateBox(2, 2, 2)
	b := CreateSphere(1, 8, 6)
	merged := MergeMeshes(a, b)

	if got := merged.VertexCount(); got != a.VertexCount()+b.VertexCount() {
		t.Errorf("Expected %d vertices, got %d", a.VertexCount()+b.VertexCount(), got)
	}
	if got := len(merged.Indices); got != len(a.Indices)+len(b.Indices) {
		t.Errorf("Expected %d indices, got %d", len(a.Indices)+len(b.Indices), got)
	}
	if err := merged.Validate(); err != nil {
		t.Errorf("Merged mesh should validate: %v", err)
	}

	// indices of the second mesh must be offset past the first
	for _, idx := range merged.Indices[len(a.Indices):] {
		if int(idx) < a.VertexCount() {
			t.Fatalf("Second mesh index %d not offset", idx)
		}
	}

	union := a.Bounds.Union(b.Bounds)
	if merged.Bounds != union {
		t.Errorf("Merged bounds %v, expected union %v", merged.Bounds, union)
	}
}
