package reko

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/reko3d/reko/render/core"
)

func TestOrbitRotateClampsElevation(t *testing.T) {
	c := NewOrbitController()

	c.Rotate(0, 1e6)
	assert.Equal(t, maxElevation, c.State().Elevation)
	c.Rotate(0, -1e6)
	assert.Equal(t, -maxElevation, c.State().Elevation)
}

func TestOrbitZoomFloor(t *testing.T) {
	c := NewOrbitController()

	c.Zoom(1)
	assert.Less(t, c.State().Distance, float32(15), "zooming in shortens the distance")

	c.Zoom(1e4)
	assert.Equal(t, float32(minOrbitDistance), c.State().Distance)

	c.Zoom(-3)
	assert.Greater(t, c.State().Distance, float32(minOrbitDistance))
}

func TestOrbitPanScalesWithDistance(t *testing.T) {
	near := NewOrbitController()
	near.SetState(OrbitState{Distance: 1, Elevation: 0.3, Azimuth: 0.5})
	far := NewOrbitController()
	far.SetState(OrbitState{Distance: 100, Elevation: 0.3, Azimuth: 0.5})

	near.Pan(50, 0)
	far.Pan(50, 0)

	nearMoved := near.State().Target.Len()
	farMoved := far.State().Target.Len()
	assert.InDelta(t, 100, farMoved/nearMoved, 1e-3, "pan offset tracks distance")
}

func TestOrbitFocusOn(t *testing.T) {
	c := NewOrbitController()
	c.FocusOn(mgl32.Vec3{1, 2, 3}, 8)

	s := c.State()
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, s.Target)
	assert.Equal(t, float32(8), s.Distance)

	c.FocusOn(mgl32.Vec3{}, 0)
	assert.Equal(t, float32(8), c.State().Distance, "non-positive distance keeps the old one")
}

func TestOrbitSetStateSnaps(t *testing.T) {
	c := NewOrbitController()
	want := OrbitState{Target: mgl32.Vec3{5, 0, 5}, Azimuth: 1, Elevation: 0.5, Distance: 20}
	c.SetState(want)

	assert.Equal(t, want, c.State())

	// snapping means Apply reflects the pose with no Update needed
	cam := core.NewCamera()
	c.Apply(cam)
	assert.InDelta(t, 20, float64(cam.Position.Sub(cam.Target).Len()), 1e-3)

	c.SetState(OrbitState{Elevation: 10, Distance: -1})
	assert.Equal(t, maxElevation, c.State().Elevation)
	assert.Equal(t, float32(minOrbitDistance), c.State().Distance)
}

func TestOrbitUpdateConverges(t *testing.T) {
	c := NewOrbitController()
	c.SetState(OrbitState{Distance: 10})
	c.FocusOn(mgl32.Vec3{4, 0, 0}, 10)

	cam := core.NewCamera()
	c.Apply(cam)
	before := cam.Target

	// half a second of 60Hz steps closes most of the gap
	for i := 0; i < 30; i++ {
		c.Update(1.0 / 60)
	}
	c.Apply(cam)
	assert.Greater(t, cam.Target.X(), before.X())

	for i := 0; i < 600; i++ {
		c.Update(1.0 / 60)
	}
	c.Apply(cam)
	assert.InDelta(t, 4, float64(cam.Target.X()), 1e-2, "damped pose reaches the goal")
}

func TestOrbitUpdateFramerateIndependent(t *testing.T) {
	a := NewOrbitController()
	a.SetState(OrbitState{Distance: 10})
	a.FocusOn(mgl32.Vec3{10, 0, 0}, 10)

	b := NewOrbitController()
	b.SetState(OrbitState{Distance: 10})
	b.FocusOn(mgl32.Vec3{10, 0, 0}, 10)

	// one second at 60Hz versus one second at 20Hz
	for i := 0; i < 60; i++ {
		a.Update(1.0 / 60)
	}
	for i := 0; i < 20; i++ {
		b.Update(1.0 / 20)
	}

	camA := core.NewCamera()
	camB := core.NewCamera()
	a.Apply(camA)
	b.Apply(camB)
	assert.InDelta(t, float64(camA.Target.X()), float64(camB.Target.X()), 0.15)
}

func TestOrbitApplyGeometry(t *testing.T) {
	c := NewOrbitController()
	c.SetState(OrbitState{
		Target:    mgl32.Vec3{0, 1, 0},
		Azimuth:   0,
		Elevation: 0,
		Distance:  5,
	})

	cam := core.NewCamera()
	c.Apply(cam)

	// azimuth 0, elevation 0 places the camera on +Z of the target
	assert.InDelta(t, 0, float64(cam.Position.X()), 1e-5)
	assert.InDelta(t, 1, float64(cam.Position.Y()), 1e-5)
	assert.InDelta(t, 5, float64(cam.Position.Z()), 1e-5)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, cam.Target)

	c.SetState(OrbitState{Elevation: math32.Pi / 4, Distance: 5})
	c.Apply(cam)
	assert.InDelta(t, 5*math32.Sin(math32.Pi/4), float64(cam.Position.Y()), 1e-4)
}
