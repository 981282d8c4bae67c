package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a look-at camera. Matrices are derived on demand; nothing is
// cached across frames, so mutating fields between frames is always safe.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	Fov    float32 // vertical, radians
	Aspect float32
	Near   float32
	Far    float32
}

func NewCamera() *Camera {
	return &Camera{
		Position: mgl32.Vec3{0, 5, 10},
		Up:       mgl32.Vec3{0, 1, 0},
		Fov:      mgl32.DegToRad(60),
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      1000,
	}
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.Fov, c.Aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

func (c *Camera) Forward() mgl32.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// ScreenCoverage approximates the fraction of the viewport height a sphere
// of the given radius covers at the given distance.
func (c *Camera) ScreenCoverage(radius, distance float32) float32 {
	if distance <= 0 {
		return 1
	}
	return (2 * radius) / (2 * distance * math32.Tan(c.Fov/2))
}
