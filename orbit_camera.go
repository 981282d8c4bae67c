package reko

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/reko3d/reko/render/core"
)

const (
	minOrbitDistance = 0.1
	maxElevation     = 89 * math32.Pi / 180
)

// OrbitState is the serializable controller pose: where the camera looks
// and from which spherical offset.
type OrbitState struct {
	Target    mgl32.Vec3
	Azimuth   float32 // radians, around +Y
	Elevation float32 // radians, clamped short of the poles
	Distance  float32
}

// OrbitController turns input events (drag, pan, wheel) into a damped
// orbit camera. Events mutate the goal pose; Update eases the actual pose
// toward it, so framerate changes do not change the feel.
type OrbitController struct {
	goal    OrbitState
	current OrbitState

	// Damping in (0,1]: fraction of the remaining distance covered per
	// 60Hz-equivalent step. 1 disables smoothing.
	Damping     float32
	RotateSpeed float32
	PanSpeed    float32
	ZoomSpeed   float32
}

func NewOrbitController() *OrbitController {
	s := OrbitState{
		Azimuth:   math32.Pi / 4,
		Elevation: math32.Pi / 6,
		Distance:  15,
	}
	return &OrbitController{
		goal:        s,
		current:     s,
		Damping:     0.15,
		RotateSpeed: 0.005,
		PanSpeed:    0.0015,
		ZoomSpeed:   0.1,
	}
}

// Rotate applies a drag delta in pixels.
func (c *OrbitController) Rotate(dx, dy float32) {
	c.goal.Azimuth -= dx * c.RotateSpeed
	c.goal.Elevation += dy * c.RotateSpeed
	c.goal.Elevation = clamp(c.goal.Elevation, -maxElevation, maxElevation)
}

// Pan moves the target along the camera's right and up axes. The offset
// scales with distance so a drag covers the same screen-space span at any
// zoom.
func (c *OrbitController) Pan(dx, dy float32) {
	right, up := c.axes()
	scale := c.goal.Distance * c.PanSpeed
	c.goal.Target = c.goal.Target.
		Sub(right.Mul(dx * scale)).
		Add(up.Mul(dy * scale))
}

// Zoom applies wheel (or pinch) steps. Positive steps move in.
func (c *OrbitController) Zoom(steps float32) {
	c.goal.Distance *= math32.Pow(1-c.ZoomSpeed, steps)
	if c.goal.Distance < minOrbitDistance {
		c.goal.Distance = minOrbitDistance
	}
}

// FocusOn re-targets the orbit, keeping the current angles.
func (c *OrbitController) FocusOn(point mgl32.Vec3, distance float32) {
	c.goal.Target = point
	if distance > minOrbitDistance {
		c.goal.Distance = distance
	}
}

func (c *OrbitController) SetAngles(azimuth, elevation float32) {
	c.goal.Azimuth = azimuth
	c.goal.Elevation = clamp(elevation, -maxElevation, maxElevation)
}

// State returns the goal pose; SetState snaps both goal and current to it.
func (c *OrbitController) State() OrbitState { return c.goal }

func (c *OrbitController) SetState(s OrbitState) {
	s.Elevation = clamp(s.Elevation, -maxElevation, maxElevation)
	if s.Distance < minOrbitDistance {
		s.Distance = minOrbitDistance
	}
	c.goal = s
	c.current = s
}

// Update eases the pose toward the goal. The blend factor
// 1-(1-damping)^(dt*60) makes the easing framerate-independent.
func (c *OrbitController) Update(dt float32) {
	t := 1 - math32.Pow(1-c.Damping, dt*60)
	if t > 1 {
		t = 1
	}
	c.current.Target = c.current.Target.Add(c.goal.Target.Sub(c.current.Target).Mul(t))
	c.current.Azimuth += (c.goal.Azimuth - c.current.Azimuth) * t
	c.current.Elevation += (c.goal.Elevation - c.current.Elevation) * t
	c.current.Distance += (c.goal.Distance - c.current.Distance) * t
}

// Apply writes the damped pose into the camera.
func (c *OrbitController) Apply(cam *core.Camera) {
	cam.Target = c.current.Target
	cam.Position = c.current.Target.Add(c.offset(c.current))
	cam.Up = mgl32.Vec3{0, 1, 0}
}

func (c *OrbitController) offset(s OrbitState) mgl32.Vec3 {
	cosEl := math32.Cos(s.Elevation)
	return mgl32.Vec3{
		cosEl * math32.Sin(s.Azimuth),
		math32.Sin(s.Elevation),
		cosEl * math32.Cos(s.Azimuth),
	}.Mul(s.Distance)
}

func (c *OrbitController) axes() (right, up mgl32.Vec3) {
	forward := c.offset(c.goal).Mul(-1).Normalize()
	right = forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up = right.Cross(forward).Normalize()
	return right, up
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
