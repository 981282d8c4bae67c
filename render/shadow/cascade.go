// Package shadow computes cascaded shadow-map splits and the per-cascade
// light matrices. The view frustum is partitioned into depth ranges, each
// rendered into its own depth map from the light's perspective, trading
// shadow resolution against view distance.
package shadow

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/reko3d/reko/render/backend"
	"github.com/reko3d/reko/render/core"
)

const (
	DefaultCascadeCount = 4
	DefaultMapSize      = 2048

	// splitLambda blends logarithmic and uniform partitioning. 0 is all
	// uniform, 1 all logarithmic.
	splitLambda float32 = 0.5
)

// Cascade is one depth slice: its light-space matrix, the far edge of the
// slice, and the depth map it renders into.
type Cascade struct {
	ViewProjection mgl32.Mat4
	SplitDistance  float32
	Map            backend.TargetHandle
}

// Mapper owns the cascade shadow maps. Maps are created up front and only
// recreated when the count or resolution configuration changes.
type Mapper struct {
	backend  backend.GraphicsBackend
	cascades []Cascade
	count    int
	mapSize  uint32
}

func NewMapper(b backend.GraphicsBackend, count int, mapSize uint32) (*Mapper, error) {
	if count < 1 {
		count = DefaultCascadeCount
	}
	if mapSize == 0 {
		mapSize = DefaultMapSize
	}
	m := &Mapper{backend: b, count: count, mapSize: mapSize}
	if err := m.createMaps(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mapper) createMaps() error {
	m.cascades = make([]Cascade, m.count)
	for i := range m.cascades {
		h, err := m.backend.CreateTarget(backend.TargetDesc{
			Label:  fmt.Sprintf("shadow cascade %d", i),
			Width:  m.mapSize,
			Height: m.mapSize,
			Format: backend.TextureDepth32Float,
		})
		if err != nil {
			m.Dispose()
			return fmt.Errorf("shadow: cascade %d map: %w", i, err)
		}
		m.cascades[i].Map = h
	}
	return nil
}

// Reconfigure recreates the maps for a new count/resolution. A no-op when
// nothing changed.
func (m *Mapper) Reconfigure(count int, mapSize uint32) error {
	if count == m.count && mapSize == m.mapSize {
		return nil
	}
	m.Dispose()
	if count >= 1 {
		m.count = count
	}
	if mapSize > 0 {
		m.mapSize = mapSize
	}
	return m.createMaps()
}

func (m *Mapper) Cascades() []Cascade { return m.cascades }
func (m *Mapper) Count() int          { return m.count }

// CalculateSplitDistances blends logarithmic and uniform partitioning:
// split_i = λ·near·(far/near)^(i/N) + (1−λ)·(near + (far−near)·i/N).
// The sequence is strictly increasing and ends exactly at far, where both
// schemes collapse to far.
func CalculateSplitDistances(near, far float32, count int) []float32 {
	splits := make([]float32, count)
	for i := 1; i <= count; i++ {
		ratio := float32(i) / float32(count)
		cLog := near * math32.Pow(far/near, ratio)
		cUniform := near + (far-near)*ratio
		splits[i-1] = splitLambda*cLog + (1-splitLambda)*cUniform
	}
	splits[count-1] = far
	return splits
}

// UpdateCascades recomputes split distances and light matrices for the
// current camera and a directional light.
func (m *Mapper) UpdateCascades(camera *core.Camera, light core.Light) {
	splits := CalculateSplitDistances(camera.Near, camera.Far, m.count)

	nearDist := camera.Near
	for i := range m.cascades {
		farDist := splits[i]
		m.cascades[i].SplitDistance = farDist
		m.cascades[i].ViewProjection = cascadeMatrix(camera, light.Direction, nearDist, farDist)
		nearDist = farDist
	}
}

// cascadeMatrix fits an orthographic light frustum around one camera
// slice. The light-space Z range is extended backward by its own depth so
// casters just behind the slice still land in the map.
func cascadeMatrix(camera *core.Camera, lightDir mgl32.Vec3, nearDist, farDist float32) mgl32.Mat4 {
	corners := sliceCorners(camera, nearDist, farDist)

	center := mgl32.Vec3{}
	for _, c := range corners {
		center = center.Add(c)
	}
	center = center.Mul(1.0 / float32(len(corners)))

	dir := lightDir
	if dir.Len() == 0 {
		dir = mgl32.Vec3{0, -1, 0}
	}
	dir = dir.Normalize()

	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(dir.Dot(up)) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	lightView := mgl32.LookAtV(center.Sub(dir), center, up)

	minB := mgl32.Vec3{math32.Inf(1), math32.Inf(1), math32.Inf(1)}
	maxB := mgl32.Vec3{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)}
	for _, c := range corners {
		p := mgl32.TransformCoordinate(c, lightView)
		minB = mgl32.Vec3{math32.Min(minB.X(), p.X()), math32.Min(minB.Y(), p.Y()), math32.Min(minB.Z(), p.Z())}
		maxB = mgl32.Vec3{math32.Max(maxB.X(), p.X()), math32.Max(maxB.Y(), p.Y()), math32.Max(maxB.Z(), p.Z())}
	}

	// pull the near plane back by the slice's own depth range
	depth := maxB.Z() - minB.Z()
	lightProj := mgl32.Ortho(
		minB.X(), maxB.X(),
		minB.Y(), maxB.Y(),
		-(maxB.Z() + depth), -minB.Z(),
	)
	return lightProj.Mul4(lightView)
}

// sliceCorners reconstructs the 8 world-space corners of the camera
// frustum slice [nearDist, farDist).
func sliceCorners(camera *core.Camera, nearDist, farDist float32) [8]mgl32.Vec3 {
	forward := camera.Forward()
	right := forward.Cross(camera.Up).Normalize()
	up := right.Cross(forward).Normalize()

	tanHalf := math32.Tan(camera.Fov / 2)

	var corners [8]mgl32.Vec3
	idx := 0
	for _, dist := range [2]float32{nearDist, farDist} {
		halfH := tanHalf * dist
		halfW := halfH * camera.Aspect
		center := camera.Position.Add(forward.Mul(dist))
		for _, sy := range [2]float32{-1, 1} {
			for _, sx := range [2]float32{-1, 1} {
				corners[idx] = center.Add(right.Mul(sx * halfW)).Add(up.Mul(sy * halfH))
				idx++
			}
		}
	}
	return corners
}

// Dispose releases every cascade map.
func (m *Mapper) Dispose() {
	for i := range m.cascades {
		if m.cascades[i].Map.Valid() {
			m.backend.DestroyTarget(m.cascades[i].Map)
			m.cascades[i].Map = 0
		}
	}
}
