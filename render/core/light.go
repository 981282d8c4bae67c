package core

import "github.com/go-gl/mathgl/mgl32"

type LightType uint32

const (
	LightDirectional LightType = iota
	LightPoint
	LightSpot
)

type Light struct {
	Type      LightType
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Color     [3]float32
	Intensity float32
	Range     float32
	ConeAngle float32
	Shadows   bool
}
