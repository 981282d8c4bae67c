// Package lod swaps cheaper mesh representations in as an object's screen
// contribution shrinks, cross-fading between levels to hide the switch.
package lod

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"

	"github.com/reko3d/reko/render/core"
)

// DefaultTransitionDuration is the cross-fade length in seconds.
const DefaultTransitionDuration float32 = 0.3

// Level is one detail level. Distance is the far threshold at which this
// level starts applying. A positive ScreenCoverage overrides the distance
// comparison: the level applies while the object covers at least that
// fraction of the screen.
type Level struct {
	Distance       float32
	ScreenCoverage float32
	Mesh           *core.Mesh
}

// Transition is the ephemeral cross-fade record; discarded once Progress
// reaches 1.
type Transition struct {
	FromLevel int
	ToLevel   int
	Progress  float32
}

// Group binds an object's levels to its bounds. Levels are kept sorted
// ascending by distance; Current is always a valid index.
type Group struct {
	ID      string
	Levels  []Level
	Current int
	Bounds  core.Sphere

	forced     bool
	transition *Transition
}

// System selects levels for all registered groups once per frame.
type System struct {
	groups             map[string]*Group
	transitionDuration float32
}

func NewSystem() *System {
	return &System{
		groups:             make(map[string]*Group),
		transitionDuration: DefaultTransitionDuration,
	}
}

// RegisterGroup stores the group after sorting its levels ascending by
// distance. A group needs at least one level.
func (s *System) RegisterGroup(g *Group) error {
	if len(g.Levels) == 0 {
		return fmt.Errorf("lod: group %q has no levels", g.ID)
	}
	sort.SliceStable(g.Levels, func(i, j int) bool {
		return g.Levels[i].Distance < g.Levels[j].Distance
	})
	if g.Current < 0 || g.Current >= len(g.Levels) {
		g.Current = 0
	}
	s.groups[g.ID] = g
	return nil
}

func (s *System) UnregisterGroup(id string) {
	delete(s.groups, id)
}

func (s *System) Group(id string) (*Group, bool) {
	g, ok := s.groups[id]
	return g, ok
}

// SelectLevel picks the first level, in ascending distance order, whose
// threshold the object satisfies. Coverage-thresholded levels match while
// the object still covers enough screen; distance levels match once the
// object is within their distance. Nothing matching selects the coarsest
// level. Holding coverage constant, the result is non-decreasing in
// distance.
func SelectLevel(levels []Level, distance, coverage float32) int {
	for i, level := range levels {
		if level.ScreenCoverage > 0 {
			if coverage >= level.ScreenCoverage {
				return i
			}
			continue
		}
		if distance <= level.Distance {
			return i
		}
	}
	return len(levels) - 1
}

// Update runs selection for every group and advances transitions.
func (s *System) Update(camera *core.Camera, dt float32) {
	for _, g := range s.groups {
		if g.transition != nil {
			g.transition.Progress += dt / s.transitionDuration
			if g.transition.Progress >= 1 {
				g.transition = nil
			}
		}

		if g.forced {
			continue
		}

		distance := g.Bounds.Center.Sub(camera.Position).Len()
		coverage := camera.ScreenCoverage(g.Bounds.Radius, distance)
		next := SelectLevel(g.Levels, distance, coverage)
		if next == g.Current {
			continue
		}

		g.transition = &Transition{FromLevel: g.Current, ToLevel: next}
		g.Current = next
	}
}

// ForceLevel pins a group to one level, cancelling any in-flight
// transition. Out-of-range indexes are clamped.
func (s *System) ForceLevel(id string, level int) {
	g, ok := s.groups[id]
	if !ok {
		return
	}
	if level < 0 {
		level = 0
	}
	if level >= len(g.Levels) {
		level = len(g.Levels) - 1
	}
	g.Current = level
	g.forced = true
	g.transition = nil
}

// ReleaseLevel returns a forced group to automatic selection.
func (s *System) ReleaseLevel(id string) {
	if g, ok := s.groups[id]; ok {
		g.forced = false
	}
}

// BlendState reports what to draw for a group: the current mesh, the mesh
// being faded out (nil when no transition), and the eased blend factor
// for the incoming level.
func (g *Group) BlendState() (current, fading *core.Mesh, blend float32) {
	current = g.Levels[g.Current].Mesh
	if g.transition == nil {
		return current, nil, 1
	}
	return current, g.Levels[g.transition.FromLevel].Mesh, easeCubic(g.transition.Progress)
}

// easeCubic is cubic in/out: 4t^3 below the midpoint, mirrored above.
func easeCubic(t float32) float32 {
	if t < 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// CalculateOptimalDistances spaces level thresholds geometrically from
// the object's size: bigger objects hold detail farther out.
func CalculateOptimalDistances(radius float32, count int) []float32 {
	if count <= 0 {
		return nil
	}
	base := math32.Max(radius*10, 5)
	out := make([]float32, count)
	for i := 0; i < count; i++ {
		out[i] = base * math32.Pow(2, float32(i))
	}
	return out
}

// GenerateLevels pairs meshes (finest first) with optimal distances for
// an object of the given radius.
func GenerateLevels(meshes []*core.Mesh, radius float32) []Level {
	distances := CalculateOptimalDistances(radius, len(meshes))
	levels := make([]Level, len(meshes))
	for i, m := range meshes {
		levels[i] = Level{Distance: distances[i], Mesh: m}
	}
	return levels
}

// GroupFor builds a group from an object's bounds and levels.
func GroupFor(id string, bounds core.AABB, levels []Level) *Group {
	return &Group{
		ID:     id,
		Levels: levels,
		Bounds: bounds.BoundingSphere(),
	}
}
