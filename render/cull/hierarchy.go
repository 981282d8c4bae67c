package cull

import (
	"sort"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/reko3d/reko/render/core"
)

// HierarchyNode is one node of a caller-supplied bounding-volume tree.
// Interior nodes list child ids; leaves carry the renderable id.
type HierarchyNode struct {
	Bounds   core.AABB
	Children []string
	Leaf     bool
}

// CullHierarchical walks the tree depth-first from the given roots,
// pruning whole subtrees whose bounds fail the frustum test. Every leaf
// id reachable through passing nodes lands in the visible set.
func CullHierarchical(nodes map[string]HierarchyNode, roots []string, planes Frustum) map[string]bool {
	visible := make(map[string]bool)
	var walk func(id string)
	walk = func(id string) {
		node, ok := nodes[id]
		if !ok {
			return
		}
		if !TestAABB(node.Bounds, planes) {
			return
		}
		if node.Leaf {
			visible[id] = true
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return visible
}

// BuildHierarchy builds a median-split BVH over the objects' world bounds
// and returns it in CullHierarchical's map form. Interior node ids are
// synthesized; leaf ids are the objects' own.
func BuildHierarchy(objects []*core.RenderableObject) (map[string]HierarchyNode, []string) {
	nodes := make(map[string]HierarchyNode)
	if len(objects) == 0 {
		return nodes, nil
	}

	type item struct {
		id       string
		bounds   core.AABB
		centroid mgl32.Vec3
	}
	items := make([]item, len(objects))
	for i, obj := range objects {
		b := obj.WorldBounds()
		items[i] = item{id: obj.ID, bounds: b, centroid: b.Center()}
	}

	interior := 0
	var build func(items []item) string
	build = func(items []item) string {
		bounds := items[0].bounds
		for _, it := range items[1:] {
			bounds = bounds.Union(it.bounds)
		}

		if len(items) == 1 {
			nodes[items[0].id] = HierarchyNode{Bounds: bounds, Leaf: true}
			return items[0].id
		}

		// split on the longest extent axis at the median centroid
		extent := bounds.Max.Sub(bounds.Min)
		axis := 0
		if extent.Y() > extent.X() {
			axis = 1
		}
		if extent.Z() > extent[axis] {
			axis = 2
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].centroid[axis] < items[j].centroid[axis]
		})

		mid := len(items) / 2
		left := build(items[:mid])
		right := build(items[mid:])

		interior++
		id := "bvh:" + strconv.Itoa(interior)
		nodes[id] = HierarchyNode{Bounds: bounds, Children: []string{left, right}}
		return id
	}

	root := build(items)
	return nodes, []string{root}
}

// DistanceToPoint is the centroid distance used for LOD and sort keys.
func DistanceToPoint(b core.AABB, p mgl32.Vec3) float32 {
	d := b.Center().Sub(p)
	return math32.Sqrt(d.X()*d.X() + d.Y()*d.Y() + d.Z()*d.Z())
}
