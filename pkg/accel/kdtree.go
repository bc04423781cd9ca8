// Package accel implements whole-scene ray intersection acceleration.
package accel

import (
	"math"
	"sort"

	"github.com/ekarpp/spuristo/pkg/core"
)

const (
	costTraverse  = 15.0
	costIntersect = 20.0
	emptyBonus    = 0.2
)

// KDTree is a surface-area-heuristic kd-tree over a fixed set of shapes.
// Construction follows the quasi-merge sweep described by Amsallem and used
// by fogleman/pt and ekzhang/rpt: for each axis, sort the shapes' min/max
// extents once and sweep a candidate split plane through every endpoint,
// tracking the running shape counts on either side so each candidate's SAH
// cost is O(1) to evaluate.
type KDTree struct {
	shapes   []core.Shape
	bounds   []core.AABB
	boundary core.AABB
	root     *kdNode
}

type kdNode struct {
	// leaf node when indices != nil
	indices []int

	// split node otherwise
	axis        int
	point       float64
	left, right *kdNode
}

// NewKDTree builds a kd-tree over shapes. The tree keeps the shapes slice
// itself, not a copy: later writes to its backing array change what the
// tree intersects.
func NewKDTree(shapes []core.Shape) *KDTree {
	if len(shapes) == 0 {
		return &KDTree{}
	}

	bounds := make([]core.AABB, len(shapes))
	boundary := shapes[0].BoundingBox()
	bounds[0] = boundary
	for i := 1; i < len(shapes); i++ {
		bounds[i] = shapes[i].BoundingBox()
		boundary = boundary.Union(bounds[i])
	}

	indices := make([]int, len(shapes))
	for i := range indices {
		indices[i] = i
	}

	t := &KDTree{shapes: shapes, bounds: bounds, boundary: boundary}
	t.root = t.construct(boundary, indices)
	return t
}

// BoundingBox returns the box enclosing every shape in the tree.
func (t *KDTree) BoundingBox() core.AABB {
	return t.boundary
}

// Hit finds the closest intersection among all shapes in the tree.
func (t *KDTree) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	if t.root == nil {
		return nil, false
	}

	tStart, tEnd, ok := t.boundary.IntersectInterval(ray, tMin, tMax)
	if !ok || tStart > tEnd {
		return nil, false
	}

	return t.hitSubtree(t.root, ray, tStart, tEnd, t.boundary)
}

func (t *KDTree) hitSubtree(node *kdNode, ray core.Ray, tMin, tMax float64, box core.AABB) (*core.HitRecord, bool) {
	if node.indices != nil {
		var best *core.HitRecord
		tClosest := tMax
		for _, idx := range node.indices {
			if hit, ok := t.shapes[idx].Hit(ray, tMin, tClosest); ok {
				best = hit
				tClosest = hit.T
			}
		}
		return best, best != nil
	}

	origin := axisComponent(ray.Origin, node.axis)
	direction := axisComponent(ray.Direction, node.axis)
	tSplit := (node.point - origin) / direction

	boxFirst, boxSecond := box.Split(node.axis, node.point)
	nodeFirst, nodeSecond := node.left, node.right

	leftFirst := origin < node.point || (origin == node.point && direction <= 0)
	if !leftFirst {
		boxFirst, boxSecond = boxSecond, boxFirst
		nodeFirst, nodeSecond = nodeSecond, nodeFirst
	}

	tStart, tEnd := math.Max(tMin, tMin), math.Min(tMax, tMax)

	switch {
	case tSplit > tEnd || tSplit <= 0:
		// Figure 4.19(a) in PBR: the ray only reaches the near child.
		return t.hitSubtree(nodeFirst, ray, tStart, tEnd, boxFirst)
	case tSplit < tStart:
		// Figure 4.19(b): the ray only reaches the far child.
		return t.hitSubtree(nodeSecond, ray, tStart, tEnd, boxSecond)
	default:
		if hit, ok := t.hitSubtree(nodeFirst, ray, tStart, tSplit, boxFirst); ok {
			return hit, true
		}
		hit2, ok2 := t.hitSubtree(nodeSecond, ray, tSplit, tEnd, boxSecond)
		return hit2, ok2
	}
}

func axisComponent(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func sahCost(boundary core.AABB, axis int, point float64, numLeft, numRight int) float64 {
	min, max := boundary.AxisBounds(axis)
	if point <= min || point >= max {
		return math.Inf(1)
	}

	left, right := boundary.Split(axis, point)
	area := boundary.SurfaceArea()

	cost := costTraverse + costIntersect*(float64(numLeft)*left.SurfaceArea()/area+
		float64(numRight)*right.SurfaceArea()/area)

	if numLeft == 0 || numRight == 0 {
		cost *= 1.0 - emptyBonus
	}
	return cost
}

// findBestSplit sweeps the sorted min/max endpoints of the candidate boxes
// along each axis, returning the split with lowest SAH cost.
func (t *KDTree) findBestSplit(boxes []core.AABB, boundary core.AABB) (axis int, point, cost float64) {
	bestCost := math.Inf(1)
	bestPoint := math.Inf(1)
	bestAxis := 0

	for a := 0; a < 3; a++ {
		mins := make([]float64, len(boxes))
		maxs := make([]float64, len(boxes))
		for i, box := range boxes {
			mins[i], maxs[i] = box.AxisBounds(a)
		}
		sort.Float64s(mins)
		sort.Float64s(maxs)

		numLeft := 0
		numRight := len(boxes)
		minIdx, maxIdx := 0, 0

		mins = append(mins, math.Inf(1))
		maxs = append(maxs, math.Inf(1))

		for mins[minIdx] < math.Inf(1) || maxs[maxIdx] < math.Inf(1) {
			isMin := mins[minIdx] <= maxs[maxIdx]
			point := math.Min(mins[minIdx], maxs[maxIdx])

			if !isMin {
				maxIdx++
				numRight--
			}

			cost := sahCost(boundary, a, point, numLeft, numRight)
			if cost < bestCost {
				bestCost = cost
				bestAxis = a
				bestPoint = point
			}

			if isMin {
				minIdx++
				numLeft++
			}
		}
	}

	return bestAxis, bestPoint, bestCost
}

func partition(boxes []core.AABB, indices []int, axis int, point float64) (left, right []int) {
	for i, idx := range indices {
		min, max := boxes[i].AxisBounds(axis)
		if min < point {
			left = append(left, idx)
		}
		if max > point {
			right = append(right, idx)
		}
	}
	return left, right
}

func (t *KDTree) construct(boundary core.AABB, indices []int) *kdNode {
	boxes := make([]core.AABB, len(indices))
	for i, idx := range indices {
		boxes[i] = t.bounds[idx]
	}

	axis, point, cost := t.findBestSplit(boxes, boundary)
	if cost > costIntersect*float64(len(indices)) {
		return &kdNode{indices: indices}
	}

	leftIdx, rightIdx := partition(boxes, indices, axis, point)
	if len(leftIdx) == 0 || len(rightIdx) == 0 {
		return &kdNode{indices: indices}
	}
	leftBound, rightBound := boundary.Split(axis, point)

	return &kdNode{
		axis:  axis,
		point: point,
		left:  t.construct(leftBound, leftIdx),
		right: t.construct(rightBound, rightIdx),
	}
}
