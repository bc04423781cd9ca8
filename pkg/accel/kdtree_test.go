package accel

import (
	"math"
	"testing"

	"github.com/ekarpp/spuristo/pkg/core"
)

// sphereShape is a minimal core.Shape used only to exercise the tree without
// depending on pkg/geometry.
type sphereShape struct {
	center core.Vec3
	radius float64
}

func (s *sphereShape) BoundingBox() core.AABB {
	r := core.NewVec3(s.radius, s.radius, s.radius)
	return core.NewAABB(s.center.Subtract(r), s.center.Add(r))
}

func (s *sphereShape) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	oc := ray.Origin.Subtract(s.center)
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.radius*s.radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return nil, false
	}
	sqrtDisc := math.Sqrt(disc)
	t := (-halfB - sqrtDisc) / a
	if t < tMin || t > tMax {
		t = (-halfB + sqrtDisc) / a
		if t < tMin || t > tMax {
			return nil, false
		}
	}
	hit := &core.HitRecord{T: t, Point: ray.At(t)}
	hit.SetFaceNormal(ray, hit.Point.Subtract(s.center).Normalize())
	return hit, true
}

func gridOfSpheres(n int) []core.Shape {
	shapes := make([]core.Shape, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			shapes = append(shapes, &sphereShape{
				center: core.NewVec3(float64(i)*3, float64(j)*3, 0),
				radius: 1,
			})
		}
	}
	return shapes
}

func TestKDTreeEmpty(t *testing.T) {
	tree := NewKDTree(nil)
	if _, ok := tree.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), 0, math.Inf(1)); ok {
		t.Fatal("expected no hit against an empty tree")
	}
}

func TestKDTreeHitsClosestSphere(t *testing.T) {
	shapes := gridOfSpheres(6)
	tree := NewKDTree(shapes)

	ray := core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 1))
	hit, ok := tree.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(hit.Point.Z-(-1)) > 1e-6 {
		t.Errorf("expected to hit the near pole of the origin sphere, got point %v", hit.Point)
	}
}

func TestKDTreeMatchesBruteForce(t *testing.T) {
	shapes := gridOfSpheres(8)
	tree := NewKDTree(shapes)

	rays := []core.Ray{
		core.NewRay(core.NewVec3(-5, -5, -10), core.NewVec3(0.3, 0.2, 1).Normalize()),
		core.NewRay(core.NewVec3(10, 10, -10), core.NewVec3(-0.1, -0.1, 1).Normalize()),
		core.NewRay(core.NewVec3(100, 100, 100), core.NewVec3(1, 0, 0)),
	}

	for _, ray := range rays {
		treeHit, treeOK := tree.Hit(ray, 0.001, math.Inf(1))

		var bruteHit *core.HitRecord
		bruteOK := false
		closest := math.Inf(1)
		for _, shape := range shapes {
			if hit, ok := shape.Hit(ray, 0.001, closest); ok {
				bruteHit = hit
				bruteOK = true
				closest = hit.T
			}
		}

		if treeOK != bruteOK {
			t.Fatalf("tree hit=%v, brute force hit=%v for ray %v", treeOK, bruteOK, ray)
		}
		if treeOK && math.Abs(treeHit.T-bruteHit.T) > 1e-6 {
			t.Errorf("tree t=%f, brute force t=%f for ray %v", treeHit.T, bruteHit.T, ray)
		}
	}
}

func TestSAHCostPrefersSplitWithEmptySpace(t *testing.T) {
	boundary := core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(10, 1, 1))
	costEmpty := sahCost(boundary, 0, 5, 0, 4)
	costBalanced := sahCost(boundary, 0, 5, 2, 2)
	if costEmpty >= costBalanced {
		t.Errorf("expected the empty-side split to be cheaper: empty=%f balanced=%f", costEmpty, costBalanced)
	}
}
