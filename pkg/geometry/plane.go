package geometry

import (
	"math"

	"github.com/ekarpp/spuristo/pkg/core"
)

// planeParallelEpsilon bounds how close to zero ray·normal can get before a
// ray is treated as parallel to the plane and reported as a miss.
const planeParallelEpsilon = 1e-8

// Plane is an infinite flat surface through Point, oriented by Normal.
type Plane struct {
	Point    core.Vec3
	Normal   core.Vec3
	Material core.Material
}

func NewPlane(point, normal core.Vec3, material core.Material) *Plane {
	return &Plane{Point: point, Normal: normal.Normalize(), Material: material}
}

// Hit solves t = (Point - ray.Origin)·Normal / (ray.Direction·Normal) for
// the ray-plane intersection parameter.
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	denom := ray.Direction.Dot(p.Normal)
	if math.Abs(denom) < planeParallelEpsilon {
		return nil, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denom
	if t < tMin || t > tMax {
		return nil, false
	}

	hitRecord := &core.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: p.Material,
	}
	hitRecord.SetFaceNormal(ray, p.Normal)

	return hitRecord, true
}
