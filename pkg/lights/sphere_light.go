package lights

import (
	"math"

	"github.com/ekarpp/spuristo/pkg/core"
	"github.com/ekarpp/spuristo/pkg/geometry"
)

// SphereLight is a spherical area light, sampled over the visible cone when
// the shading point lies outside the sphere.
type SphereLight struct {
	*geometry.Sphere
}

// NewSphereLight creates a spherical light.
func NewSphereLight(center core.Vec3, radius float64, mat core.Material) *SphereLight {
	return &SphereLight{Sphere: geometry.NewSphere(center, radius, mat)}
}

// Sample implements core.Light.
func (sl *SphereLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) core.LightSample {
	toCenter := sl.Center.Subtract(point)
	distanceToCenter := toCenter.Length()

	if distanceToCenter <= sl.Radius {
		return sl.sampleUniform(point, sample)
	}
	return sl.sampleVisible(point, distanceToCenter, toCenter, sample)
}

func (sl *SphereLight) sampleUniform(point core.Vec3, sample core.Vec2) core.LightSample {
	z := 1.0 - 2.0*sample.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	localDir := core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)

	samplePoint := sl.Center.Add(localDir.Multiply(sl.Radius))
	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	direction := toLight.Multiply(1.0 / distance)

	pdf := 1.0 / (4.0 * math.Pi * sl.Radius * sl.Radius)

	return core.LightSample{
		Point:     samplePoint,
		Normal:    localDir,
		Direction: direction,
		Distance:  distance,
		Emission:  sl.Emit(core.NewRay(point, direction)),
		PDF:       pdf,
	}
}

func (sl *SphereLight) sampleVisible(point core.Vec3, distanceToCenter float64, toCenter core.Vec3, sample core.Vec2) core.LightSample {
	w := toCenter.Normalize()
	var u core.Vec3
	if math.Abs(w.X) > 0.1 {
		u = core.NewVec3(0, 1, 0)
	} else {
		u = core.NewVec3(1, 0, 0)
	}
	u = u.Cross(w).Normalize()
	v := w.Cross(u)

	sinThetaMax := sl.Radius / distanceToCenter
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))

	cosTheta := 1.0 - sample.X*(1.0-cosThetaMax)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y

	direction := u.Multiply(sinTheta * math.Cos(phi)).Add(v.Multiply(sinTheta * math.Sin(phi))).Add(w.Multiply(cosTheta))

	ray := core.NewRay(point, direction)
	hit, ok := sl.Sphere.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		return sl.sampleUniform(point, sample)
	}

	pdf := 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))

	return core.LightSample{
		Point:     hit.Point,
		Normal:    hit.Normal,
		Direction: direction,
		Distance:  hit.T,
		Emission:  sl.Emit(ray),
		PDF:       pdf,
	}
}

// PDF implements core.Light.
func (sl *SphereLight) PDF(point, normal, direction core.Vec3) float64 {
	ray := core.NewRay(point, direction)
	if _, ok := sl.Sphere.Hit(ray, 0.001, math.Inf(1)); !ok {
		return 0.0
	}

	toCenter := sl.Center.Subtract(point)
	distanceToCenter := toCenter.Length()
	if distanceToCenter <= sl.Radius {
		return 1.0 / (4.0 * math.Pi * sl.Radius * sl.Radius)
	}

	sinThetaMax := sl.Radius / distanceToCenter
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))
	return 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))
}

// Emit implements core.Light by deferring to the sphere's material.
func (sl *SphereLight) Emit(ray core.Ray) core.Vec3 {
	if emitter, ok := sl.Material.(core.Emitter); ok {
		return emitter.Emit(ray)
	}
	return core.Vec3{}
}
