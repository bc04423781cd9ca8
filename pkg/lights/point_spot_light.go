package lights

import (
	"math"

	"github.com/ekarpp/spuristo/pkg/core"
)

// PointSpotLight is a delta (zero-area) light with a cone falloff, useful
// for caustics and quick test scenes where an area light's cost isn't
// warranted.
type PointSpotLight struct {
	position        core.Vec3
	direction       core.Vec3
	emission        core.Vec3
	cosTotalWidth   float64
	cosFalloffStart float64
}

// NewPointSpotLight creates a spot light at from, aimed at to, with the
// given cone and falloff-transition angles in degrees.
func NewPointSpotLight(from, to, emission core.Vec3, coneAngleDegrees, coneDeltaAngleDegrees float64) *PointSpotLight {
	direction := to.Subtract(from).Normalize()
	totalWidthRadians := coneAngleDegrees * math.Pi / 180.0
	falloffStartRadians := (coneAngleDegrees - coneDeltaAngleDegrees) * math.Pi / 180.0

	return &PointSpotLight{
		position:        from,
		direction:       direction,
		emission:        emission,
		cosTotalWidth:   math.Cos(totalWidthRadians),
		cosFalloffStart: math.Cos(falloffStartRadians),
	}
}

func (sl *PointSpotLight) falloff(cosAngle float64) float64 {
	if cosAngle < sl.cosTotalWidth {
		return 0.0
	}
	if cosAngle >= sl.cosFalloffStart {
		return 1.0
	}
	delta := (cosAngle - sl.cosTotalWidth) / (sl.cosFalloffStart - sl.cosTotalWidth)
	return delta * delta * delta * delta
}

// Sample implements core.Light. A spot light is a delta distribution: PDF is
// a nominal 1 and the integrator must treat it like any other specular
// connection (no MIS weighting against BSDF sampling).
func (sl *PointSpotLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) core.LightSample {
	toLightVec := sl.position.Subtract(point)
	distance := toLightVec.Length()
	if distance == 0 {
		return core.LightSample{Point: sl.position, Normal: sl.direction, Direction: sl.direction, PDF: 1.0}
	}
	toLight := toLightVec.Normalize()

	cosAngle := sl.direction.Dot(toLight.Negate())
	attenuation := sl.falloff(cosAngle)
	emission := sl.emission.Multiply(attenuation / (distance * distance))

	return core.LightSample{
		Point:     sl.position,
		Normal:    toLight,
		Direction: toLight,
		Distance:  distance,
		Emission:  emission,
		PDF:       1.0,
	}
}

// PDF implements core.Light. A point light can never be hit by BSDF
// sampling, so this always reports zero.
func (sl *PointSpotLight) PDF(point, normal, direction core.Vec3) float64 {
	return 0.0
}

// Emit implements core.Light. A zero-area light is never struck by an
// escaping ray, so this always returns zero.
func (sl *PointSpotLight) Emit(ray core.Ray) core.Vec3 {
	return core.Vec3{}
}
