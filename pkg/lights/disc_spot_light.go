package lights

import (
	"math"

	"github.com/ekarpp/spuristo/pkg/core"
)

// discSpotMaterial emits only for rays arriving within about 72.5° of the
// disc's aim axis (a fixed cosine threshold of 0.3); the configured cone and
// falloff are not applied here, only in DiscSpotLight.Sample. It never
// scatters, so it contributes nothing to indirect bounces off the disc.
type discSpotMaterial struct {
	emission        core.Vec3
	direction       core.Vec3
	cosTotalWidth   float64
	cosFalloffStart float64
}

func (m *discSpotMaterial) Scatter(rayIn core.Ray, hit *core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

func (m *discSpotMaterial) EvaluateBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) core.Vec3 {
	return core.Vec3{}
}

func (m *discSpotMaterial) PDFBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) (float64, bool) {
	return 0.0, true
}

func (m *discSpotMaterial) falloff(cosAngle float64) float64 {
	if cosAngle < m.cosTotalWidth {
		return 0.0
	}
	if cosAngle >= m.cosFalloffStart {
		return 1.0
	}
	delta := (cosAngle - m.cosTotalWidth) / (m.cosFalloffStart - m.cosTotalWidth)
	return delta * delta * delta * delta
}

func (m *discSpotMaterial) Emit(rayIn core.Ray) core.Vec3 {
	cosAngleToSpot := rayIn.Direction.Normalize().Dot(m.direction)
	if cosAngleToSpot > -0.3 {
		return core.Vec3{}
	}
	return m.emission
}

// DiscSpotLight is a disc area light with directional cone falloff, used for
// spotlights that still cast soft shadows and participate in caustics.
type DiscSpotLight struct {
	*DiscLight
	direction       core.Vec3
	cosTotalWidth   float64
	cosFalloffStart float64
}

// NewDiscSpotLight creates a disc spot light aimed from `from` toward `to`.
func NewDiscSpotLight(from, to, emission core.Vec3, coneAngleDegrees, coneDeltaAngleDegrees, radius float64) *DiscSpotLight {
	direction := to.Subtract(from).Normalize()
	totalWidthRadians := coneAngleDegrees * math.Pi / 180.0
	falloffStartRadians := (coneAngleDegrees - coneDeltaAngleDegrees) * math.Pi / 180.0
	cosTotalWidth := math.Cos(totalWidthRadians)
	cosFalloffStart := math.Cos(falloffStartRadians)

	mat := &discSpotMaterial{
		emission:        emission,
		direction:       direction,
		cosTotalWidth:   cosTotalWidth,
		cosFalloffStart: cosFalloffStart,
	}

	return &DiscSpotLight{
		DiscLight:       NewDiscLight(from, direction, radius, mat),
		direction:       direction,
		cosTotalWidth:   cosTotalWidth,
		cosFalloffStart: cosFalloffStart,
	}
}

func (dsl *DiscSpotLight) falloff(cosAngle float64) float64 {
	if cosAngle < dsl.cosTotalWidth {
		return 0.0
	}
	if cosAngle >= dsl.cosFalloffStart {
		return 1.0
	}
	delta := (cosAngle - dsl.cosTotalWidth) / (dsl.cosFalloffStart - dsl.cosTotalWidth)
	return delta * delta * delta * delta
}

// Sample implements core.Light, applying the cone falloff on top of the
// underlying disc's uniform area sampling.
func (dsl *DiscSpotLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) core.LightSample {
	s := dsl.DiscLight.Sample(point, normal, sample)

	lightToPoint := point.Subtract(s.Point).Normalize()
	cosAngle := dsl.direction.Dot(lightToPoint)
	s.Emission = s.Emission.Multiply(dsl.falloff(cosAngle))

	return s
}
