package lights

import (
	"math"

	"github.com/ekarpp/spuristo/pkg/core"
)

// GradientInfiniteLight is a sky-dome light that lerps between a bottom and
// top color by ray direction, used as the scene's background/environment.
type GradientInfiniteLight struct {
	topColor    core.Vec3
	bottomColor core.Vec3
}

// NewGradientInfiniteLight creates a gradient sky light.
func NewGradientInfiniteLight(topColor, bottomColor core.Vec3) *GradientInfiniteLight {
	return &GradientInfiniteLight{topColor: topColor, bottomColor: bottomColor}
}

func (gil *GradientInfiniteLight) emissionForDirection(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Y + 1.0)
	return gil.bottomColor.Multiply(1.0 - t).Add(gil.topColor.Multiply(t))
}

// Sample implements core.Light, cosine-sampling the visible hemisphere.
func (gil *GradientInfiniteLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) core.LightSample {
	onb := core.NewONB(normal)
	direction := onb.ToWorld(core.CosineSampleHemisphere(sample))
	cosTheta := direction.Dot(normal)

	return core.LightSample{
		Point:     point.Add(direction.Multiply(1e10)),
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  math.Inf(1),
		Emission:  gil.emissionForDirection(direction),
		PDF:       cosTheta / math.Pi,
	}
}

// PDF implements core.Light.
func (gil *GradientInfiniteLight) PDF(point, normal, direction core.Vec3) float64 {
	cosTheta := direction.Dot(normal)
	if cosTheta <= 0 {
		return 0.0
	}
	return cosTheta / math.Pi
}

// Emit implements core.Light, evaluated for rays that escape the scene.
func (gil *GradientInfiniteLight) Emit(ray core.Ray) core.Vec3 {
	return gil.emissionForDirection(ray.Direction.Normalize())
}
