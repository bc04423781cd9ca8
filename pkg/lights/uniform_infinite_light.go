package lights

import (
	"math"

	"github.com/ekarpp/spuristo/pkg/core"
)

// UniformInfiniteLight is a constant-color environment light.
type UniformInfiniteLight struct {
	emission core.Vec3
}

// NewUniformInfiniteLight creates a uniform environment light.
func NewUniformInfiniteLight(emission core.Vec3) *UniformInfiniteLight {
	return &UniformInfiniteLight{emission: emission}
}

// Sample implements core.Light, cosine-sampling the visible hemisphere.
func (uil *UniformInfiniteLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) core.LightSample {
	onb := core.NewONB(normal)
	direction := onb.ToWorld(core.CosineSampleHemisphere(sample))
	cosTheta := direction.Dot(normal)

	return core.LightSample{
		Point:     point.Add(direction.Multiply(1e10)),
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  math.Inf(1),
		Emission:  uil.emission,
		PDF:       cosTheta / math.Pi,
	}
}

// PDF implements core.Light.
func (uil *UniformInfiniteLight) PDF(point, normal, direction core.Vec3) float64 {
	cosTheta := direction.Dot(normal)
	if cosTheta <= 0 {
		return 0.0
	}
	return cosTheta / math.Pi
}

// Emit implements core.Light.
func (uil *UniformInfiniteLight) Emit(ray core.Ray) core.Vec3 {
	return uil.emission
}
