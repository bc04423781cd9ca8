package lights

import (
	"math"

	"github.com/ekarpp/spuristo/pkg/core"
	"github.com/ekarpp/spuristo/pkg/geometry"
)

// DiscLight is a circular area light: a Disc whose Material is expected to
// implement core.Emitter.
type DiscLight struct {
	*geometry.Disc
}

// NewDiscLight creates a circular disc light.
func NewDiscLight(center, normal core.Vec3, radius float64, mat core.Material) *DiscLight {
	return &DiscLight{Disc: geometry.NewDisc(center, normal, radius, mat)}
}

// Sample implements core.Light.
func (dl *DiscLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) core.LightSample {
	samplePoint, sampleNormal := dl.Disc.SampleUniform(sample)

	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	if distance == 0 {
		return core.LightSample{Point: samplePoint, Normal: sampleNormal, Direction: core.NewVec3(0, 1, 0), PDF: 1.0}
	}
	direction := toLight.Multiply(1.0 / distance)

	areaPDF := 1.0 / (math.Pi * dl.Radius * dl.Radius)
	cosTheta := math.Abs(sampleNormal.Dot(direction.Negate()))
	if cosTheta < 1e-6 {
		return core.LightSample{Point: samplePoint, Normal: sampleNormal, Direction: direction, Distance: distance, PDF: 0}
	}
	pdf := areaPDF * distance * distance / cosTheta

	return core.LightSample{
		Point:     samplePoint,
		Normal:    sampleNormal,
		Direction: direction,
		Distance:  distance,
		Emission:  dl.Emit(core.NewRay(point, direction)),
		PDF:       pdf,
	}
}

// PDF implements core.Light.
func (dl *DiscLight) PDF(point, normal, direction core.Vec3) float64 {
	ray := core.NewRay(point, direction)
	hit, ok := dl.Disc.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		return 0.0
	}
	cosTheta := math.Abs(dl.Normal.Dot(direction.Negate()))
	if cosTheta < 1e-6 {
		return 0.0
	}
	areaPDF := 1.0 / (math.Pi * dl.Radius * dl.Radius)
	return areaPDF * hit.T * hit.T / cosTheta
}

// Emit implements core.Light by deferring to the disc's material.
func (dl *DiscLight) Emit(ray core.Ray) core.Vec3 {
	if emitter, ok := dl.Material.(core.Emitter); ok {
		return emitter.Emit(ray)
	}
	return core.Vec3{}
}
