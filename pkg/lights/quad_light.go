package lights

import (
	"math"

	"github.com/ekarpp/spuristo/pkg/core"
	"github.com/ekarpp/spuristo/pkg/geometry"
)

// QuadLight is a rectangular area light.
type QuadLight struct {
	*geometry.Quad
	Area float64
}

// NewQuadLight creates a rectangular light spanning corner+[0,1]*u+[0,1]*v.
func NewQuadLight(corner, u, v core.Vec3, mat core.Material) *QuadLight {
	return &QuadLight{
		Quad: geometry.NewQuad(corner, u, v, mat),
		Area: u.Cross(v).Length(),
	}
}

// Sample implements core.Light.
func (ql *QuadLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) core.LightSample {
	samplePoint := ql.Corner.Add(ql.U.Multiply(sample.X)).Add(ql.V.Multiply(sample.Y))

	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	direction := toLight.Multiply(1.0 / distance)

	cosTheta := math.Abs(ql.Normal.Dot(direction.Negate()))
	if cosTheta < 1e-8 {
		return core.LightSample{Point: samplePoint, Normal: ql.Normal, Direction: direction, Distance: distance, PDF: 0}
	}

	areaPDF := 1.0 / ql.Area
	pdf := areaPDF * distance * distance / cosTheta

	var emission core.Vec3
	if direction.Dot(ql.Normal) < 0 {
		emission = ql.Emit(core.NewRay(point, direction))
	}

	return core.LightSample{
		Point:     samplePoint,
		Normal:    ql.Normal,
		Direction: direction,
		Distance:  distance,
		Emission:  emission,
		PDF:       pdf,
	}
}

// PDF implements core.Light.
func (ql *QuadLight) PDF(point, normal, direction core.Vec3) float64 {
	ray := core.NewRay(point, direction)
	hit, ok := ql.Quad.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		return 0.0
	}
	cosTheta := math.Abs(ql.Normal.Dot(direction.Negate()))
	if cosTheta < 1e-8 {
		return 0.0
	}
	areaPDF := 1.0 / ql.Area
	return areaPDF * hit.T * hit.T / cosTheta
}

// Emit implements core.Light by deferring to the quad's material.
func (ql *QuadLight) Emit(ray core.Ray) core.Vec3 {
	if emitter, ok := ql.Material.(core.Emitter); ok {
		return emitter.Emit(ray)
	}
	return core.Vec3{}
}
