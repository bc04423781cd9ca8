package material

import (
	"github.com/ekarpp/spuristo/pkg/core"
)

// Lambertian is a perfectly diffuse material, optionally spatially varying
// via a ColorSource (solid color, image texture or procedural texture).
type Lambertian struct {
	Source    ColorSource
	Roughness float64 // 0 = flat Lambertian, >0 blends in the Disney retroreflective lobe
}

// NewLambertian creates a flat diffuse material from a solid albedo.
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Source: NewSolidColor(albedo)}
}

// NewLambertianTextured creates a diffuse material whose albedo is sampled
// from an arbitrary ColorSource.
func NewLambertianTextured(source ColorSource) *Lambertian {
	return &Lambertian{Source: source}
}

func (l *Lambertian) bsdf(hit *core.HitRecord) *BSDF {
	albedo := l.Source.Evaluate(hit.UV, hit.Point)
	var bxdf BxDF
	if l.Roughness > 0 {
		bxdf = DisneyDiffuseBxDF{Albedo: albedo, Roughness: l.Roughness}
	} else {
		bxdf = LambertianBxDF{Albedo: albedo}
	}
	return NewBSDF(hit.Normal, bxdf)
}

func (l *Lambertian) Scatter(rayIn core.Ray, hit *core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	bsdf := l.bsdf(hit)
	wo := rayIn.Direction.Negate().Normalize()
	wi, f, pdf, _, ok := bsdf.Sample(wo, sampler)
	if !ok {
		return core.ScatterResult{}, false
	}

	return core.ScatterResult{
		Incoming:    rayIn,
		Scattered:   core.NewRay(hit.Point, wi),
		Attenuation: f,
		PDF:         pdf,
	}, true
}

func (l *Lambertian) EvaluateBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) core.Vec3 {
	wo := incomingDir.Negate().Normalize()
	return l.bsdf(hit).F(wo, outgoingDir.Normalize())
}

func (l *Lambertian) PDFBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) (float64, bool) {
	wo := incomingDir.Negate().Normalize()
	return l.bsdf(hit).PDF(wo, outgoingDir.Normalize()), false
}
