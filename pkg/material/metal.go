package material

import (
	"github.com/ekarpp/spuristo/pkg/core"
)

// Metal is a microfacet conductor: a rough or perfectly specular metallic
// reflector, with GGX the default distribution per spec and Beckmann
// available for comparison renders.
type Metal struct {
	Albedo       core.Vec3 // reflectance at normal incidence (F0)
	Roughness    float64   // 0 = perfect mirror, 1 = fully rough
	UseBeckmann  bool
}

// NewMetal creates a GGX conductor material.
func NewMetal(albedo core.Vec3, roughness float64) *Metal {
	return &Metal{Albedo: albedo, Roughness: clamp01(roughness)}
}

// NewMetalBeckmann creates a conductor material backed by the Beckmann
// distribution instead of GGX.
func NewMetalBeckmann(albedo core.Vec3, roughness float64) *Metal {
	return &Metal{Albedo: albedo, Roughness: clamp01(roughness), UseBeckmann: true}
}

func (m *Metal) distribution() Distribution {
	if m.UseBeckmann {
		return NewBeckmannDistribution(m.Roughness)
	}
	return NewGGXDistribution(m.Roughness)
}

func (m *Metal) bsdf(hit *core.HitRecord) *BSDF {
	bxdf := ConductorBxDF{F0: m.Albedo, Dist: m.distribution()}
	return NewBSDF(hit.Normal, bxdf)
}

func (m *Metal) Scatter(rayIn core.Ray, hit *core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	bsdf := m.bsdf(hit)
	wo := rayIn.Direction.Negate().Normalize()
	wi, f, pdf, specular, ok := bsdf.Sample(wo, sampler)
	if !ok {
		return core.ScatterResult{}, false
	}

	attenuation := f
	resultPDF := pdf
	if specular {
		// f already carries a 1/cosTheta factor and pdf == 1; fold the
		// cosine back in here since the integrator applies neither for a
		// delta scattering event.
		attenuation = f.Multiply(core.AbsCosTheta(bsdf.toLocal(wi)))
		resultPDF = 0
	}

	return core.ScatterResult{
		Incoming:    rayIn,
		Scattered:   core.NewRay(hit.Point, wi),
		Attenuation: attenuation,
		PDF:         resultPDF,
	}, true
}

func (m *Metal) EvaluateBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) core.Vec3 {
	wo := incomingDir.Negate().Normalize()
	return m.bsdf(hit).F(wo, outgoingDir.Normalize())
}

func (m *Metal) PDFBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) (float64, bool) {
	if m.distribution().EffectivelySmooth() {
		return 0, true
	}
	wo := incomingDir.Negate().Normalize()
	return m.bsdf(hit).PDF(wo, outgoingDir.Normalize()), false
}
