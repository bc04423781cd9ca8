package material

import (
	"github.com/ekarpp/spuristo/pkg/core"
)

// Dielectric is a refractive material such as glass or water: a microfacet
// interface that both reflects and transmits, weighted by Fresnel
// reflectance. Mode controls the eta^2 non-symmetry correction applied to
// the transmission term and should be core.Radiance for every path the
// camera-rooted integrator traces.
type Dielectric struct {
	RefractiveIndex float64
	Roughness       float64
	Mode            core.TransportMode
}

// NewDielectric creates a perfectly smooth dielectric (e.g. clear glass).
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex, Mode: core.Radiance}
}

// NewRoughDielectric creates a dielectric with a rough GGX interface, such
// as frosted glass.
func NewRoughDielectric(refractiveIndex, roughness float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex, Roughness: clamp01(roughness), Mode: core.Radiance}
}

func (d *Dielectric) bsdf(hit *core.HitRecord) *BSDF {
	eta := d.RefractiveIndex
	if !hit.FrontFace {
		eta = 1 / eta
	}
	bxdf := DielectricBxDF{Eta: eta, Dist: NewGGXDistribution(d.Roughness), Mode: d.Mode}
	return NewBSDF(hit.Normal, bxdf)
}

func (d *Dielectric) Scatter(rayIn core.Ray, hit *core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	bsdf := d.bsdf(hit)
	wo := rayIn.Direction.Negate().Normalize()
	wi, f, pdf, specular, ok := bsdf.Sample(wo, sampler)
	if !ok {
		return core.ScatterResult{}, false
	}

	attenuation := f
	resultPDF := pdf
	if specular {
		attenuation = f.Multiply(core.AbsCosTheta(bsdf.toLocal(wi)) / pdf)
		resultPDF = 0
	}

	return core.ScatterResult{
		Incoming:    rayIn,
		Scattered:   core.NewRay(hit.Point, wi),
		Attenuation: attenuation,
		PDF:         resultPDF,
	}, true
}

func (d *Dielectric) EvaluateBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) core.Vec3 {
	wo := incomingDir.Negate().Normalize()
	return d.bsdf(hit).F(wo, outgoingDir.Normalize())
}

func (d *Dielectric) PDFBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) (float64, bool) {
	if d.Roughness <= 0 {
		return 0, true
	}
	wo := incomingDir.Negate().Normalize()
	return d.bsdf(hit).PDF(wo, outgoingDir.Normalize()), false
}
