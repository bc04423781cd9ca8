package material

import (
	"github.com/ekarpp/spuristo/pkg/core"
)

// Mirror is an idealized perfect specular reflector with no Fresnel
// falloff, distinct from Metal (a microfacet conductor whose reflectance
// varies with angle via Schlick). Useful for mirrors and light-bouncing
// test geometry where a flat, angle-independent reflectance is wanted.
type Mirror struct {
	Albedo core.Vec3
}

func NewMirror(albedo core.Vec3) *Mirror {
	return &Mirror{Albedo: albedo}
}

func (m *Mirror) bsdf(hit *core.HitRecord) *BSDF {
	return NewBSDF(hit.Normal, MirrorBxDF{Albedo: m.Albedo})
}

func (m *Mirror) Scatter(rayIn core.Ray, hit *core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	bsdf := m.bsdf(hit)
	wo := rayIn.Direction.Negate().Normalize()
	wi, f, _, _, ok := bsdf.Sample(wo, sampler)
	if !ok {
		return core.ScatterResult{}, false
	}

	return core.ScatterResult{
		Incoming:    rayIn,
		Scattered:   core.NewRay(hit.Point, wi),
		Attenuation: f.Multiply(core.AbsCosTheta(bsdf.toLocal(wi))),
		PDF:         0,
	}, true
}

func (m *Mirror) EvaluateBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) core.Vec3 {
	return core.Vec3{}
}

func (m *Mirror) PDFBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) (float64, bool) {
	return 0, true
}
