package material

import (
	"github.com/ekarpp/spuristo/pkg/core"
)

// Mix stochastically picks between two materials per scatter event,
// weighted by Ratio. A cheap way to blend two BSDFs (e.g. a partially
// metallic-flecked diffuse surface) without a combined closed form.
type Mix struct {
	Material1 core.Material
	Material2 core.Material
	Ratio     float64 // 0 = always Material1, 1 = always Material2
}

func NewMix(material1, material2 core.Material, ratio float64) *Mix {
	return &Mix{Material1: material1, Material2: material2, Ratio: clamp01(ratio)}
}

func (m *Mix) Scatter(rayIn core.Ray, hit *core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	if sampler.Get1D() < m.Ratio {
		return m.Material2.Scatter(rayIn, hit, sampler)
	}
	return m.Material1.Scatter(rayIn, hit, sampler)
}

func (m *Mix) EvaluateBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) core.Vec3 {
	f1 := m.Material1.EvaluateBSDF(incomingDir, outgoingDir, hit)
	f2 := m.Material2.EvaluateBSDF(incomingDir, outgoingDir, hit)
	return f1.Multiply(1 - m.Ratio).Add(f2.Multiply(m.Ratio))
}

func (m *Mix) PDFBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) (float64, bool) {
	pdf1, delta1 := m.Material1.PDFBSDF(incomingDir, outgoingDir, hit)
	pdf2, delta2 := m.Material2.PDFBSDF(incomingDir, outgoingDir, hit)
	return (1-m.Ratio)*pdf1 + m.Ratio*pdf2, delta1 && delta2
}
