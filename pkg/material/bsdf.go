package material

import (
	"github.com/ekarpp/spuristo/pkg/core"
)

// BSDF aggregates one or more BxDF lobes at a shading point behind a single
// world-space interface: an orthonormal frame to move directions in and out
// of shading space, and the ordered list of lobes a Material assembled for
// this hit (e.g. a dielectric coating layered over a diffuse base).
type BSDF struct {
	frame core.ONB
	bxdfs []BxDF
}

// NewBSDF builds a shading-space frame around the surface normal and
// attaches the given lobes.
func NewBSDF(normal core.Vec3, bxdfs ...BxDF) *BSDF {
	return &BSDF{frame: core.NewONB(normal), bxdfs: bxdfs}
}

func (b *BSDF) toLocal(v core.Vec3) core.Vec3 { return b.frame.ToLocal(v) }
func (b *BSDF) toWorld(v core.Vec3) core.Vec3 { return b.frame.ToWorld(v) }

// F evaluates the sum of every non-specular lobe's contribution for a pair
// of world-space directions. Specular lobes never contribute here; they can
// only be reached via Sample.
func (b *BSDF) F(woWorld, wiWorld core.Vec3) core.Vec3 {
	wo := b.toLocal(woWorld)
	wi := b.toLocal(wiWorld)
	if wo.Z == 0 {
		return core.Vec3{}
	}

	sum := core.Vec3{}
	for _, bxdf := range b.bxdfs {
		if bxdf.IsSpecular() {
			continue
		}
		sum = sum.Add(bxdf.F(wo, wi))
	}
	return sum
}

// PDF returns the unweighted average of every non-specular lobe's PDF
// evaluated at (wo, wi), matching the aggregate's uniform-pick Sample
// strategy below.
func (b *BSDF) PDF(woWorld, wiWorld core.Vec3) float64 {
	wo := b.toLocal(woWorld)
	wi := b.toLocal(wiWorld)

	n := 0
	sum := 0.0
	for _, bxdf := range b.bxdfs {
		if bxdf.IsSpecular() {
			continue
		}
		n++
		sum += bxdf.PDF(wo, wi)
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// IsSpecular reports whether every lobe in the aggregate is a delta
// distribution (the surface can never be hit by next-event estimation).
func (b *BSDF) IsSpecular() bool {
	for _, bxdf := range b.bxdfs {
		if !bxdf.IsSpecular() {
			return false
		}
	}
	return len(b.bxdfs) > 0
}

// Sample picks one lobe uniformly at random and draws a continuation
// direction from it. The returned f/pdf pair already account for the
// 1/len(bxdfs) selection probability the way a multi-lobe BSDF must: the
// aggregate pdf is the average over every non-specular lobe's pdf at the
// sampled direction (see PDF above), which keeps importance sampling
// consistent between Sample and NEE's PDF() queries for the same direction.
func (b *BSDF) Sample(woWorld core.Vec3, sampler core.Sampler) (wiWorld core.Vec3, f core.Vec3, pdf float64, specular bool, ok bool) {
	if len(b.bxdfs) == 0 {
		return core.Vec3{}, core.Vec3{}, 0, false, false
	}

	wo := b.toLocal(woWorld)
	if wo.Z == 0 {
		return core.Vec3{}, core.Vec3{}, 0, false, false
	}

	idx := int(sampler.Get1D() * float64(len(b.bxdfs)))
	if idx >= len(b.bxdfs) {
		idx = len(b.bxdfs) - 1
	}
	chosen := b.bxdfs[idx]

	wi, sampledF, sampledPDF, sampleOK := chosen.Sample(wo, sampler.Get2D())
	if !sampleOK || sampledPDF <= 0 {
		return core.Vec3{}, core.Vec3{}, 0, false, false
	}

	if chosen.IsSpecular() {
		return b.toWorld(wi), sampledF, sampledPDF, true, true
	}

	// Average this lobe's contribution with every other non-specular
	// lobe's response to the same direction, and likewise for the pdf, so
	// the BSDF behaves as the sum-of-lobes model the aggregate promises.
	fSum := core.Vec3{}
	pdfSum := 0.0
	n := 0
	for i, other := range b.bxdfs {
		if other.IsSpecular() {
			continue
		}
		n++
		if i == idx {
			fSum = fSum.Add(sampledF)
			pdfSum += sampledPDF
			continue
		}
		fSum = fSum.Add(other.F(wo, wi))
		pdfSum += other.PDF(wo, wi)
	}

	return b.toWorld(wi), fSum, pdfSum / float64(n), false, true
}
