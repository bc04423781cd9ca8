package core

import "math"

// PowerHeuristic implements the power heuristic for multiple importance
// sampling (Veach), balancing two sampling strategies such as light
// sampling and BSDF sampling. beta = 2.
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if fPdf == 0 {
		return 0
	}

	f := float64(nf) * fPdf
	g := float64(ng) * gPdf

	return (f * f) / (f*f + g*g)
}

// BalanceHeuristic implements the balance heuristic for multiple importance
// sampling.
func BalanceHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if fPdf == 0 {
		return 0
	}

	f := float64(nf) * fPdf
	g := float64(ng) * gPdf

	return f / (f + g)
}

// SphereUniformPDF returns the PDF for uniform sampling on a sphere's
// surface, per unit surface area.
func SphereUniformPDF(radius float64) float64 {
	return 1.0 / (4.0 * math.Pi * radius * radius)
}

// SphereConePDF returns the solid-angle PDF for sampling a sphere light from
// a point outside it via cone sampling.
func SphereConePDF(distance, radius float64) float64 {
	if distance <= radius {
		return SphereUniformPDF(radius)
	}

	sinThetaMax := radius / distance
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))

	return 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))
}

// CalculateLightPDF returns the combined solid-angle PDF of a BSDF-sampled
// direction under the light sampler's selection policy, for MIS against
// next-event estimation.
func CalculateLightPDF(lightSampler LightSampler, lights []Light, point, normal, direction Vec3) float64 {
	if len(lights) == 0 || lightSampler == nil {
		return 0.0
	}

	totalPDF := 0.0
	for i, light := range lights {
		selectionProb := lightSampler.GetLightProbability(i, point, normal)
		if selectionProb <= 0 {
			continue
		}
		totalPDF += selectionProb * light.PDF(point, normal, direction)
	}

	return totalPDF
}

// SampleLight selects one light via sampler and draws a LightSample toward
// point, with the overall (selection * sampling) PDF folded into the
// sample's PDF field. The bool is false when no light could be sampled or
// the resulting PDF is zero.
func SampleLight(lightSampler LightSampler, lights []Light, point, normal Vec3, sampler Sampler) (LightSample, bool) {
	if len(lights) == 0 || lightSampler == nil {
		return LightSample{}, false
	}

	light, selectionProb, index := lightSampler.SampleLight(point, normal, sampler.Get1D())
	if light == nil || selectionProb <= 0 {
		return LightSample{}, false
	}

	sample := light.Sample(point, normal, sampler.Get2D())
	sample.PDF *= selectionProb
	_ = index
	return sample, sample.PDF > 0
}
