package material

import (
	"github.com/ekarpp/spuristo/pkg/core"
)

// Layered stacks two materials: a ray hits Outer first, and if Outer's
// scattered direction points back into the surface, it continues on to hit
// Inner at the same point. Models coatings and films over a base material.
type Layered struct {
	Outer core.Material
	Inner core.Material
}

func NewLayered(outer, inner core.Material) *Layered {
	return &Layered{Outer: outer, Inner: inner}
}

func (l *Layered) Scatter(rayIn core.Ray, hit *core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	outerHit := *hit
	outerHit.Material = l.Outer

	outerResult, ok := l.Outer.Scatter(rayIn, &outerHit, sampler)
	if !ok {
		return core.ScatterResult{}, false
	}

	scatteredDir := outerResult.Scattered.Direction.Normalize()
	pointsInward := scatteredDir.Dot(hit.Normal) < 0
	if !pointsInward {
		return outerResult, true
	}

	innerRay := core.NewRay(hit.Point, scatteredDir)
	innerHit := *hit
	innerHit.Material = l.Inner

	innerResult, ok := l.Inner.Scatter(innerRay, &innerHit, sampler)
	if !ok {
		return outerResult, true
	}

	return core.ScatterResult{
		Incoming:    rayIn,
		Scattered:   innerResult.Scattered,
		Attenuation: outerResult.Attenuation.MultiplyVec(innerResult.Attenuation),
		PDF:         innerResult.PDF,
	}, true
}

// EvaluateBSDF approximates the layered response by routing to whichever
// layer the incoming/outgoing pair looks consistent with: a near-mirror
// pair is attributed to the outer reflection, everything else to the inner
// layer reached by transmission.
func (l *Layered) EvaluateBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) core.Vec3 {
	if isReflectionPath(incomingDir, outgoingDir, hit.Normal) {
		return l.Outer.EvaluateBSDF(incomingDir, outgoingDir, hit)
	}
	return l.Inner.EvaluateBSDF(incomingDir, outgoingDir, hit)
}

func (l *Layered) PDFBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) (float64, bool) {
	if isReflectionPath(incomingDir, outgoingDir, hit.Normal) {
		pdf, _ := l.Outer.PDFBSDF(incomingDir, outgoingDir, hit)
		return pdf, false
	}
	pdf, _ := l.Inner.PDFBSDF(incomingDir, outgoingDir, hit)
	return pdf, false
}

// isReflectionPath checks whether outgoingDir is close to the perfect
// mirror reflection of incomingDir about normal.
func isReflectionPath(incomingDir, outgoingDir, normal core.Vec3) bool {
	incidentDir := incomingDir.Negate()
	reflectedDir := incidentDir.Subtract(normal.Multiply(2 * incidentDir.Dot(normal)))

	const tolerance = 0.1
	return outgoingDir.Subtract(reflectedDir).Length() < tolerance
}
