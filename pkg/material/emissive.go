package material

import (
	"github.com/ekarpp/spuristo/pkg/core"
)

// Emissive is a light-emitting material: it absorbs every incoming ray
// instead of scattering it, and radiates Emission in every direction from
// both faces of its surface.
type Emissive struct {
	Emission core.Vec3
}

func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emission: emission}
}

func (e *Emissive) Scatter(rayIn core.Ray, hit *core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

// Emit returns Emission for every ray; it does not distinguish the front
// face from the back face.
func (e *Emissive) Emit(rayIn core.Ray) core.Vec3 {
	return e.Emission
}

func (e *Emissive) EvaluateBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) core.Vec3 {
	return core.Vec3{}
}

func (e *Emissive) PDFBSDF(incomingDir, outgoingDir core.Vec3, hit *core.HitRecord) (float64, bool) {
	return 0, false
}
