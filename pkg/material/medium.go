package material

import (
	"github.com/ekarpp/spuristo/pkg/core"
)

// Medium represents a participating-media volume (smoke, fog, clouds):
// a density and an isotropic scattering material bounded by a shape.
// Volumetric scattering itself is out of scope here; Transmittance always
// returns full transmission (1,1,1), matching a Medium with Density 0.
type Medium struct {
	Density   float64
	Isotropic core.Material
}

func NewMedium(density float64, color core.Vec3) *Medium {
	return &Medium{Density: density, Isotropic: NewLambertian(color)}
}

// Transmittance returns the fraction of radiance that survives traveling
// distance through the medium. Always identity: no extinction is modeled.
func (m *Medium) Transmittance(distance float64) core.Vec3 {
	return core.NewVec3(1, 1, 1)
}
