package material

import (
	"math"

	"github.com/ekarpp/spuristo/pkg/core"
)

// BxDF evaluates a single scattering term in shading space: the macro
// surface normal is always the local +Z axis, wo points toward the viewer
// (the path's previous vertex) and wi points toward the next sampled
// direction, both unit length.
type BxDF interface {
	// F evaluates the differential contribution for the (wo, wi) pair. Must
	// return zero for delta distributions (use Sample/IsSpecular instead).
	F(wo, wi core.Vec3) core.Vec3

	// Sample draws wi given wo. ok is false when no valid direction exists
	// (e.g. total internal reflection routed to the other lobe).
	Sample(wo core.Vec3, u core.Vec2) (wi core.Vec3, f core.Vec3, pdf float64, ok bool)

	// PDF returns the solid-angle density Sample would assign to wi.
	PDF(wo, wi core.Vec3) float64

	// IsSpecular reports whether this term is a delta distribution, in
	// which case F and PDF are meaningless (always zero) and every
	// contribution must come from Sample.
	IsSpecular() bool
}

// LambertianBxDF is a perfectly diffuse reflective term.
type LambertianBxDF struct {
	Albedo core.Vec3
}

func (b LambertianBxDF) F(wo, wi core.Vec3) core.Vec3 {
	if !core.SameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	return b.Albedo.Multiply(1 / math.Pi)
}

func (b LambertianBxDF) Sample(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, bool) {
	wi := core.CosineSampleHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	pdf := b.PDF(wo, wi)
	return wi, b.F(wo, wi), pdf, pdf > 0
}

func (b LambertianBxDF) PDF(wo, wi core.Vec3) float64 {
	if !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePDF(core.AbsCosTheta(wi))
}

func (b LambertianBxDF) IsSpecular() bool { return false }

// DisneyDiffuseBxDF replaces the flat Lambertian response with the
// Disney/Frostbite retroreflective lobe, sharing the same cosine-weighted
// sampling strategy (the extra grazing-angle term does not change where
// energy concentrates enough to warrant its own sampling scheme).
type DisneyDiffuseBxDF struct {
	Albedo    core.Vec3
	Roughness float64
}

func (b DisneyDiffuseBxDF) F(wo, wi core.Vec3) core.Vec3 {
	if !core.SameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	return DisneyDiffuse(b.Albedo, b.Roughness, wo, wi)
}

func (b DisneyDiffuseBxDF) Sample(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, bool) {
	wi := core.CosineSampleHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	pdf := b.PDF(wo, wi)
	return wi, b.F(wo, wi), pdf, pdf > 0
}

func (b DisneyDiffuseBxDF) PDF(wo, wi core.Vec3) float64 {
	if !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePDF(core.AbsCosTheta(wi))
}

func (b DisneyDiffuseBxDF) IsSpecular() bool { return false }

// MirrorBxDF is a perfect specular reflector (delta distribution).
type MirrorBxDF struct {
	Albedo core.Vec3
}

func (b MirrorBxDF) F(wo, wi core.Vec3) core.Vec3     { return core.Vec3{} }
func (b MirrorBxDF) PDF(wo, wi core.Vec3) float64     { return 0 }
func (b MirrorBxDF) IsSpecular() bool                 { return true }
func (b MirrorBxDF) Sample(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, bool) {
	wi := core.Vec3{X: -wo.X, Y: -wo.Y, Z: wo.Z}
	if core.AbsCosTheta(wi) == 0 {
		return wi, core.Vec3{}, 0, false
	}
	f := b.Albedo.Multiply(1 / core.AbsCosTheta(wi))
	return wi, f, 1, true
}

// ConductorBxDF is a rough (or, at Distribution.EffectivelySmooth(), perfect)
// metallic reflector: the microfacet reflection term with a conductor
// Fresnel term approximated via Schlick, matching
// original_source bxdf::microfacet::{reflection_f, reflection_sample, reflection_pdf}.
type ConductorBxDF struct {
	F0   core.Vec3 // reflectance at normal incidence
	Dist Distribution
}

func (b ConductorBxDF) F(wo, wi core.Vec3) core.Vec3 {
	if b.Dist.EffectivelySmooth() || !core.SameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	cosThetaO := core.AbsCosTheta(wo)
	cosThetaI := core.AbsCosTheta(wi)
	if cosThetaO == 0 || cosThetaI == 0 {
		return core.Vec3{}
	}
	wh := wo.Add(wi)
	if wh.IsZero() {
		return core.Vec3{}
	}
	wh = wh.Normalize()

	fr := SchlickFresnel(wo.AbsDot(wh), b.F0)
	d := b.Dist.D(wh)
	g := G(b.Dist, wo, wi)

	return fr.Multiply(d * g / (4 * cosThetaO * cosThetaI))
}

func (b ConductorBxDF) Sample(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, bool) {
	if b.Dist.EffectivelySmooth() {
		wi := core.Vec3{X: -wo.X, Y: -wo.Y, Z: wo.Z}
		if core.AbsCosTheta(wi) == 0 {
			return wi, core.Vec3{}, 0, false
		}
		fr := SchlickFresnel(core.AbsCosTheta(wo), b.F0)
		f := fr.Multiply(1 / core.AbsCosTheta(wi))
		return wi, f, 1, true
	}

	wh := b.Dist.SampleWh(wo, u)
	wi := reflectAbout(wo, wh)
	if !core.SameHemisphere(wo, wi) {
		return wi, core.Vec3{}, 0, false
	}

	pdf := b.Dist.PDF(wo, wh) / (4 * wo.AbsDot(wh))
	if pdf <= 0 {
		return wi, core.Vec3{}, 0, false
	}
	return wi, b.F(wo, wi), pdf, true
}

func (b ConductorBxDF) PDF(wo, wi core.Vec3) float64 {
	if b.Dist.EffectivelySmooth() || !core.SameHemisphere(wo, wi) {
		return 0
	}
	wh := wo.Add(wi)
	if wh.IsZero() {
		return 0
	}
	wh = wh.Normalize()
	return b.Dist.PDF(wo, wh) / (4 * wo.AbsDot(wh))
}

func (b ConductorBxDF) IsSpecular() bool { return b.Dist.EffectivelySmooth() }

// DielectricBxDF models a smooth or rough refractive interface (glass,
// water), with both a reflection and a transmission lobe selected by
// Fresnel-weighted probability, matching
// original_source bxdf::microfacet::{transmission_f, transmission_sample, transmission_pdf}.
// Mode distinguishes paths traced from the camera (Radiance) from paths
// traced from a light (Importance): importance transport needs the extra
// eta^2 correction for the non-symmetry of radiance under refraction.
type DielectricBxDF struct {
	Eta  float64 // relative index of refraction, transmitted (-Z) side over incident (+Z) side
	Dist Distribution
	Mode core.TransportMode
}

func (b DielectricBxDF) F(wo, wi core.Vec3) core.Vec3 {
	if b.Eta == 1 || b.Dist.EffectivelySmooth() {
		return core.Vec3{}
	}

	cosThetaO := core.CosTheta(wo)
	cosThetaI := core.CosTheta(wi)
	reflect := cosThetaI*cosThetaO > 0

	etap := 1.0
	if !reflect {
		if cosThetaO > 0 {
			etap = b.Eta
		} else {
			etap = 1 / b.Eta
		}
	}

	wh := wi.Multiply(etap).Add(wo)
	if cosThetaI == 0 || cosThetaO == 0 || wh.IsZero() {
		return core.Vec3{}
	}
	wh = faceForward(wh.Normalize(), core.NewVec3(0, 0, 1))

	if wh.Dot(wi)*cosThetaI < 0 || wh.Dot(wo)*cosThetaO < 0 {
		return core.Vec3{}
	}

	fr := DielectricFresnel(wo.Dot(wh), b.Eta)

	if reflect {
		val := b.Dist.D(wh) * G(b.Dist, wo, wi) * fr / math.Abs(4*cosThetaI*cosThetaO)
		return core.NewVec3(val, val, val)
	}

	denom := wh.Dot(wi) + wh.Dot(wo)/etap
	denom = denom * denom
	numerator := b.Dist.D(wh) * (1 - fr) * G(b.Dist, wo, wi) * math.Abs(wi.Dot(wh)*wo.Dot(wh)/(cosThetaI*cosThetaO*denom))

	scale := 1.0
	if b.Mode == core.Radiance {
		scale = 1 / (etap * etap)
	}
	val := numerator * scale
	return core.NewVec3(val, val, val)
}

func (b DielectricBxDF) Sample(wo core.Vec3, u2 core.Vec2) (core.Vec3, core.Vec3, float64, bool) {
	if b.Eta == 1 || b.Dist.EffectivelySmooth() {
		return b.sampleSmooth(wo, u2)
	}
	return b.sampleRough(wo, u2)
}

func (b DielectricBxDF) sampleSmooth(wo core.Vec3, u2 core.Vec2) (core.Vec3, core.Vec3, float64, bool) {
	fr := DielectricFresnel(core.CosTheta(wo), b.Eta)
	tr := 1 - fr
	u := u2.X

	if u < fr/(fr+tr) {
		wi := core.Vec3{X: -wo.X, Y: -wo.Y, Z: wo.Z}
		pdf := fr / (fr + tr)
		val := fr / core.AbsCosTheta(wi)
		return wi, core.NewVec3(val, val, val), pdf, true
	}

	wi, etap, ok := refract(wo, core.NewVec3(0, 0, 1), b.Eta)
	if !ok {
		return wi, core.Vec3{}, 0, false
	}
	pdf := tr / (fr + tr)
	scale := 1.0
	if b.Mode == core.Radiance {
		scale = 1 / (etap * etap)
	}
	val := tr * scale / core.AbsCosTheta(wi)
	return wi, core.NewVec3(val, val, val), pdf, true
}

func (b DielectricBxDF) sampleRough(wo core.Vec3, u2 core.Vec2) (core.Vec3, core.Vec3, float64, bool) {
	wh := b.Dist.SampleWh(wo, u2)
	fr := DielectricFresnel(wo.Dot(wh), b.Eta)
	tr := 1 - fr

	if u2.X < fr/(fr+tr) {
		wi := reflectAbout(wo, wh)
		if !core.SameHemisphere(wo, wi) {
			return wi, core.Vec3{}, 0, false
		}
		pdf := b.Dist.PDF(wo, wh) / (4 * wo.AbsDot(wh)) * (fr / (fr + tr))
		return wi, b.F(wo, wi), pdf, pdf > 0
	}

	wi, etap, ok := refract(wo, faceForward(wh, wo), b.Eta)
	if !ok || core.SameHemisphere(wo, wi) || wi.Z == 0 {
		return wi, core.Vec3{}, 0, false
	}

	denom := wi.Dot(wh) + wo.Dot(wh)/etap
	denom = denom * denom
	dwhDwi := math.Abs(wi.Dot(wh)) / denom
	pdf := b.Dist.PDF(wo, wh) * dwhDwi * (tr / (fr + tr))
	return wi, b.F(wo, wi), pdf, pdf > 0
}

func (b DielectricBxDF) PDF(wo, wi core.Vec3) float64 {
	if b.Eta == 1 || b.Dist.EffectivelySmooth() {
		return 0
	}

	cosThetaO := core.CosTheta(wo)
	cosThetaI := core.CosTheta(wi)
	reflect := cosThetaI*cosThetaO > 0

	etap := 1.0
	if !reflect {
		if cosThetaO > 0 {
			etap = b.Eta
		} else {
			etap = 1 / b.Eta
		}
	}

	wh := wi.Multiply(etap).Add(wo)
	if cosThetaI == 0 || cosThetaO == 0 || wh.IsZero() {
		return 0
	}
	wh = faceForward(wh.Normalize(), core.NewVec3(0, 0, 1))

	if wh.Dot(wi)*cosThetaI < 0 || wh.Dot(wo)*cosThetaO < 0 {
		return 0
	}

	fr := DielectricFresnel(wo.Dot(wh), b.Eta)
	tr := 1 - fr

	if reflect {
		return b.Dist.PDF(wo, wh) / (4 * wo.AbsDot(wh)) * (fr / (fr + tr))
	}

	denom := wi.Dot(wh) + wo.Dot(wh)/etap
	denom = denom * denom
	dwhDwi := math.Abs(wi.Dot(wh)) / denom
	return b.Dist.PDF(wo, wh) * dwhDwi * (tr / (fr + tr))
}

func (b DielectricBxDF) IsSpecular() bool {
	return b.Eta == 1 || b.Dist.EffectivelySmooth()
}

func reflectAbout(wo, n core.Vec3) core.Vec3 {
	return n.Multiply(2 * wo.Dot(n)).Subtract(wo)
}

func faceForward(v, ref core.Vec3) core.Vec3 {
	if v.Dot(ref) < 0 {
		return v.Negate()
	}
	return v
}

// refract computes the transmitted direction of wi (pointing away from the
// surface, toward the viewer, as wo is everywhere else in this file) across
// an interface with normal n (oriented to the same side as wi) and relative
// index eta. Returns the transmitted direction, the eta used (possibly
// inverted depending on which side wi was on), and false on total internal
// reflection.
func refract(wi, n core.Vec3, eta float64) (core.Vec3, float64, bool) {
	cosThetaI := n.Dot(wi)
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
		n = n.Negate()
	}

	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return core.Vec3{}, eta, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)

	wt := wi.Negate().Multiply(1 / eta).Add(n.Multiply(cosThetaI/eta - cosThetaT))
	return wt, eta, true
}
