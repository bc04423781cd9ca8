package material

import (
	"math"

	"github.com/ekarpp/spuristo/pkg/core"
)

// Distribution is a microfacet normal distribution function together with
// its associated shadowing-masking and visible-normal sampling routines,
// evaluated entirely in shading space (the macro-surface normal is +Z).
// GGX and Beckmann are the two variants the original renderer supports
// (original_source/src/tracer/microfacet.rs MfDistribution::Ggx/Beckmann).
type Distribution interface {
	// D evaluates the normal distribution function at microfacet normal wh.
	D(wh core.Vec3) float64

	// Lambda is the Smith auxiliary function used to build G1/G.
	Lambda(w core.Vec3) float64

	// SampleWh importance-samples a microfacet normal visible from wo.
	SampleWh(wo core.Vec3, u core.Vec2) core.Vec3

	// PDF returns the density of SampleWh producing wh, expressed with
	// respect to solid angle around wh (the VNDF pdf).
	PDF(wo, wh core.Vec3) float64

	// EffectivelySmooth reports whether roughness is low enough that the
	// distribution should be treated as a perfect mirror/dielectric
	// interface instead of paying for a near-degenerate microfacet
	// evaluation.
	EffectivelySmooth() bool
}

// G1 is the Smith masking function for a single direction, shared by every
// Distribution implementation.
func G1(dist Distribution, w core.Vec3) float64 {
	return 1.0 / (1.0 + dist.Lambda(w))
}

// G is the (separable) Smith masking-shadowing function for the pair of
// directions wo, wi.
func G(dist Distribution, wo, wi core.Vec3) float64 {
	return 1.0 / (1.0 + dist.Lambda(wo) + dist.Lambda(wi))
}

// roughnessToAlpha converts a perceptually linear [0,1] roughness to the
// distribution's alpha parameter, matching the remapping used by
// original_source (alpha = roughness^2) and PBRT.
func roughnessToAlpha(roughness float64) float64 {
	return math.Max(1e-4, roughness*roughness)
}

// GGXDistribution is the Trowbridge-Reitz normal distribution.
type GGXDistribution struct {
	Alpha float64
}

// NewGGXDistribution builds an isotropic GGX distribution from a perceptual
// roughness in [0, 1].
func NewGGXDistribution(roughness float64) GGXDistribution {
	return GGXDistribution{Alpha: roughnessToAlpha(roughness)}
}

func (d GGXDistribution) EffectivelySmooth() bool {
	return d.Alpha < 1e-3
}

func (d GGXDistribution) D(wh core.Vec3) float64 {
	cos2Theta := core.Cos2Theta(wh)
	if cos2Theta <= 0 {
		return 0
	}
	alpha2 := d.Alpha * d.Alpha
	tan2Theta := core.Tan2Theta(wh)
	if math.IsInf(tan2Theta, 1) {
		return 0
	}
	e := tan2Theta / alpha2
	cos4Theta := cos2Theta * cos2Theta
	denom := math.Pi * alpha2 * cos4Theta * (1 + e) * (1 + e)
	return 1.0 / denom
}

func (d GGXDistribution) Lambda(w core.Vec3) float64 {
	tan2Theta := core.Tan2Theta(w)
	if math.IsInf(tan2Theta, 1) {
		return 0
	}
	alpha2Tan2Theta := d.Alpha * d.Alpha * tan2Theta
	return (math.Sqrt(1+alpha2Tan2Theta) - 1) / 2
}

// SampleWh draws a visible microfacet normal using Heitz's 2018
// transform-to-hemisphere VNDF sampling routine.
func (d GGXDistribution) SampleWh(wo core.Vec3, u core.Vec2) core.Vec3 {
	wh := core.Vec3{X: d.Alpha * wo.X, Y: d.Alpha * wo.Y, Z: wo.Z}
	if wh.Z < 0 {
		wh = wh.Negate()
	}
	wh = wh.Normalize()

	var t1 core.Vec3
	if wh.Z < 0.999 {
		t1 = core.NewVec3(0, 0, 1).Cross(wh).Normalize()
	} else {
		t1 = core.NewVec3(1, 0, 0)
	}
	t2 := wh.Cross(t1)

	r := math.Sqrt(u.X)
	phi := 2 * math.Pi * u.Y
	p1 := r * math.Cos(phi)
	p2 := r * math.Sin(phi)
	s := 0.5 * (1 + wh.Z)
	p2 = (1-s)*math.Sqrt(math.Max(0, 1-p1*p1)) + s*p2

	pz := math.Sqrt(math.Max(0, 1-p1*p1-p2*p2))
	nh := t1.Multiply(p1).Add(t2.Multiply(p2)).Add(wh.Multiply(pz))

	result := core.Vec3{
		X: d.Alpha * nh.X,
		Y: d.Alpha * nh.Y,
		Z: math.Max(1e-6, nh.Z),
	}
	return result.Normalize()
}

func (d GGXDistribution) PDF(wo, wh core.Vec3) float64 {
	return G1(d, wo) / core.AbsCosTheta(wo) * d.D(wh) * wo.AbsDot(wh)
}

// BeckmannDistribution is the Gaussian-slope microfacet distribution.
type BeckmannDistribution struct {
	Alpha float64
}

func NewBeckmannDistribution(roughness float64) BeckmannDistribution {
	return BeckmannDistribution{Alpha: roughnessToAlpha(roughness)}
}

func (d BeckmannDistribution) EffectivelySmooth() bool {
	return d.Alpha < 1e-3
}

func (d BeckmannDistribution) D(wh core.Vec3) float64 {
	tan2Theta := core.Tan2Theta(wh)
	if math.IsInf(tan2Theta, 1) {
		return 0
	}
	cos2Theta := core.Cos2Theta(wh)
	cos4Theta := cos2Theta * cos2Theta
	alpha2 := d.Alpha * d.Alpha
	return math.Exp(-tan2Theta/alpha2) / (math.Pi * alpha2 * cos4Theta)
}

func (d BeckmannDistribution) Lambda(w core.Vec3) float64 {
	absTanTheta := math.Abs(core.TanTheta(w))
	if math.IsInf(absTanTheta, 1) {
		return 0
	}
	a := 1.0 / (d.Alpha * absTanTheta)
	if a >= 1.6 {
		return 0
	}
	return (1 - 1.259*a + 0.396*a*a) / (3.535*a + 2.181*a*a)
}

// SampleWh samples a microfacet normal directly from the Beckmann NDF
// (unlike GGX this is not visible-normal sampling, matching
// original_source's distinction between the two distributions).
func (d BeckmannDistribution) SampleWh(wo core.Vec3, u core.Vec2) core.Vec3 {
	logSample := math.Log(1 - u.X)
	if math.IsInf(logSample, 0) || math.IsNaN(logSample) {
		logSample = 0
	}
	tan2Theta := -d.Alpha * d.Alpha * logSample
	phi := u.Y * 2 * math.Pi

	cosTheta := 1.0 / math.Sqrt(1+tan2Theta)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

	wh := core.Vec3{X: sinTheta * math.Cos(phi), Y: sinTheta * math.Sin(phi), Z: cosTheta}
	if !core.SameHemisphere(wo, wh) {
		wh = wh.Negate()
	}
	return wh
}

func (d BeckmannDistribution) PDF(wo, wh core.Vec3) float64 {
	return d.D(wh) * core.AbsCosTheta(wh)
}

// SchlickFresnel is the Schlick approximation to the dielectric/conductor
// Fresnel reflectance, parameterized by the normal-incidence reflectance f0.
func SchlickFresnel(cosTheta float64, f0 core.Vec3) core.Vec3 {
	m := clamp01(1 - cosTheta)
	m2 := m * m
	m5 := m2 * m2 * m
	one := core.NewVec3(1, 1, 1)
	return f0.Add(one.Subtract(f0).Multiply(m5))
}

// DielectricFresnel computes the unpolarized Fresnel reflectance for a
// dielectric interface with relative index of refraction eta (= eta_t/eta_i),
// given the cosine of the incident angle.
func DielectricFresnel(cosThetaI, eta float64) float64 {
	cosThetaI = clamp(cosThetaI, -1, 1)
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
	}

	sin2ThetaI := 1 - cosThetaI*cosThetaI
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return 1 // total internal reflection
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)

	rParallel := (eta*cosThetaI - cosThetaT) / (eta*cosThetaI + cosThetaT)
	rPerp := (cosThetaI - eta*cosThetaT) / (cosThetaI + eta*cosThetaT)
	return (rParallel*rParallel + rPerp*rPerp) / 2
}

// DisneyDiffuse evaluates the Disney/Frostbite-renormalized diffuse term,
// which adds a grazing-angle retroreflective lobe on top of flat Lambertian
// response (original_source microfacet::MfDistribution::disney_diffuse).
func DisneyDiffuse(albedo core.Vec3, roughness float64, wo, wi core.Vec3) core.Vec3 {
	wh := wo.Add(wi)
	if wh.IsZero() {
		return core.Vec3{}
	}
	wh = wh.Normalize()

	cosThetaD := wi.Dot(wh)
	fd90 := 0.5 + 2*roughness*cosThetaD*cosThetaD

	fl := schlickWeight(core.AbsCosTheta(wi))
	fv := schlickWeight(core.AbsCosTheta(wo))

	lightScatter := 1 + (fd90-1)*fl
	viewScatter := 1 + (fd90-1)*fv

	return albedo.Multiply(lightScatter * viewScatter / math.Pi)
}

func schlickWeight(cosTheta float64) float64 {
	m := clamp01(1 - cosTheta)
	m2 := m * m
	return m2 * m2 * m
}

func clamp01(x float64) float64 {
	return clamp(x, 0, 1)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
