package material

import (
	"math"
	"testing"

	"github.com/ekarpp/spuristo/pkg/core"
)

func TestGGXEffectivelySmoothThreshold(t *testing.T) {
	if !NewGGXDistribution(0).EffectivelySmooth() {
		t.Error("zero roughness should be effectively smooth")
	}
	if NewGGXDistribution(0.5).EffectivelySmooth() {
		t.Error("roughness 0.5 should not be effectively smooth")
	}
}

func TestGGXDPeaksAtNormalIncidence(t *testing.T) {
	dist := NewGGXDistribution(0.3)
	atNormal := dist.D(core.NewVec3(0, 0, 1))
	atGrazing := dist.D(core.NewVec3(0.9, 0, math.Sqrt(1-0.81)))
	if atNormal <= atGrazing {
		t.Errorf("D should be largest at the macro normal: D(normal)=%f D(grazing)=%f", atNormal, atGrazing)
	}
}

func TestGGXSampleWhPDFConsistency(t *testing.T) {
	dist := NewGGXDistribution(0.4)
	wo := core.NewVec3(0.2, 0.1, 1).Normalize()

	for _, u := range []core.Vec2{{X: 0.2, Y: 0.6}, {X: 0.7, Y: 0.3}, {X: 0.5, Y: 0.5}} {
		wh := dist.SampleWh(wo, u)
		if wh.Length() < 0.99 || wh.Length() > 1.01 {
			t.Errorf("SampleWh should return a unit vector, got length %f", wh.Length())
		}
		pdf := dist.PDF(wo, wh)
		if pdf <= 0 {
			t.Errorf("PDF of a direction SampleWh just produced should be positive, u=%v", u)
		}
	}
}

func TestBeckmannEffectivelySmoothThreshold(t *testing.T) {
	if !NewBeckmannDistribution(0).EffectivelySmooth() {
		t.Error("zero roughness should be effectively smooth")
	}
	if NewBeckmannDistribution(0.5).EffectivelySmooth() {
		t.Error("roughness 0.5 should not be effectively smooth")
	}
}

func TestSchlickFresnelAtNormalIncidence(t *testing.T) {
	f0 := core.NewVec3(0.04, 0.04, 0.04)
	fr := SchlickFresnel(1.0, f0)
	if !fr.Equals(f0) {
		t.Errorf("Schlick Fresnel at normal incidence should equal F0: got %v, expected %v", fr, f0)
	}
}

func TestSchlickFresnelApproachesOneAtGrazing(t *testing.T) {
	f0 := core.NewVec3(0.04, 0.04, 0.04)
	fr := SchlickFresnel(0.01, f0)
	if fr.X < 0.9 {
		t.Errorf("Schlick Fresnel at grazing incidence should approach 1, got %v", fr)
	}
}

func TestDielectricFresnelNormalIncidenceMatchesSchlickR0(t *testing.T) {
	eta := 1.5
	fr := DielectricFresnel(1.0, 1/eta)
	expected := math.Pow((eta-1)/(eta+1), 2)
	if math.Abs(fr-expected) > 1e-6 {
		t.Errorf("normal-incidence Fresnel should match R0 = ((eta-1)/(eta+1))^2: got %f, expected %f", fr, expected)
	}
}

func TestDielectricFresnelTotalInternalReflection(t *testing.T) {
	// eta<1 (dense-to-sparse) at a shallow angle should trigger TIR.
	fr := DielectricFresnel(0.05, 1.0/1.5)
	if fr < 0.999 {
		t.Errorf("expected total internal reflection (Fresnel ~1), got %f", fr)
	}
}

func TestG1BoundedByOne(t *testing.T) {
	dist := NewGGXDistribution(0.6)
	w := core.NewVec3(0.3, 0.2, 0.9).Normalize()
	g1 := G1(dist, w)
	if g1 < 0 || g1 > 1 {
		t.Errorf("G1 should be in [0,1], got %f", g1)
	}
}

func TestDisneyDiffuseNonNegative(t *testing.T) {
	albedo := core.NewVec3(0.6, 0.4, 0.2)
	wo := core.NewVec3(0.1, 0.1, 1).Normalize()
	wi := core.NewVec3(-0.2, 0.3, 1).Normalize()

	f := DisneyDiffuse(albedo, 0.7, wo, wi)
	if f.X < 0 || f.Y < 0 || f.Z < 0 {
		t.Errorf("Disney diffuse should be non-negative, got %v", f)
	}
}
