package material

import (
	"math/rand"
	"testing"

	"github.com/ekarpp/spuristo/pkg/core"
)

func TestNewMetalRoughnessClamp(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"valid 0.0", 0.0, 0.0},
		{"valid 0.5", 0.5, 0.5},
		{"valid 1.0", 1.0, 1.0},
		{"clamp above 1.0", 1.5, 1.0},
		{"clamp below 0.0", -0.5, 0.0},
	}

	albedo := core.NewVec3(0.8, 0.8, 0.8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(albedo, tt.input)
			if metal.Roughness != tt.expected {
				t.Errorf("expected roughness %f, got %f", tt.expected, metal.Roughness)
			}
		})
	}
}

func TestMetalPerfectMirrorReflection(t *testing.T) {
	albedo := core.NewVec3(0.9, 0.9, 0.9)
	metal := NewMetal(albedo, 0.0)
	sampler := core.NewSampler(rand.New(rand.NewSource(42)))

	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1).Normalize())
	hit := &core.HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 0, 1)}

	scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
	if !didScatter {
		t.Fatal("metal should scatter")
	}

	expected := core.NewVec3(0, -1, 1).Normalize()
	actual := scatter.Scattered.Direction.Normalize()
	if actual.Subtract(expected).Length() > 1e-9 {
		t.Errorf("perfect reflection failed: expected %v, got %v", expected, actual)
	}

	// Conductors weight the mirror reflection by Schlick Fresnel with F0 = albedo.
	expectedAttenuation := SchlickFresnel(rayIn.Direction.Negate().Dot(hit.Normal), albedo)
	if !scatter.Attenuation.Equals(expectedAttenuation) {
		t.Errorf("attenuation should equal Schlick Fresnel of albedo: expected %v, got %v", expectedAttenuation, scatter.Attenuation)
	}

	if scatter.PDF != 0 {
		t.Errorf("specular material PDF should be 0, got %f", scatter.PDF)
	}
}

func TestMetalRoughReflectionStaysAboveSurface(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.8, 0.8)
	metal := NewMetal(albedo, 0.5)
	sampler := core.NewSampler(rand.New(rand.NewSource(42)))

	rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	hit := &core.HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 0, 1)}

	// Samples whose reflection would go below the surface are rejected
	// (Scatter reports false), so collect 20 successful scatters.
	directions := make([]core.Vec3, 0, 20)
	for attempt := 0; attempt < 100 && len(directions) < 20; attempt++ {
		scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
		if !didScatter {
			continue
		}
		dir := scatter.Scattered.Direction.Normalize()
		if dir.Dot(hit.Normal) <= 0 {
			t.Errorf("scattered ray %d should be above the surface, got dot %f", len(directions), dir.Dot(hit.Normal))
		}
		directions = append(directions, dir)
	}
	if len(directions) < 20 {
		t.Fatalf("metal should scatter at least 20 times in 100 attempts, got %d", len(directions))
	}

	allSame := true
	for i := 1; i < len(directions); i++ {
		if directions[i].Subtract(directions[0]).Length() > 1e-10 {
			allSame = false
			break
		}
	}
	if allSame {
		t.Error("rough metal should produce varying reflection directions")
	}
}

func TestMetalPDFBSDFZeroWhenSmooth(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	hit := &core.HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 0, 1)}

	pdf, isDelta := metal.PDFBSDF(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1), hit)
	if !isDelta {
		t.Error("smooth metal PDF should report a delta distribution")
	}
	if pdf != 0 {
		t.Errorf("smooth metal PDF should be 0, got %f", pdf)
	}
}

func TestMetalEvaluateBSDFRoughNonNegative(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.9, 0.5, 0.3), 0.5)
	hit := &core.HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 0, 1)}

	wo := core.NewVec3(0, 0, -1)
	wi := core.NewVec3(0.2, 0.1, 1).Normalize()

	f := metal.EvaluateBSDF(wo, wi, hit)
	if f.X < 0 || f.Y < 0 || f.Z < 0 {
		t.Errorf("rough conductor BSDF should be non-negative, got %v", f)
	}
}
