package lights

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ekarpp/spuristo/pkg/core"
	"github.com/ekarpp/spuristo/pkg/material"
)

func TestDiscLightSampleProducesFiniteSolidAnglePDF(t *testing.T) {
	light := NewDiscLight(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0), 1.0, material.NewEmissive(core.NewVec3(4, 4, 4)))
	sampler := core.NewSampler(rand.New(rand.NewSource(1)))

	point := core.NewVec3(0, 0, 0)
	normal := core.NewVec3(0, 1, 0)

	for i := 0; i < 10; i++ {
		sample := light.Sample(point, normal, sampler.Get2D())
		if sample.PDF < 0 {
			t.Fatalf("PDF should never be negative, got %f", sample.PDF)
		}
		if sample.Distance <= 0 {
			t.Errorf("expected positive distance to a disc light above the point, got %f", sample.Distance)
		}
	}
}

func TestDiscLightPDFMatchesSampleForHitDirection(t *testing.T) {
	light := NewDiscLight(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0), 1.0, material.NewEmissive(core.NewVec3(4, 4, 4)))
	point := core.NewVec3(0, 0, 0)
	direction := core.NewVec3(0, 1, 0)

	pdf := light.PDF(point, core.NewVec3(0, 1, 0), direction)
	if pdf <= 0 {
		t.Errorf("a ray pointed straight at the disc should have a positive PDF, got %f", pdf)
	}
}

func TestDiscLightPDFZeroWhenMissing(t *testing.T) {
	light := NewDiscLight(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0), 1.0, material.NewEmissive(core.NewVec3(4, 4, 4)))
	point := core.NewVec3(0, 0, 0)
	direction := core.NewVec3(1, 0, 0)

	pdf := light.PDF(point, core.NewVec3(0, 1, 0), direction)
	if pdf != 0 {
		t.Errorf("a ray missing the disc entirely should have PDF 0, got %f", pdf)
	}
}

func TestDiscLightEmitZeroForNonEmissiveMaterial(t *testing.T) {
	light := NewDiscLight(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0), 1.0, material.NewLambertian(core.NewVec3(1, 1, 1)))
	emission := light.Emit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)))
	if !emission.IsZero() {
		t.Errorf("a disc with a non-emissive material should never emit, got %v", emission)
	}
}

func TestDiscLightDegeneratePointReturnsNonNegativePDF(t *testing.T) {
	light := NewDiscLight(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 1.0, material.NewEmissive(core.NewVec3(1, 1, 1)))
	sample := light.Sample(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewVec2(0.5, 0.5))
	if math.IsNaN(sample.PDF) || sample.PDF < 0 {
		t.Errorf("degenerate same-point sample should not produce NaN or negative PDF, got %f", sample.PDF)
	}
}
