package geometry

import (
	"math"
	"testing"

	"github.com/ekarpp/spuristo/pkg/core"
)

func TestInstanceTranslateMovesHitLocation(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, DummyMaterial{})
	inst := NewInstance(sphere).Translate(5, 0, 0)

	ray := core.NewRay(core.NewVec3(10, 0, 0), core.NewVec3(-1, 0, 0))
	hit, isHit := inst.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("expected hit on translated sphere")
	}

	if math.Abs(hit.T-4.0) > 1e-9 {
		t.Errorf("expected t=4, got t=%f", hit.T)
	}

	expectedPoint := core.NewVec3(6, 0, 0)
	if hit.Point.Subtract(expectedPoint).Length() > 1e-9 {
		t.Errorf("expected hit point %v, got %v", expectedPoint, hit.Point)
	}

	expectedNormal := core.NewVec3(1, 0, 0)
	if hit.Normal.Subtract(expectedNormal).Length() > 1e-9 {
		t.Errorf("expected normal %v, got %v", expectedNormal, hit.Normal)
	}
}

func TestInstanceScaleGrowsSphere(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, DummyMaterial{})
	inst := NewInstance(sphere).Scale(2, 2, 2)

	ray := core.NewRay(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0))
	hit, isHit := inst.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("expected hit on scaled sphere")
	}

	if math.Abs(hit.T-3.0) > 1e-9 {
		t.Errorf("expected t=3, got t=%f", hit.T)
	}

	expectedPoint := core.NewVec3(2, 0, 0)
	if hit.Point.Subtract(expectedPoint).Length() > 1e-9 {
		t.Errorf("expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestInstanceComposesTranslateThenScale(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, DummyMaterial{})
	// Translate first, then Scale: later ops apply after earlier ones, so
	// the translated center gets scaled too.
	inst := NewInstance(sphere).Translate(5, 0, 0).Scale(2, 2, 2)

	bbox := inst.BoundingBox()
	expectedMin := core.NewVec3(8, -2, -2)
	expectedMax := core.NewVec3(12, 2, 2)

	const tolerance = 1e-9
	if bbox.Min.Subtract(expectedMin).Length() > tolerance {
		t.Errorf("expected min %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max.Subtract(expectedMax).Length() > tolerance {
		t.Errorf("expected max %v, got %v", expectedMax, bbox.Max)
	}

	ray := core.NewRay(core.NewVec3(20, 0, 0), core.NewVec3(-1, 0, 0))
	hit, isHit := inst.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("expected hit on composed instance")
	}
	if math.Abs(hit.T-8.0) > 1e-9 {
		t.Errorf("expected t=8, got t=%f", hit.T)
	}
}

func TestInstanceRotateYMatchesVec3Rotate(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, DummyMaterial{})
	inst := NewInstance(sphere).Translate(2, 0, 0).RotateY(math.Pi / 2)

	// world(p) = R_y(p) + R_y applied after translate, per compose semantics:
	// combined translate = R_y * (2,0,0) = (0,0,-2).
	bbox := inst.BoundingBox()
	expectedCenter := core.NewVec3(0, 0, -2)
	center := bbox.Center()
	if center.Subtract(expectedCenter).Length() > 1e-9 {
		t.Errorf("expected center %v, got %v", expectedCenter, center)
	}
}

func TestInstanceToOriginRecenters(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, DummyMaterial{})
	inst := NewInstance(sphere).Translate(3, 4, 5).ToOrigin()

	bbox := inst.BoundingBox()
	center := bbox.Center()
	if center.Length() > 1e-9 {
		t.Errorf("expected instance recentered at origin, got center %v", center)
	}

	ray := core.NewRay(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0))
	hit, isHit := inst.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("expected hit after recentering")
	}
	if math.Abs(hit.T-4.0) > 1e-9 {
		t.Errorf("expected t=4, got t=%f", hit.T)
	}
}

func TestInstanceHitMissReturnsFalse(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, DummyMaterial{})
	inst := NewInstance(sphere).Translate(0, 10, 0)

	ray := core.NewRay(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0))
	_, isHit := inst.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Error("expected miss on instance translated out of the ray's path")
	}
}

func TestInstanceUniformScalePreservesSurfaceNormalDirection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, DummyMaterial{})
	// Uniform scale keeps the sphere a sphere, so the normal at the point
	// hit along +X must still point along +X regardless of scale factor.
	inst := NewInstance(sphere).Scale(3, 3, 3)

	ray := core.NewRay(core.NewVec3(10, 0, 0), core.NewVec3(-1, 0, 0))
	hit, isHit := inst.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("expected hit")
	}

	expectedNormal := core.NewVec3(1, 0, 0)
	if hit.Normal.Subtract(expectedNormal).Length() > 1e-9 {
		t.Errorf("expected normal %v, got %v", expectedNormal, hit.Normal)
	}
}
