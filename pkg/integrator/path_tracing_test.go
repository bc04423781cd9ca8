package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ekarpp/spuristo/pkg/accel"
	"github.com/ekarpp/spuristo/pkg/core"
	"github.com/ekarpp/spuristo/pkg/geometry"
	"github.com/ekarpp/spuristo/pkg/material"
)

// mockScene implements core.Scene for testing.
type mockScene struct {
	shapes       []core.Shape
	lights       []core.Light
	lightSampler core.LightSampler
	topColor     core.Vec3
	bottomColor  core.Vec3
	camera       core.Camera
	config       core.SamplingConfig
	tree         *accel.KDTree
}

func (m *mockScene) GetCamera() core.Camera                      { return m.camera }
func (m *mockScene) GetBackgroundColors() (core.Vec3, core.Vec3) { return m.topColor, m.bottomColor }
func (m *mockScene) GetLights() []core.Light                     { return m.lights }
func (m *mockScene) GetLightSampler() core.LightSampler           { return m.lightSampler }
func (m *mockScene) SamplingConfig() core.SamplingConfig          { return m.config }
func (m *mockScene) GetAccelerator() core.Accelerator {
	if m.tree == nil {
		m.tree = accel.NewKDTree(m.shapes)
	}
	return m.tree
}

// mockCamera implements core.Camera for testing.
type mockCamera struct{}

func (m *mockCamera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	return core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
}

func newSampler(seed int64) core.Sampler {
	return core.NewSampler(rand.New(rand.NewSource(seed)))
}

func createTestScene() *mockScene {
	lambertian := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, lambertian)

	return &mockScene{
		shapes:      []core.Shape{sphere},
		lights:      []core.Light{},
		topColor:    core.NewVec3(0.5, 0.7, 1.0),
		bottomColor: core.NewVec3(1.0, 1.0, 1.0),
		camera:      &mockCamera{},
		config: core.SamplingConfig{
			MaxDepth:                  10,
			RussianRouletteMinBounces: 5,
		},
	}
}

func TestPathTracingBackgroundGradient(t *testing.T) {
	scene := createTestScene()
	integrator := NewPathTracingIntegrator(scene.SamplingConfig())

	upRay := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	upColor := integrator.BackgroundGradient(upRay, scene)

	downRay := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))
	downColor := integrator.BackgroundGradient(downRay, scene)

	if upColor == downColor {
		t.Error("Expected different colors for up and down rays")
	}

	if upColor.Z < downColor.Z {
		t.Error("Expected up ray to have more blue component")
	}

	for _, color := range []core.Vec3{upColor, downColor} {
		if color.X < 0 || color.Y < 0 || color.Z < 0 {
			t.Errorf("Color has negative components: %v", color)
		}
		if color.X > 1 || color.Y > 1 || color.Z > 1 {
			t.Errorf("Color has components > 1: %v", color)
		}
	}
}

func TestPathTracingDepthTermination(t *testing.T) {
	scene := createTestScene()

	zeroDepthIntegrator := NewPathTracingIntegrator(core.SamplingConfig{
		MaxDepth:                  0,
		RussianRouletteMinBounces: 10,
	})
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	colorDepth0, _ := zeroDepthIntegrator.RayColor(ray, scene, newSampler(1))
	if colorDepth0 != (core.Vec3{}) {
		t.Errorf("Expected black color for depth 0, got %v", colorDepth0)
	}

	deepIntegrator := NewPathTracingIntegrator(core.SamplingConfig{
		MaxDepth:                  2,
		RussianRouletteMinBounces: 10,
	})
	colorDepth2, _ := deepIntegrator.RayColor(ray, scene, newSampler(1))
	if colorDepth2 == (core.Vec3{}) {
		t.Error("Expected non-black color for positive depth")
	}
}

func TestPathTracingRussianRoulette(t *testing.T) {
	integrator := NewPathTracingIntegrator(core.SamplingConfig{
		MaxDepth:                  50,
		RussianRouletteMinBounces: 1,
	})

	lowThroughput := core.Vec3{X: 0.01, Y: 0.01, Z: 0.01}
	terminationCount := 0
	testCount := 100

	for i := 0; i < testCount; i++ {
		random := rand.New(rand.NewSource(int64(i)))
		shouldTerminate, _ := integrator.ApplyRussianRoulette(40, lowThroughput, random.Float64())
		if shouldTerminate {
			terminationCount++
		}
	}

	if terminationCount == 0 {
		t.Error("Expected some Russian roulette terminations with low throughput")
	}
	if terminationCount >= testCount {
		t.Error("Expected some rays to survive Russian roulette")
	}

	highThroughput := core.Vec3{X: 0.9, Y: 0.9, Z: 0.9}
	highTerminationCount := 0
	for i := 0; i < testCount; i++ {
		random := rand.New(rand.NewSource(int64(i)))
		shouldTerminate, _ := integrator.ApplyRussianRoulette(40, highThroughput, random.Float64())
		if shouldTerminate {
			highTerminationCount++
		}
	}

	if highTerminationCount >= terminationCount {
		t.Error("Expected high throughput to terminate less often than low throughput")
	}
}

func TestPathTracingSpecularMaterial(t *testing.T) {
	metal := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, metal)

	scene := &mockScene{
		shapes:      []core.Shape{sphere},
		lights:      []core.Light{},
		topColor:    core.NewVec3(0.5, 0.7, 1.0),
		bottomColor: core.NewVec3(1.0, 1.0, 1.0),
		camera:      &mockCamera{},
		config: core.SamplingConfig{
			MaxDepth:                  10,
			RussianRouletteMinBounces: 5,
		},
	}

	integrator := NewPathTracingIntegrator(scene.SamplingConfig())
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	color, _ := integrator.RayColor(ray, scene, newSampler(42))

	if color == (core.Vec3{}) {
		t.Error("Expected non-black color from metallic reflection")
	}
	if color.X > 2 || color.Y > 2 || color.Z > 2 {
		t.Errorf("Expected reasonable color values, got %v", color)
	}
}

func TestPathTracingEmissiveMaterial(t *testing.T) {
	emission := core.NewVec3(2.0, 1.0, 0.5)
	emissive := material.NewEmissive(emission)
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, emissive)

	scene := &mockScene{
		shapes:      []core.Shape{sphere},
		lights:      []core.Light{},
		topColor:    core.NewVec3(0.0, 0.0, 0.0),
		bottomColor: core.NewVec3(0.0, 0.0, 0.0),
		camera:      &mockCamera{},
		config: core.SamplingConfig{
			MaxDepth:                  10,
			RussianRouletteMinBounces: 10,
		},
	}

	integrator := NewPathTracingIntegrator(scene.SamplingConfig())
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	color, _ := integrator.RayColor(ray, scene, newSampler(42))

	if color == (core.Vec3{}) {
		t.Error("Expected emitted light, got black")
	}
	if color.X <= color.Y || color.Y <= color.Z {
		t.Errorf("Expected emission color pattern (R>G>B), got %v", color)
	}
}

func TestPathTracingMissedRay(t *testing.T) {
	scene := createTestScene()
	integrator := NewPathTracingIntegrator(scene.SamplingConfig())

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	color, _ := integrator.RayColor(ray, scene, newSampler(42))

	if color == (core.Vec3{}) {
		t.Error("Expected background color, got black")
	}

	expectedBg := integrator.BackgroundGradient(ray, scene)
	tolerance := 0.01
	if math.Abs(color.X-expectedBg.X) > tolerance ||
		math.Abs(color.Y-expectedBg.Y) > tolerance ||
		math.Abs(color.Z-expectedBg.Z) > tolerance {
		t.Errorf("Expected background color %v, got %v", expectedBg, color)
	}
}

func TestPathTracingDeterministic(t *testing.T) {
	scene := createTestScene()
	integrator := NewPathTracingIntegrator(scene.SamplingConfig())

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	color1, _ := integrator.RayColor(ray, scene, newSampler(42))
	color2, _ := integrator.RayColor(ray, scene, newSampler(42))

	if color1 != color2 {
		t.Errorf("Expected deterministic results, got %v and %v", color1, color2)
	}
}
