package scene

import (
	"github.com/ekarpp/spuristo/pkg/accel"
	"github.com/ekarpp/spuristo/pkg/core"
	"github.com/ekarpp/spuristo/pkg/geometry"
	"github.com/ekarpp/spuristo/pkg/lights"
	"github.com/ekarpp/spuristo/pkg/material"
	"github.com/ekarpp/spuristo/pkg/renderer"
)

// Scene is the concrete core.Scene: a flat shape list backed by a kd-tree,
// a light list with a sampler, a camera and an escaping-ray background.
type Scene struct {
	Camera       core.Camera
	CameraConfig renderer.CameraConfig
	Shapes       []core.Shape
	Lights       []core.Light
	LightSampler core.LightSampler
	Config       core.SamplingConfig
	TopColor     core.Vec3
	BottomColor  core.Vec3
	accelerator  *accel.KDTree
}

// NewGroundQuad builds a large horizontal quad (normal +Y) centered at
// center, used in place of an infinite ground plane.
func NewGroundQuad(center core.Vec3, size float64, mat core.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	u := core.NewVec3(size, 0, 0)
	v := core.NewVec3(0, 0, size)
	return geometry.NewQuad(corner, u, v, mat)
}

// Preprocess builds the acceleration structure and, if the caller hasn't
// supplied one, a uniform light sampler. Must be called once before the
// scene is handed to a renderer.
func (s *Scene) Preprocess() error {
	s.accelerator = accel.NewKDTree(s.Shapes)

	if s.LightSampler == nil {
		radius := s.accelerator.BoundingBox().Size().Length() / 2
		s.LightSampler = core.NewUniformLightSampler(s.Lights, radius)
	}
	return nil
}

// GetAccelerator implements core.Scene.
func (s *Scene) GetAccelerator() core.Accelerator { return s.accelerator }

// GetLights implements core.Scene.
func (s *Scene) GetLights() []core.Light { return s.Lights }

// GetLightSampler implements core.Scene.
func (s *Scene) GetLightSampler() core.LightSampler { return s.LightSampler }

// GetBackgroundColors implements core.Scene.
func (s *Scene) GetBackgroundColors() (core.Vec3, core.Vec3) { return s.TopColor, s.BottomColor }

// GetCamera implements core.Scene.
func (s *Scene) GetCamera() core.Camera { return s.Camera }

// SamplingConfig implements core.Scene.
func (s *Scene) SamplingConfig() core.SamplingConfig { return s.Config }

// GetPrimitiveCount returns the total number of ray-intersectable primitives,
// expanding triangle meshes to their triangle count.
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		if mesh, ok := shape.(*geometry.TriangleMesh); ok {
			count += mesh.GetTriangleCount()
			continue
		}
		count++
	}
	return count
}

// AddSphereLight adds a spherical area light and its underlying sphere shape.
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) {
	light := lights.NewSphereLight(center, radius, material.NewEmissive(emission))
	s.Lights = append(s.Lights, light)
	s.Shapes = append(s.Shapes, light.Sphere)
}

// AddQuadLight adds a rectangular area light and its underlying quad shape.
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) {
	light := lights.NewQuadLight(corner, u, v, material.NewEmissive(emission))
	s.Lights = append(s.Lights, light)
	s.Shapes = append(s.Shapes, light.Quad)
}

// AddSpotLight adds a disc spot light with cone falloff and its underlying
// disc shape, for direct visibility and caustics.
func (s *Scene) AddSpotLight(from, to, emission core.Vec3, coneAngleDegrees, coneDeltaAngleDegrees, radius float64) {
	light := lights.NewDiscSpotLight(from, to, emission, coneAngleDegrees, coneDeltaAngleDegrees, radius)
	s.Lights = append(s.Lights, light)
	s.Shapes = append(s.Shapes, light.Disc)
}

// AddPointSpotLight adds a zero-area point spot light (no visible shape).
func (s *Scene) AddPointSpotLight(from, to, emission core.Vec3, coneAngleDegrees, coneDeltaAngleDegrees float64) {
	s.Lights = append(s.Lights, lights.NewPointSpotLight(from, to, emission, coneAngleDegrees, coneDeltaAngleDegrees))
}

// AddUniformInfiniteLight adds a constant-color sampled environment light.
func (s *Scene) AddUniformInfiniteLight(emission core.Vec3) {
	s.Lights = append(s.Lights, lights.NewUniformInfiniteLight(emission))
}

// AddGradientInfiniteLight adds a sky-gradient sampled environment light.
func (s *Scene) AddGradientInfiniteLight(topColor, bottomColor core.Vec3) {
	s.Lights = append(s.Lights, lights.NewGradientInfiniteLight(topColor, bottomColor))
}
