package scene

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/ekarpp/spuristo/pkg/core"
	"github.com/ekarpp/spuristo/pkg/geometry"
	"github.com/ekarpp/spuristo/pkg/loaders"
	"github.com/ekarpp/spuristo/pkg/material"
	"github.com/ekarpp/spuristo/pkg/renderer"
)

// dragonPLYCandidates are the paths searched for the dragon mesh, in order,
// covering both a CLI invocation from the repo root and a server process
// started from a subdirectory.
var dragonPLYCandidates = []string{
	"models/dragon_remeshed.ply",
	"../models/dragon_remeshed.ply",
}

// NewDragonScene builds a scene around the Stanford dragon PLY mesh, camera
// and lighting matched to the reference PBRT scene this was ported from.
// loadMesh=false skips the (expensive) mesh load and leaves the rest of the
// scene — camera, ground, lights — usable for inspecting configuration.
func NewDragonScene(loadMesh bool, cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := dragonCameraConfig(cameraOverrides...)

	s := &Scene{
		Camera:       renderer.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		TopColor:     core.NewVec3(0.5, 0.7, 1.0),
		BottomColor:  core.Vec3{},
		Shapes:       make([]core.Shape, 0),
		Lights:       make([]core.Light, 0),
		Config:       dragonSamplingConfig(),
	}

	attachDragonLight(s)
	attachDragonGround(s)

	if loadMesh {
		loadDragonMesh(s)
	} else {
		fmt.Println("dragon scene: skipping mesh load, configuration only")
	}

	return s
}

// dragonCameraConfig reproduces the PBRT scene's camera block
// (LookAt 277 -240 250  0 60 -30  0 0 1, 33° vfov, 900x900) in a Z-up frame.
func dragonCameraConfig(cameraOverrides ...renderer.CameraConfig) renderer.CameraConfig {
	base := renderer.CameraConfig{
		Center:        core.NewVec3(277, -240, 250),
		LookAt:        core.NewVec3(0, 60, -30),
		Up:            core.NewVec3(0, 0, 1),
		Width:         900,
		AspectRatio:   1.0,
		VFov:          33.0,
		Aperture:      0.0,
		FocusDistance: 0.0,
	}

	if len(cameraOverrides) > 0 {
		return renderer.MergeCameraConfig(base, cameraOverrides[0])
	}
	return base
}

// dragonSamplingConfig favors quality and deep bounces over throughput: a
// ~250k-triangle mesh needs more Russian-roulette runway than a simple
// Cornell box before the variance in long specular/metal paths settles.
func dragonSamplingConfig() core.SamplingConfig {
	return core.SamplingConfig{
		SamplesPerPixel:           200,
		MaxDepth:                  50,
		RussianRouletteMinBounces: 15,
	}
}

// attachDragonLight adds a single key light positioned behind and above the
// dragon, out of the camera's view, for hard directional shadows.
func attachDragonLight(s *Scene) {
	s.AddSphereLight(
		core.NewVec3(0, 200, 800),
		300.0,
		core.NewVec3(15.0, 14.0, 12.0).Multiply(0.25),
	)
}

// attachDragonGround matches the PBRT scene's ground plane at Z = -40 with a
// Z-up normal.
func attachDragonGround(s *Scene) {
	groundMaterial := material.NewLambertian(core.NewVec3(0.6, 0.6, 0.6))
	ground := geometry.NewPlane(
		core.NewVec3(0, 0, -40),
		core.NewVec3(0, 0, 1),
		groundMaterial,
	)
	s.Shapes = append(s.Shapes, ground)
}

// loadDragonMesh locates and loads the dragon PLY file, applying the PBRT
// scene's -53° Y rotation, and falls back to a placeholder sphere if the
// mesh can't be found or fails to parse.
func loadDragonMesh(s *Scene) {
	dragonMaterial := material.NewMetal(core.NewVec3(0.7, 0.5, 0.2), 0.2)

	dragonPath, found := firstExistingPath(dragonPLYCandidates)
	if !found {
		fmt.Println("dragon scene: mesh not found, checked:")
		for _, p := range dragonPLYCandidates {
			fmt.Printf("  - %s\n", p)
		}
		return
	}

	fmt.Printf("loading dragon mesh from %s\n", dragonPath)
	start := time.Now()
	plyData, err := loaders.LoadPLY(dragonPath)
	if err != nil {
		fmt.Printf("dragon scene: failed to load PLY data: %v\n", err)
		fmt.Println("dragon scene: adding placeholder sphere instead")
		s.Shapes = append(s.Shapes, geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, dragonMaterial))
		return
	}
	fmt.Printf("dragon scene: loaded %d vertices, %d triangles in %v\n",
		len(plyData.Vertices), len(plyData.Faces)/3, time.Since(start))

	rotation := core.NewVec3(0, -53.0*math.Pi/180.0, 0)
	origin := core.Vec3{}
	meshOptions := &geometry.TriangleMeshOptions{
		Rotation: &rotation,
		Center:   &origin,
	}
	if len(plyData.Normals) > 0 {
		meshOptions.Normals = plyData.Normals
	}

	meshStart := time.Now()
	dragonMesh := geometry.NewTriangleMesh(plyData.Vertices, plyData.Faces, dragonMaterial, meshOptions)
	fmt.Printf("dragon scene: built mesh (%d triangles) in %v\n",
		dragonMesh.GetTriangleCount(), time.Since(meshStart))

	s.Shapes = append(s.Shapes, dragonMesh)
}

// firstExistingPath returns the first path in candidates that exists on disk.
func firstExistingPath(candidates []string) (string, bool) {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
