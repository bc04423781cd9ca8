package scene

import (
	"github.com/ekarpp/spuristo/pkg/core"
	"github.com/ekarpp/spuristo/pkg/geometry"
	"github.com/ekarpp/spuristo/pkg/material"
	"github.com/ekarpp/spuristo/pkg/renderer"
)

// cornellBoxSize is the classic 555x555x555-unit Cornell box dimension.
const cornellBoxSize = 555.0

// cornellWall describes one of the box's five quad faces: a corner and two
// edge vectors, in the convention geometry.NewQuad expects.
type cornellWall struct {
	corner, u, v core.Vec3
	mat          core.Material
}

// NewCornellScene builds a standard Cornell box: five lambertian quad walls,
// a rectangular area light let into the ceiling, and a metal and a glass
// sphere for light transport that a pure-diffuse box can't exercise.
func NewCornellScene() *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(278, 278, -800),
		LookAt:        core.NewVec3(278, 278, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   1.0,
		VFov:          40.0,
		Aperture:      0.0,
		FocusDistance: 0.0,
	}

	s := &Scene{
		Camera:      renderer.NewCamera(cameraConfig),
		TopColor:    core.Vec3{},
		BottomColor: core.Vec3{},
		Shapes:      make([]core.Shape, 0),
		Lights:      make([]core.Light, 0),
		Config: core.SamplingConfig{
			SamplesPerPixel:           150,
			MaxDepth:                  40,
			RussianRouletteMinBounces: 4,
		},
	}

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))
	b := cornellBoxSize

	walls := []cornellWall{
		{core.NewVec3(0, 0, 0), core.NewVec3(b, 0, 0), core.NewVec3(0, 0, b), white},      // floor
		{core.NewVec3(0, b, 0), core.NewVec3(b, 0, 0), core.NewVec3(0, 0, b), white},      // ceiling
		{core.NewVec3(0, 0, b), core.NewVec3(b, 0, 0), core.NewVec3(0, b, 0), white},      // back
		{core.NewVec3(0, 0, 0), core.NewVec3(0, 0, b), core.NewVec3(0, b, 0), red},        // left
		{core.NewVec3(b, 0, 0), core.NewVec3(0, b, 0), core.NewVec3(0, 0, b), green},      // right
	}
	for _, w := range walls {
		s.Shapes = append(s.Shapes, geometry.NewQuad(w.corner, w.u, w.v, w.mat))
	}

	lightSize := 130.0
	lightOffset := (b - lightSize) / 2.0
	s.AddQuadLight(
		core.NewVec3(lightOffset, b-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		core.NewVec3(15.0, 15.0, 15.0),
	)

	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(185, 82.5, 169), 82.5, material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0.0)),
		geometry.NewSphere(core.NewVec3(370, 90, 351), 90, material.NewDielectric(1.5)),
	)

	return s
}
