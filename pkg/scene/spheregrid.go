package scene

import (
	"math"

	"github.com/ekarpp/spuristo/pkg/core"
	"github.com/ekarpp/spuristo/pkg/geometry"
	"github.com/ekarpp/spuristo/pkg/material"
	"github.com/ekarpp/spuristo/pkg/renderer"
)

// oklchToVec3 converts an OKLCH color (L in [0,1], C roughly in [0,0.4],
// H in degrees) to linear RGB via the OKLAB intermediate space, clamped to
// [0,1]. Björn Ottosson's OKLAB->linear-sRGB matrices.
func oklchToVec3(lightness, chroma, hueDegrees float64) core.Vec3 {
	hueRad := hueDegrees * math.Pi / 180.0
	a := chroma * math.Cos(hueRad)
	b := chroma * math.Sin(hueRad)

	l := lightness + 0.3963377774*a + 0.2158037573*b
	m := lightness - 0.1055613458*a - 0.0638541728*b
	s := lightness - 0.0894841775*a - 1.2914855480*b
	l, m, s = l*l*l, m*m*m, s*s*s

	r := 4.0767416621*l - 3.3077115913*m + 0.2309699292*s
	g := -1.2684380046*l + 2.6097574011*m - 0.3413193965*s
	blue := -0.0041960863*l - 0.7034186147*m + 1.7076147010*s

	clamp := func(x float64) float64 { return math.Max(0, math.Min(1, x)) }
	return core.NewVec3(clamp(r), clamp(g), clamp(blue))
}

// sphereGridParams bundles the layout constants for NewSphereGridScene's
// grid, derived once so the per-sphere loop stays a straight read.
type sphereGridParams struct {
	count            int
	spacing          float64
	radius           float64
	centerX, centerZ float64
}

func newSphereGridParams(count int) sphereGridParams {
	const targetArea = 9.0
	spacing := targetArea / float64(count-1)
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))
	return sphereGridParams{count: count, spacing: spacing, radius: radius, centerX: 4.5, centerZ: 4.5}
}

func (p sphereGridParams) position(i, j int) core.Vec3 {
	half := float64(p.count-1) * p.spacing / 2.0
	x := float64(i)*p.spacing - half + p.centerX
	z := float64(j)*p.spacing - half + p.centerZ
	return core.NewVec3(x, p.radius, z)
}

// color picks a metal tint by mapping grid position i,j onto OKLCH hue
// (across i) and chroma (across j), with a small lightness ripple so
// adjacent spheres aren't visually identical.
func (p sphereGridParams) color(i, j int) core.Vec3 {
	const baseLightness, minChroma, maxChroma = 0.65, 0.05, 0.25
	hue := float64(i) / float64(p.count-1) * 360.0
	chroma := minChroma + float64(j)/float64(p.count-1)*(maxChroma-minChroma)
	lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
	return oklchToVec3(lightness, chroma, hue)
}

func (p sphereGridParams) roughness(i, j int) float64 {
	return 0.05 + 0.1*float64((i+j)%3)/2.0
}

// NewSphereGridScene builds a 20x20 grid of metal spheres over a diffuse
// ground plane, each sphere's color and roughness derived from its grid
// position — a dense-shape stress scene for the acceleration structure and
// for metal/Fresnel BxDF variety.
func NewSphereGridScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(4.5, 6, 18),
		LookAt:        core.NewVec3(4.5, 0.8, 4.5),
		Up:            core.NewVec3(0, 1, 0),
		Width:         800,
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0,
		Aperture:      0.02,
		FocusDistance: 0.0,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	s := &Scene{
		Camera:       renderer.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		TopColor:     core.NewVec3(0.5, 0.7, 1.0),
		BottomColor:  core.NewVec3(1.0, 1.0, 1.0),
		Shapes:       make([]core.Shape, 0),
		Lights:       make([]core.Light, 0),
		Config: core.SamplingConfig{
			SamplesPerPixel:           100,
			MaxDepth:                  40,
			RussianRouletteMinBounces: 12,
		},
	}

	s.AddSphereLight(core.NewVec3(20, 25, 20), 8, core.NewVec3(12.0, 11.5, 10.0))

	ground := geometry.NewPlane(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 1, 0),
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)),
	)
	s.Shapes = append(s.Shapes, ground)

	grid := newSphereGridParams(20)
	for i := 0; i < grid.count; i++ {
		for j := 0; j < grid.count; j++ {
			mat := material.NewMetal(grid.color(i, j), grid.roughness(i, j))
			s.Shapes = append(s.Shapes, geometry.NewSphere(grid.position(i, j), grid.radius, mat))
		}
	}

	return s
}
