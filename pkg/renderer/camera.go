package renderer

import (
	"math"

	"github.com/ekarpp/spuristo/pkg/core"
)

// Projection selects between the two camera models spec §4.7 describes.
type Projection int

const (
	// Perspective projects raster coordinates through a focal plane.
	Perspective Projection = iota
	// Orthographic emits parallel rays offset by camera-space coordinates.
	Orthographic
)

// CameraConfig describes a camera before its basis vectors are derived.
// Width/AspectRatio determine the image resolution (Height is derived).
type CameraConfig struct {
	Center        core.Vec3
	LookAt        core.Vec3
	Up            core.Vec3
	Width         int
	AspectRatio   float64
	VFov          float64 // vertical field of view in degrees, Perspective only
	Aperture      float64 // lens diameter; 0 disables depth-of-field jitter
	FocusDistance float64 // 0 auto-calculates from Center/LookAt distance
	Scale         float64 // half-height of the view volume, Orthographic only
	Projection    Projection
}

// Camera generates primary rays for a raster image. It supports both a
// perspective projection with optional depth-of-field and an orthographic
// projection with parallel rays, selected by CameraConfig.Projection.
type Camera struct {
	origin core.Vec3
	right  core.Vec3 // camera-space +x
	down   core.Vec3 // camera-space +y (raster rows grow downward)
	toward core.Vec3 // camera-space +z, the optical axis

	projection Projection

	// Perspective-only state.
	halfHeight    float64
	halfWidth     float64
	lensRadius    float64
	focusDistance float64

	// Orthographic-only state.
	scale       float64
	aspectRatio float64

	width, height int
}

// NewCamera derives a camera's ONB and projection parameters from config,
// grounded on original_source's _camera_basis: right = forward×up, down =
// forward×right, placing the image plane at z=+1 in local coordinates.
func NewCamera(config CameraConfig) *Camera {
	forward := config.LookAt.Subtract(config.Center).Normalize()
	right := forward.Cross(config.Up).Normalize()
	down := forward.Cross(right)

	height := int(float64(config.Width) / config.AspectRatio)
	if height < 1 {
		height = 1
	}

	c := &Camera{
		origin:      config.Center,
		right:       right,
		down:        down,
		toward:      forward,
		projection:  config.Projection,
		aspectRatio: config.AspectRatio,
		width:       config.Width,
		height:      height,
	}

	switch config.Projection {
	case Orthographic:
		c.scale = config.Scale
		if c.scale <= 0 {
			c.scale = 1.0
		}
	default:
		focusDistance := config.FocusDistance
		if focusDistance <= 0 {
			focusDistance = config.LookAt.Subtract(config.Center).Length()
			if focusDistance <= 0 {
				focusDistance = 1.0
			}
		}
		theta := config.VFov * math.Pi / 180.0
		c.halfHeight = math.Tan(theta/2.0) * focusDistance
		c.halfWidth = c.halfHeight * config.AspectRatio
		c.lensRadius = config.Aperture / 2.0
		c.focusDistance = focusDistance
	}

	return c
}

// MergeCameraConfig overlays any non-zero field of override onto base,
// letting scene builders expose a default camera while still accepting a
// caller-supplied partial override (e.g. just a different Width/AspectRatio
// for a thumbnail render).
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	merged := base
	if override.Width != 0 {
		merged.Width = override.Width
	}
	if override.AspectRatio != 0 {
		merged.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		merged.VFov = override.VFov
	}
	if override.Aperture != 0 {
		merged.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		merged.FocusDistance = override.FocusDistance
	}
	if override.Scale != 0 {
		merged.Scale = override.Scale
	}
	if override.Center != (core.Vec3{}) {
		merged.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		merged.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		merged.Up = override.Up
	}
	return merged
}

// GetCameraForward returns the camera's optical axis in world space.
func (c *Camera) GetCameraForward() core.Vec3 { return c.toward }

// Resolution returns the image width and height in pixels.
func (c *Camera) Resolution() (int, int) { return c.width, c.height }

// GetRay implements core.Camera. s and t are raster coordinates normalized
// to [0,1], per spec §4.7's (i+ξx, j+ξy)/(W,H) pixel-sample mapping; the
// caller is responsible for adding the per-sample jitter before calling.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	// NDC in [-1,1]^2, with +y pointing down the raster (row-major image).
	ndcX := 2.0*s - 1.0
	ndcY := 2.0*t - 1.0

	if c.projection == Orthographic {
		offset := c.right.Multiply(ndcX * c.scale).Add(c.down.Multiply(ndcY * c.scale))
		origin := c.origin.Add(offset)
		return core.NewRay(origin, c.toward)
	}

	pointOnPlane := c.toward.Multiply(c.focusDistance).
		Add(c.right.Multiply(ndcX * c.halfWidth)).
		Add(c.down.Multiply(ndcY * c.halfHeight))

	origin := c.origin
	if c.lensRadius > 0 {
		lens := core.ConcentricSampleDisk(sampler.Get2D()).Multiply(c.lensRadius)
		lensOffset := c.right.Multiply(lens.X).Add(c.down.Multiply(lens.Y))
		origin = origin.Add(lensOffset)
		pointOnPlane = pointOnPlane.Subtract(lensOffset)
	}

	direction := pointOnPlane.Normalize()
	return core.NewRay(origin, direction)
}

// CalculateRayPDFs returns the (area, solid-angle direction) PDF pair for a
// ray as if it had been emitted by this camera, used by light-transport
// techniques that need to importance-sample camera-visible points (e.g.
// light tracing). Undefined (both zero) for rays pointing away from the
// camera's forward hemisphere.
func (c *Camera) CalculateRayPDFs(ray core.Ray) (areaPDF, directionPDF float64) {
	cosTheta := ray.Direction.Normalize().Dot(c.toward)
	if cosTheta <= 0 {
		return 0, 0
	}

	sensorWidth := 2 * c.halfWidth
	sensorHeight := 2 * c.halfHeight
	if c.projection == Orthographic {
		sensorWidth = 2 * c.scale
		sensorHeight = 2 * c.scale
	}
	sensorArea := sensorWidth * sensorHeight
	if sensorArea <= 0 {
		return 0, 0
	}

	areaPDF = 1.0 / sensorArea
	directionPDF = 1.0 / (sensorArea * cosTheta * cosTheta * cosTheta)
	return areaPDF, directionPDF
}
