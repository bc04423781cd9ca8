package core

// Logger is satisfied by anything that can receive printf-style progress
// and diagnostic output (the renderer and loaders only ever depend on this,
// never on *log.Logger directly).
type Logger interface {
	Printf(format string, args ...interface{})
}

// TransportMode distinguishes a path traced from the camera (Radiance) from
// one traced from a light (Importance). The two differ only in how a
// dielectric BTDF's non-symmetry term is scaled; see Material implementations
// in pkg/material.
type TransportMode int

const (
	Radiance TransportMode = iota
	Importance
)

// Shape is anything that can be intersected by a ray and bounded by an AABB.
// Acceleration structures (pkg/accel), instances and primitives (pkg/geometry)
// all satisfy this.
type Shape interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
	BoundingBox() AABB
}

// Accelerator wraps a whole-scene acceleration structure (the SAH kd-tree in
// pkg/accel) behind the one method the integrator actually calls.
type Accelerator interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
}

// HitRecord describes a ray-surface intersection in world space. Normal is
// the shading normal nₛ (what BSDFs build their ONB from); GeometricNormal
// is the true surface normal n_g of the underlying triangle/primitive. The
// two differ only where a shape interpolates per-vertex shading normals
// (smooth-shaded triangle meshes) — everywhere else GeometricNormal equals
// Normal.
type HitRecord struct {
	Point           Vec3
	Normal          Vec3 // shading normal, negated whenever GeometricNormal is
	GeometricNormal Vec3 // geometric normal, flipped to face the incoming ray
	T               float64
	UV              Vec2
	FrontFace       bool
	Material        Material
}

// SetFaceNormal orients outwardNormal to face the ray origin and records
// whether the hit was on the front (outward-facing) side of the surface.
// Shading and geometric normal are the same vector; shapes with no
// independent shading normal (everything but a smooth-shaded mesh) use
// this.
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
	h.GeometricNormal = h.Normal
}

// SetShadingNormal orients geometricNormal and an independently
// interpolated shadingNormal to face the incoming ray. Front/back is
// decided from the geometric normal alone, since an interpolated shading
// normal near a silhouette edge can point away from the ray even on the
// front face.
func (h *HitRecord) SetShadingNormal(ray Ray, geometricNormal, shadingNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(geometricNormal) < 0
	if h.FrontFace {
		h.GeometricNormal = geometricNormal
		h.Normal = shadingNormal
	} else {
		h.GeometricNormal = geometricNormal.Negate()
		h.Normal = shadingNormal.Negate()
	}
}

// ScatterResult is what a Material produces when asked to continue a path.
// PDF <= 0 marks a specular (delta) scattering event: the integrator must not
// attempt next-event estimation against a specular surface and must not
// divide by PDF.
type ScatterResult struct {
	Incoming    Ray
	Scattered   Ray
	Attenuation Vec3
	PDF         float64
}

// IsSpecular reports whether this scattering event came from a delta BxDF.
func (s ScatterResult) IsSpecular() bool {
	return s.PDF <= 0
}

// Material is the world-space facade the integrator talks to. Concrete
// materials build a shading-space ONB at the hit point and evaluate their
// BSDF aggregate (pkg/material) in that frame, converting back to world
// space at the boundary.
type Material interface {
	// Scatter imports a continuation direction for the path, biased toward
	// the material's BSDF.
	Scatter(rayIn Ray, hit *HitRecord, sampler Sampler) (ScatterResult, bool)

	// EvaluateBSDF returns f(wi, wo) for an explicitly chosen outgoing
	// direction (used by next-event estimation against a sampled light).
	EvaluateBSDF(incomingDir, outgoingDir Vec3, hit *HitRecord) Vec3

	// PDFBSDF returns the solid-angle density of sampling outgoingDir from
	// Scatter, and whether the material is a delta distribution (in which
	// case direct lighting against it is meaningless and pdf is undefined).
	PDFBSDF(incomingDir, outgoingDir Vec3, hit *HitRecord) (pdf float64, isDelta bool)
}

// Emitter is implemented by materials that emit radiance (area lights are
// ordinary Shapes whose Material also implements Emitter).
type Emitter interface {
	Emit(rayIn Ray) Vec3
}

// LightSample is a single light-sampling outcome toward a shading point.
type LightSample struct {
	Point     Vec3
	Normal    Vec3
	Direction Vec3 // unit, from shading point toward the light
	Distance  float64
	Emission  Vec3
	PDF       float64 // solid-angle measure at the shading point
}

// Light is a source the integrator can sample for next-event estimation.
type Light interface {
	// Sample draws a direction toward the light from point (with surface
	// normal, used by infinite lights to restrict sampling to the visible
	// hemisphere).
	Sample(point, normal Vec3, u Vec2) LightSample

	// PDF returns the solid-angle density of Sample producing direction.
	PDF(point, normal, direction Vec3) float64

	// Emit evaluates the light's emission along a ray that escaped the
	// scene (background/infinite lights) or hit the light's own geometry.
	Emit(ray Ray) Vec3
}

// LightSampler picks one light among many for next-event estimation.
type LightSampler interface {
	SampleLight(point, normal Vec3, u float64) (Light, float64, int)
	GetLightProbability(lightIndex int, point, normal Vec3) float64
	GetLightCount() int
}

// SplatRay lets an integrator deposit radiance at a pixel other than the one
// it was launched from (used by specular-light connections). The base path
// tracer never produces any; it exists so the interface also fits an
// eventual bidirectional integrator.
type SplatRay struct {
	X, Y  int
	Color Vec3
}

// SamplingConfig holds the per-render sampling policy.
type SamplingConfig struct {
	Width                     int
	Height                    int
	SamplesPerPixel           int
	MaxDepth                  int
	RussianRouletteMinBounces int
}

// Camera generates primary rays for a film-plane location in [0,1]x[0,1].
type Camera interface {
	GetRay(s, t float64, sampler Sampler) Ray
}

// Scene is the aggregate the integrator queries: intersection, lights and
// the background seen by escaping rays.
type Scene interface {
	GetAccelerator() Accelerator
	GetLights() []Light
	GetLightSampler() LightSampler
	GetBackgroundColors() (top, bottom Vec3)
	GetCamera() Camera
	SamplingConfig() SamplingConfig
}

// Integrator computes the radiance arriving along a camera ray.
type Integrator interface {
	RayColor(ray Ray, scene Scene, sampler Sampler) (Vec3, []SplatRay)
}
