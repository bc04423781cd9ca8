package loaders

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ekarpp/spuristo/pkg/core"
)

// RenderConfig is the on-disk, YAML form of a render job: which scene to
// build and what sampling policy to run it with. It deliberately mirrors
// only core.SamplingConfig's fields rather than importing pkg/scene or
// pkg/renderer, so loaders never depends on the packages that depend on
// it.
type RenderConfig struct {
	Scene   string        `yaml:"scene"`
	Output  string        `yaml:"output"`
	Width   int           `yaml:"width"`
	Height  int           `yaml:"height"`
	Camera  *CameraConfig `yaml:"camera,omitempty"`
	Sampler SamplerConfig `yaml:"sampler"`
}

// CameraConfig is the YAML-serializable mirror of renderer.CameraConfig.
// CenterVec, LookAtVec and UpVec convert its plain float fields to
// core.Vec3 for callers that build a renderer.CameraConfig from it.
type CameraConfig struct {
	Center        [3]float64 `yaml:"center"`
	LookAt        [3]float64 `yaml:"look_at"`
	Up            [3]float64 `yaml:"up"`
	VFov          float64    `yaml:"vfov"`
	Aperture      float64    `yaml:"aperture"`
	FocusDistance float64    `yaml:"focus_distance"`
}

// CenterVec returns Center as a core.Vec3.
func (c CameraConfig) CenterVec() core.Vec3 { return core.NewVec3(c.Center[0], c.Center[1], c.Center[2]) }

// LookAtVec returns LookAt as a core.Vec3.
func (c CameraConfig) LookAtVec() core.Vec3 {
	return core.NewVec3(c.LookAt[0], c.LookAt[1], c.LookAt[2])
}

// UpVec returns Up as a core.Vec3, defaulting to +Y when unset.
func (c CameraConfig) UpVec() core.Vec3 {
	if c.Up == ([3]float64{}) {
		return core.NewVec3(0, 1, 0)
	}
	return core.NewVec3(c.Up[0], c.Up[1], c.Up[2])
}

// SamplerConfig is the YAML mirror of core.SamplingConfig, minus Width and
// Height (the top-level RenderConfig owns those, since they're also the
// output image dimensions).
type SamplerConfig struct {
	SamplesPerPixel           int `yaml:"samples_per_pixel"`
	MaxDepth                  int `yaml:"max_depth"`
	RussianRouletteMinBounces int `yaml:"russian_roulette_min_bounces"`
}

// ToSamplingConfig builds a core.SamplingConfig from the render config,
// folding in the top-level image dimensions.
func (c *RenderConfig) ToSamplingConfig() core.SamplingConfig {
	return core.SamplingConfig{
		Width:                     c.Width,
		Height:                    c.Height,
		SamplesPerPixel:           c.Sampler.SamplesPerPixel,
		MaxDepth:                  c.Sampler.MaxDepth,
		RussianRouletteMinBounces: c.Sampler.RussianRouletteMinBounces,
	}
}

// LoadRenderConfig reads and validates a YAML render-configuration file.
func LoadRenderConfig(filename string) (*RenderConfig, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read render config: %v", err)
	}

	cfg := &RenderConfig{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse render config: %v", err)
	}

	if cfg.Scene == "" {
		return nil, fmt.Errorf("render config: scene is required")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("render config: width and height must be positive, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Sampler.SamplesPerPixel <= 0 {
		return nil, fmt.Errorf("render config: sampler.samples_per_pixel must be positive")
	}
	if cfg.Sampler.MaxDepth <= 0 {
		return nil, fmt.Errorf("render config: sampler.max_depth must be positive")
	}

	return cfg, nil
}
