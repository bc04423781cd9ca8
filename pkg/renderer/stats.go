package renderer

import "github.com/ekarpp/spuristo/pkg/core"

// RenderStats summarizes one completed render pass (or tile) for reporting
// to the caller; it carries no information the renderer itself consumes.
type RenderStats struct {
	TotalPixels    int
	TotalSamples   int
	AverageSamples float64
	MaxSamples     int
	MinSamples     int
	MaxSamplesUsed int
}

// PixelStats accumulates every sample taken for one pixel across however
// many progressive passes it takes to reach its target sample count.
// Luminance (not per-channel color) is accumulated separately because
// variance-based stopping criteria compare scalar luminance, not RGB.
type PixelStats struct {
	ColorAccum       core.Vec3
	LuminanceAccum   float64
	LuminanceSqAccum float64
	SampleCount      int
}

// AddSample folds one more radiance sample into the running accumulators.
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the mean of every sample accumulated so far.
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}
