package renderer

import (
	"image"
	"math/rand"

	"github.com/ekarpp/spuristo/pkg/core"
)

// TileRenderer renders pixels within a tile's bounds using a core.Integrator,
// taking a fixed number of samples per pixel (no adaptive stopping).
type TileRenderer struct {
	scene      core.Scene
	integrator core.Integrator
	runSeed    int64
}

// NewTileRenderer creates a new tile renderer with the given scene, integrator
// and run seed (the base seed mixed into every per-pixel-per-sample RNG).
func NewTileRenderer(scene core.Scene, integrator core.Integrator, runSeed int64) *TileRenderer {
	return &TileRenderer{
		scene:      scene,
		integrator: integrator,
		runSeed:    runSeed,
	}
}

// RenderTileBounds renders every pixel within bounds up to targetSamples
// samples, writing into the shared pixelStats array and returning any splats
// the integrator produced into splatQueue.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, targetSamples int, splatQueue *SplatQueue) RenderStats {
	camera := tr.scene.GetCamera()
	config := tr.scene.SamplingConfig()

	stats := tr.initRenderStatsForBounds(bounds, targetSamples)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pixelStats[y][x]
			samplesUsed := tr.samplePixel(camera, x, y, config.Width, config.Height, ps, targetSamples, splatQueue)
			tr.updateStats(&stats, samplesUsed)
		}
	}

	tr.finalizeStats(&stats)
	return stats
}

// samplePixel takes exactly (targetSamples - already-taken) samples for one
// pixel, each with its own deterministic seed, and returns the number taken.
func (tr *TileRenderer) samplePixel(camera core.Camera, x, y, width, height int, ps *PixelStats, targetSamples int, splatQueue *SplatQueue) int {
	initial := ps.SampleCount
	for ps.SampleCount < targetSamples {
		seed := pixelSeed(x, y, ps.SampleCount, tr.runSeed)
		sampler := core.NewSampler(rand.New(rand.NewSource(seed)))

		s := (float64(x) + sampler.Get1D()) / float64(width)
		t := (float64(y) + sampler.Get1D()) / float64(height)
		ray := camera.GetRay(s, t, sampler)

		color, splats := tr.integrator.RayColor(ray, tr.scene, sampler)
		ps.AddSample(color)

		if splatQueue != nil {
			for _, splat := range splats {
				splatQueue.AddSplat(splat.X, splat.Y, splat.Color)
			}
		}
	}
	return ps.SampleCount - initial
}

func (tr *TileRenderer) initRenderStatsForBounds(bounds image.Rectangle, targetSamples int) RenderStats {
	pixelCount := bounds.Dx() * bounds.Dy()
	return RenderStats{
		TotalPixels:    pixelCount,
		TotalSamples:   0,
		AverageSamples: 0,
		MaxSamples:     targetSamples,
		MinSamples:     targetSamples,
		MaxSamplesUsed: 0,
	}
}

func (tr *TileRenderer) updateStats(stats *RenderStats, samplesUsed int) {
	stats.TotalSamples += samplesUsed
	stats.MinSamples = min(stats.MinSamples, samplesUsed)
	stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
}

func (tr *TileRenderer) finalizeStats(stats *RenderStats) {
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
}
