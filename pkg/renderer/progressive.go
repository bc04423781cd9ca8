package renderer

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/ekarpp/spuristo/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int   // Size of each tile (64x64 recommended)
	InitialSamples     int   // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int   // Maximum total samples per pixel
	MaxPasses          int   // Maximum number of passes
	NumWorkers         int   // Number of parallel workers (0 = use CPU count)
	RunSeed            int64 // Base seed mixed into every pixel's RNG
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7, // 1, 2, 4, 8, 16, 32, then the remainder up to MaxSamplesPerPixel
		NumWorkers:         0, // Auto-detect CPU count
		RunSeed:            1,
	}
}

// ProgressiveRaytracer manages progressive rendering with multiple passes,
// dispatching each tile's fixed-sample work to a pool of workers that share
// an integrator.
type ProgressiveRaytracer struct {
	scene         core.Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile        // Tile management
	currentPass   int            // Progressive state
	pixelStats    [][]PixelStats // Shared pixel statistics array (global image coordinates)
	splatQueue    *SplatQueue    // Pending splats from the integrator
	workerPool    *WorkerPool    // Worker pool for parallel processing
	logger        core.Logger    // Logger for rendering output
}

// NewProgressiveRaytracer creates a new progressive raytracer. Image
// dimensions are taken from the scene's own sampling config, not passed in
// separately, so a render job always matches what the scene was built for.
func NewProgressiveRaytracer(scene core.Scene, config ProgressiveConfig, integrator core.Integrator, logger core.Logger) *ProgressiveRaytracer {
	samplingConfig := scene.SamplingConfig()
	width, height := samplingConfig.Width, samplingConfig.Height

	tiles := NewTileGrid(width, height, config.TileSize)

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	splatQueue := NewSplatQueue()

	runSeed := config.RunSeed
	if runSeed == 0 {
		runSeed = 1
	}

	workerPool := NewWorkerPool(scene, integrator, splatQueue, width, height, config.TileSize, config.NumWorkers, runSeed)

	return &ProgressiveRaytracer{
		scene:       scene,
		width:       width,
		height:      height,
		config:      config,
		tiles:       tiles,
		currentPass: 0,
		pixelStats:  pixelStats,
		splatQueue:  splatQueue,
		workerPool:  workerPool,
		logger:      logger,
	}
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass

	if passNumber == pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return targetSamples
}

// RenderPass renders a single progressive pass using parallel processing.
// Cancellation via ctx is polled once per tile boundary, not mid-tile.
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	pr.currentPass = passNumber

	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	if passNumber == 1 {
		pr.workerPool.Start()
	}

	taskID := 0
	submitted := 0
	for _, tile := range pr.tiles {
		select {
		case <-ctx.Done():
			pr.logger.Printf("Pass %d: cancelled after submitting %d/%d tiles\n", passNumber, submitted, len(pr.tiles))
		default:
			task := TileTask{
				Tile:          tile,
				PassNumber:    passNumber,
				TargetSamples: targetSamples,
				TaskID:        taskID,
				PixelStats:    pr.pixelStats,
			}
			pr.workerPool.SubmitTask(task)
			submitted++
		}
		taskID++
	}

	for i := 0; i < submitted; i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return nil, RenderStats{}, result.Error
		}

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		if tileCallback != nil {
			tileImage := pr.extractTileImage(tile)
			tileX := tile.Bounds.Min.X / pr.config.TileSize
			tileY := tile.Bounds.Min.Y / pr.config.TileSize

			tileCallback(TileCompletionResult{
				TileX:      tileX,
				TileY:      tileY,
				TileImage:  tileImage,
				PassNumber: passNumber,

				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}

	pr.applyPendingSplats()

	img, stats := pr.assembleCurrentImage(targetSamples)

	if submitted < len(pr.tiles) {
		return img, stats, ctx.Err()
	}
	return img, stats, nil
}

// applyPendingSplats drains the splat queue and deposits every splat's
// contribution directly into the shared pixel stats array.
func (pr *ProgressiveRaytracer) applyPendingSplats() {
	full := image.Rect(0, 0, pr.width, pr.height)
	for _, splat := range pr.splatQueue.ExtractSplatsForTile(full) {
		if splat.X < 0 || splat.X >= pr.width || splat.Y < 0 || splat.Y >= pr.height {
			continue
		}
		pr.pixelStats[splat.Y][splat.X].AddSample(splat.Color)
	}
}

// extractTileImage extracts a tile image from the shared pixel stats array
func (pr *ProgressiveRaytracer) extractTileImage(tile *Tile) *image.RGBA {
	bounds := tile.Bounds
	tileWidth := bounds.Dx()
	tileHeight := bounds.Dy()

	tileImage := image.NewRGBA(image.Rect(0, 0, tileWidth, tileHeight))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if y >= len(pr.pixelStats) || x >= len(pr.pixelStats[y]) {
				continue
			}

			stats := &pr.pixelStats[y][x]
			if stats.SampleCount > 0 {
				colorVec := stats.GetColor()
				pixelColor := vec3ToColor(colorVec)
				tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, pixelColor)
			}
		}
	}

	return tileImage
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // Image data for just this tile
	PassNumber int         // Which pass this tile was rendered in

	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders with channel-based communication (idiomatic Go)
// Returns channels for events. The caller should read from these channels in separate goroutines.
// If options.TileUpdates is false, the tile channel will be closed immediately and no tile events will be generated.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.workerPool.Stop()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
						return
					default:
					}
				}
			}

			img, stats, err := pr.RenderPass(ctx, pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			passTime := time.Since(startTime)
			actualSamples := int(stats.AverageSamples)

			pr.logger.Printf("Pass %d completed in %v (actual: %d samples/pixel)\n",
				pass, passTime, actualSamples)

			isLast := pass == pr.config.MaxPasses || actualSamples >= pr.config.MaxSamplesPerPixel
			result := PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				IsLast:     isLast,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				return
			}

			if actualSamples >= pr.config.MaxSamplesPerPixel {
				pr.logger.Printf("Reached maximum samples per pixel (%d), stopping.\n", pr.config.MaxSamplesPerPixel)
				break
			}
		}
	}()

	return passChan, tileChan, errChan
}

// assembleCurrentImage creates an image from the current state of the shared pixel stats
// and calculates render statistics in a single pass
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))

	stats := RenderStats{
		TotalPixels:    pr.width * pr.height,
		TotalSamples:   0,
		AverageSamples: 0,
		MaxSamples:     targetSamples,
		MinSamples:     pr.config.MaxSamplesPerPixel,
		MaxSamplesUsed: 0,
	}

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]

			colorVec := pixel.GetColor()
			pixelColor := vec3ToColor(colorVec)
			img.SetRGBA(x, y, pixelColor)

			stats.TotalSamples += pixel.SampleCount
			stats.MinSamples = min(stats.MinSamples, pixel.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)

	return img, stats
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
	Sampler         core.Sampler    // Tile-level sampler, seeded deterministically by ID
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	sampler := core.NewSampler(rand.New(rand.NewSource(int64(id + 42)))) // +42 to avoid seed 0

	return &Tile{
		ID:              id,
		Bounds:          bounds,
		PassesCompleted: 0,
		Sampler:         sampler,
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			bounds := image.Rect(x0, y0, x1, y1)
			tile := NewTile(tileID, bounds)
			tiles = append(tiles, tile)
			tileID++
		}
	}

	return tiles
}
