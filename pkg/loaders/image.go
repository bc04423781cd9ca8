package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"golang.org/x/image/draw"

	"github.com/ekarpp/spuristo/pkg/core"
)

// maxTextureDimension caps the resolution a loaded texture is kept at.
// Source images larger than this in either axis are bilinearly resampled
// down, since path tracing rarely benefits from texel detail finer than a
// pixel footprint and the saving in resident memory is substantial for
// scanned or photographic textures.
const maxTextureDimension = 4096

// ImageData contains loaded image data as Vec3 color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// LoadImage loads a PNG or JPEG image and converts it to Vec3 color array
func LoadImage(filename string) (*ImageData, error) {
	// Open file
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (auto-detects PNG/JPEG from file header)
	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// Log the detected format for debugging
	_ = format // PNG or JPEG

	img = downsampleIfOversized(img)

	// Convert to Vec3 array
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}

// downsampleIfOversized bilinearly resamples img down to fit within
// maxTextureDimension on its longest axis, preserving aspect ratio. Images
// already within bounds are returned unchanged.
func downsampleIfOversized(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxTextureDimension && height <= maxTextureDimension {
		return img
	}

	scale := float64(maxTextureDimension) / float64(width)
	if heightScale := float64(maxTextureDimension) / float64(height); heightScale < scale {
		scale = heightScale
	}

	dstWidth := int(float64(width) * scale)
	dstHeight := int(float64(height) * scale)
	if dstWidth < 1 {
		dstWidth = 1
	}
	if dstHeight < 1 {
		dstHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
