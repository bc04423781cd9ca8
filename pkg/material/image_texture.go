package material

import (
	"github.com/ekarpp/spuristo/pkg/core"
)

// Filter selects how ImageTexture resolves UV coordinates that fall between
// texel centers.
type Filter int

const (
	FilterNearest Filter = iota
	FilterBilinear
)

// ImageTexture provides color from a decoded 2D image (see pkg/loaders for
// the file-format decoders that build one of these).
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // row-major: Pixels[y*Width + x]
	Filter Filter
}

func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{Width: width, Height: height, Pixels: pixels}
}

// NewBilinearImageTexture is the same as NewImageTexture but samples with
// bilinear interpolation, trading a little performance for smoother results
// on magnified textures.
func NewBilinearImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{Width: width, Height: height, Pixels: pixels, Filter: FilterBilinear}
}

func (t *ImageTexture) texel(x, y int) core.Vec3 {
	x = clampInt(x, 0, t.Width-1)
	y = clampInt(y, 0, t.Height-1)
	return t.Pixels[y*t.Width+x]
}

func wrapUnit(v float64) float64 {
	f := v - float64(int(v))
	if f < 0 {
		f += 1.0
	}
	return f
}

// Evaluate samples the texture at given UV coordinates, wrapping outside
// [0,1] and flipping V so that V=0 is the bottom row of the image (matching
// the OpenGL/glTF texture-space convention the mesh loaders emit).
func (t *ImageTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	u := wrapUnit(uv.X)
	v := wrapUnit(uv.Y)

	fx := u*float64(t.Width) - 0.5
	fy := (1.0-v)*float64(t.Height) - 0.5

	if t.Filter == FilterNearest {
		return t.texel(int(fx+0.5), int(fy+0.5))
	}

	x0 := int(fx)
	y0 := int(fy)
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	c00 := t.texel(x0, y0)
	c10 := t.texel(x0+1, y0)
	c01 := t.texel(x0, y0+1)
	c11 := t.texel(x0+1, y0+1)

	top := c00.Multiply(1 - dx).Add(c10.Multiply(dx))
	bottom := c01.Multiply(1 - dx).Add(c11.Multiply(dx))
	return top.Multiply(1 - dy).Add(bottom.Multiply(dy))
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
