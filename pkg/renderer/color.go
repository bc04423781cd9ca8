package renderer

import (
	"image/color"

	"github.com/ekarpp/spuristo/pkg/core"
)

// vec3ToColor converts a linear Vec3 color to RGBA with gamma correction and clamping.
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.GammaCorrect(2.0)
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
