package material

import (
	"math"
	"math/rand"

	"github.com/ekarpp/spuristo/pkg/core"
)

const (
	perlinPoints  = 256
	perlinOctaves = 7
	perlinGain    = 0.5
	perlinFreq    = 4.0
	perlinAmp     = 4.0
	perlinScale   = 1.0
)

// Perlin is a marble-like procedural ColorSource: gradient noise with
// fractal turbulence modulates a sine wave in the base color, the classic
// "solid marble" texture construction.
type Perlin struct {
	color    core.Vec3
	gradient []core.Vec3
	permX    []int
	permY    []int
	permZ    []int
}

// NewPerlin builds a marble texture tinted by color, seeded from rng so
// renders stay reproducible.
func NewPerlin(color core.Vec3, rng *rand.Rand) *Perlin {
	gradient := make([]core.Vec3, perlinPoints)
	for i := range gradient {
		gradient[i] = core.UniformSampleSphere(core.Vec2{X: rng.Float64(), Y: rng.Float64()})
	}

	return &Perlin{
		color:    color,
		gradient: gradient,
		permX:    perlinPermutation(rng),
		permY:    perlinPermutation(rng),
		permZ:    perlinPermutation(rng),
	}
}

func perlinPermutation(rng *rand.Rand) []int {
	p := make([]int, perlinPoints)
	for i := range p {
		p[i] = i
	}
	rng.Shuffle(len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })
	return p
}

// Evaluate implements ColorSource.
func (p *Perlin) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	scaled := point.Multiply(perlinScale)
	scaled = core.NewVec3(math.Abs(scaled.X), math.Abs(scaled.Y), math.Abs(scaled.Z))
	t := p.turbulence(scaled, 0)
	scale := 1.0 - math.Pow(0.5+0.5*math.Sin(perlinFreq*point.X+perlinAmp*t), 6.0)
	return p.color.Multiply(scale)
}

func (p *Perlin) turbulence(point core.Vec3, depth int) float64 {
	if depth >= perlinOctaves {
		return 0
	}
	w := math.Pow(perlinGain, float64(depth))
	return w*math.Abs(p.noiseAt(point)) + p.turbulence(point.Multiply(2), depth+1)
}

func (p *Perlin) noiseAt(point core.Vec3) float64 {
	fx, ix := math.Modf(point.X)
	fy, iy := math.Modf(point.Y)
	fz, iz := math.Modf(point.Z)
	weight := core.NewVec3(fx, fy, fz)
	smooth := smootherstep(weight)

	var sum float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				g := p.gradient[p.hash(int(ix)+i, int(iy)+j, int(iz)+k)]

				idx := core.NewVec3(float64(i), float64(j), float64(k))
				// trilinear weight: idx==1 selects smooth, idx==0 selects (1-smooth), per axis
				wIdx := smooth.MultiplyVec(idx).Add(core.NewVec3(1, 1, 1).Subtract(smooth).MultiplyVec(core.NewVec3(1, 1, 1).Subtract(idx)))

				diff := weight.Subtract(idx)
				sum += wIdx.X * wIdx.Y * wIdx.Z * g.Dot(diff)
			}
		}
	}
	return sum
}

func (p *Perlin) hash(x, y, z int) int {
	return p.permX[mod(x, perlinPoints)] ^ p.permY[mod(y, perlinPoints)] ^ p.permZ[mod(z, perlinPoints)]
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func smootherstep(x core.Vec3) core.Vec3 {
	sc := func(v float64) float64 {
		return ((6*v-15)*v+10) * v * v * v
	}
	return core.NewVec3(sc(x.X), sc(x.Y), sc(x.Z))
}
