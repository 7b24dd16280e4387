package providers

import (
	"github.com/chewxy/math32"

	"github.com/sdfgraph/voxelgraph/interval"
)

// ValueNoiseProvider is a deterministic lattice-hash value noise generator
// with octave summation: integer hashing of lattice points, a quintic fade
// curve, and bilinear/trilinear interpolation between corners, all in
// float32 to match the evaluator's working precision.
type ValueNoiseProvider struct {
	Seed        uint64
	Octaves     int
	Persistence float32
	Frequency   float32
	Amplitude   float32

	maxAmplitude float32
}

// NewValueNoiseProvider builds a provider and precomputes its interval
// bound.
func NewValueNoiseProvider(seed uint64, octaves int, persistence, frequency, amplitude float32) *ValueNoiseProvider {
	if octaves < 1 {
		octaves = 1
	}
	p := &ValueNoiseProvider{
		Seed:        seed,
		Octaves:     octaves,
		Persistence: persistence,
		Frequency:   frequency,
		Amplitude:   amplitude,
	}
	var sum float32
	amp := float32(1)
	for i := 0; i < octaves; i++ {
		sum += amp
		amp *= persistence
	}
	p.maxAmplitude = amplitude * sum
	return p
}

// hash2 mixes a lattice coordinate pair and the seed into a 64-bit word
// using the SplitMix64 finalizer.
func hash2(seed uint64, ix, iy int32) uint64 {
	h := seed ^ uint64(uint32(ix))*0x9E3779B97F4A7C15 ^ uint64(uint32(iy))*0xBF58476D1CE4E5B9
	h ^= h >> 30
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 27
	h *= 0x94D049BB133111EB
	h ^= h >> 31
	return h
}

func hash3(seed uint64, ix, iy, iz int32) uint64 {
	h := hash2(seed, ix, iy)
	h ^= uint64(uint32(iz)) * 0x2545F4914F6CDD1D
	h ^= h >> 29
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 32
	return h
}

// latticeValue2D maps a hashed lattice point to a float32 in [-1, 1].
func latticeValue2D(seed uint64, ix, iy int32) float32 {
	h := hash2(seed, ix, iy)
	return float32(h>>40)/float32(1<<24)*2 - 1
}

func latticeValue3D(seed uint64, ix, iy, iz int32) float32 {
	h := hash3(seed, ix, iy, iz)
	return float32(h>>40)/float32(1<<24)*2 - 1
}

func fade(t float32) float32 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerpf(a, b, t float32) float32 {
	return a + t*(b-a)
}

func valueNoise2D(seed uint64, x, y float32) float32 {
	x0 := math32.Floor(x)
	y0 := math32.Floor(y)
	ix, iy := int32(x0), int32(y0)
	fx, fy := fade(x-x0), fade(y-y0)

	v00 := latticeValue2D(seed, ix, iy)
	v10 := latticeValue2D(seed, ix+1, iy)
	v01 := latticeValue2D(seed, ix, iy+1)
	v11 := latticeValue2D(seed, ix+1, iy+1)

	top := lerpf(v00, v10, fx)
	bot := lerpf(v01, v11, fx)
	return lerpf(top, bot, fy)
}

func valueNoise3D(seed uint64, x, y, z float32) float32 {
	x0 := math32.Floor(x)
	y0 := math32.Floor(y)
	z0 := math32.Floor(z)
	ix, iy, iz := int32(x0), int32(y0), int32(z0)
	fx, fy, fz := fade(x-x0), fade(y-y0), fade(z-z0)

	v000 := latticeValue3D(seed, ix, iy, iz)
	v100 := latticeValue3D(seed, ix+1, iy, iz)
	v010 := latticeValue3D(seed, ix, iy+1, iz)
	v110 := latticeValue3D(seed, ix+1, iy+1, iz)
	v001 := latticeValue3D(seed, ix, iy, iz+1)
	v101 := latticeValue3D(seed, ix+1, iy, iz+1)
	v011 := latticeValue3D(seed, ix, iy+1, iz+1)
	v111 := latticeValue3D(seed, ix+1, iy+1, iz+1)

	top := lerpf(lerpf(v000, v100, fx), lerpf(v010, v110, fx), fy)
	bot := lerpf(lerpf(v001, v101, fx), lerpf(v011, v111, fx), fy)
	return lerpf(top, bot, fz)
}

func (p *ValueNoiseProvider) octave2D(x, y float32) float32 {
	var total, amp float32 = 0, 1
	freq := p.Frequency
	for i := 0; i < p.Octaves; i++ {
		total += valueNoise2D(p.Seed+uint64(i)*0x9E3779B9, x*freq, y*freq) * amp
		amp *= p.Persistence
		freq *= 2
	}
	return total
}

func (p *ValueNoiseProvider) octave3D(x, y, z float32) float32 {
	var total, amp float32 = 0, 1
	freq := p.Frequency
	for i := 0; i < p.Octaves; i++ {
		total += valueNoise3D(p.Seed+uint64(i)*0x9E3779B9, x*freq, y*freq, z*freq) * amp
		amp *= p.Persistence
		freq *= 2
	}
	return total
}

func (p *ValueNoiseProvider) Sample2D(x, y float32) float32 {
	return p.Amplitude * p.octave2D(x, y)
}

func (p *ValueNoiseProvider) Sample3D(x, y, z float32) float32 {
	return p.Amplitude * p.octave3D(x, y, z)
}

// Interval2D returns the exact sample as a degenerate interval when the box
// has collapsed to a point (needed for the single-point collapse
// property), and otherwise the provider's precomputed amplitude bound —
// sound because it is never tightened below the true achievable range.
func (p *ValueNoiseProvider) Interval2D(x, y interval.Interval) interval.Interval {
	if x.IsSingle() && y.IsSingle() {
		return interval.Single(p.Sample2D(x.Lo, y.Lo))
	}
	return interval.Interval{Lo: -p.maxAmplitude, Hi: p.maxAmplitude}
}

func (p *ValueNoiseProvider) Interval3D(x, y, z interval.Interval) interval.Interval {
	if x.IsSingle() && y.IsSingle() && z.IsSingle() {
		return interval.Single(p.Sample3D(x.Lo, y.Lo, z.Lo))
	}
	return interval.Interval{Lo: -p.maxAmplitude, Hi: p.maxAmplitude}
}
