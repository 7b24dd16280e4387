// Package providers defines the external value-provider contracts (noise,
// curve, image) that Noise2D/3D, Curve, and Image2D opcodes delegate to,
// plus reference implementations of each so those opcodes can be exercised
// end to end without a host engine.
package providers

import "github.com/sdfgraph/voxelgraph/interval"

// NoiseProvider supplies procedural noise samples and their sound interval
// bounds. Values conventionally lie in [-1, 1] but this is not enforced.
type NoiseProvider interface {
	Sample2D(x, y float32) float32
	Sample3D(x, y, z float32) float32
	Interval2D(x, y interval.Interval) interval.Interval
	Interval3D(x, y, z interval.Interval) interval.Interval
}

// CurveProvider samples a baked one-dimensional lookup table.
type CurveProvider interface {
	Sample(x float32) float32
	// BakeRange returns the curve's precomputed value range and whether the
	// table is monotonically increasing, both computed once at bake time.
	BakeRange() (interval.Interval, bool)
}

// ImageProvider samples the red channel of a decoded image by integer
// pixel coordinate, wrapping via non-negative modulo.
type ImageProvider interface {
	Width() int
	Height() int
	PixelRed(x, y int) float32
	BakeRange() interval.Interval
}

// ReadLocker is an optional capability of an ImageProvider whose host
// runtime guards pixel reads with a read lock (the method set of
// *sync.RWMutex). The block driver acquires it once per generated block
// instead of once per pixel read; providers without it are assumed safe
// for unlocked concurrent reads.
type ReadLocker interface {
	RLock()
	RUnlock()
}

// wrap returns a mod m for any integer a, always in [0, m).
func wrap(a, m int) int {
	if m <= 0 {
		return 0
	}
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
