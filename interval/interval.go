// Package interval implements sound (outer-bounding) interval arithmetic
// over float32, the shared primitive behind range analysis in vm.Range.
package interval

import "github.com/chewxy/math32"

// Interval is an inclusive value range [Lo, Hi], Lo <= Hi.
type Interval struct {
	Lo, Hi float32
}

// Single returns a degenerate interval [v, v].
func Single(v float32) Interval { return Interval{Lo: v, Hi: v} }

// IsSingle reports whether the interval has collapsed to one value.
func (iv Interval) IsSingle() bool { return iv.Lo == iv.Hi }

// Scale multiplies both endpoints by s, swapping them if s is negative so
// Lo <= Hi is preserved.
func (iv Interval) Scale(s float32) Interval {
	a, b := iv.Lo*s, iv.Hi*s
	if s < 0 {
		a, b = b, a
	}
	return Interval{Lo: a, Hi: b}
}

func Add(a, b Interval) Interval {
	return Interval{Lo: a.Lo + b.Lo, Hi: a.Hi + b.Hi}
}

func Sub(a, b Interval) Interval {
	return Interval{Lo: a.Lo - b.Hi, Hi: a.Hi - b.Lo}
}

// Mul takes the min/max of the four corner products. Sound but not tight
// for self-multiplication (e.g. squaring an interval straddling zero) —
// tightness is not required, only overapproximation.
func Mul(a, b Interval) Interval {
	p0 := a.Lo * b.Lo
	p1 := a.Lo * b.Hi
	p2 := a.Hi * b.Lo
	p3 := a.Hi * b.Hi
	lo := math32.Min(math32.Min(p0, p1), math32.Min(p2, p3))
	hi := math32.Max(math32.Max(p0, p1), math32.Max(p2, p3))
	return Interval{Lo: lo, Hi: hi}
}

// Sin computes the interval of sin(pi*x) for x in a, detecting whether the
// scaled angle range spans a full crest (maximum at x = 0.5 + 2k, minimum
// at x = 1.5 + 2k).
func Sin(a Interval) Interval {
	if a.Hi-a.Lo >= 2 {
		return Interval{Lo: -1, Hi: 1}
	}
	v0 := math32.Sin(math32.Pi * a.Lo)
	v1 := math32.Sin(math32.Pi * a.Hi)
	lo, hi := math32.Min(v0, v1), math32.Max(v0, v1)

	// Nearest maximum crest (x = 0.5 mod 2) at or after a.Lo.
	if maxX := nearestCrestAtOrAfter(a.Lo, 0.5); maxX <= a.Hi {
		hi = 1
	}
	// Nearest minimum crest (x = 1.5 mod 2) at or after a.Lo.
	if minX := nearestCrestAtOrAfter(a.Lo, 1.5); minX <= a.Hi {
		lo = -1
	}
	return Interval{Lo: lo, Hi: hi}
}

// nearestCrestAtOrAfter returns the smallest x >= lo such that x == phase
// (mod 2).
func nearestCrestAtOrAfter(lo, phase float32) float32 {
	k := math32.Floor((lo - phase) / 2)
	x := phase + k*2
	if x < lo {
		x += 2
	}
	return x
}

func Floor(a Interval) Interval {
	return Interval{Lo: math32.Floor(a.Lo), Hi: math32.Floor(a.Hi)}
}

func Abs(a Interval) Interval {
	if a.Lo <= 0 && a.Hi >= 0 {
		return Interval{Lo: 0, Hi: math32.Max(math32.Abs(a.Lo), math32.Abs(a.Hi))}
	}
	if a.Lo > 0 {
		return a
	}
	return Interval{Lo: -a.Hi, Hi: -a.Lo}
}

// Sqrt clamps Lo to >= 0 before taking the square root. Hi is not
// sanitized, matching the scalar evaluator's behavior of letting sqrt of a
// negative value propagate as NaN rather than treating it as an error.
func Sqrt(a Interval) Interval {
	lo := math32.Max(a.Lo, 0)
	return Interval{Lo: math32.Sqrt(lo), Hi: math32.Sqrt(a.Hi)}
}

// Mix bounds lerp(a, b, t) = a + t*(b-a) by composing the sound primitives
// above, the same way the scalar evaluator composes float ops.
func Mix(a, b, t Interval) Interval {
	return Add(a, Mul(t, Sub(b, a)))
}

// Clamp intersects each endpoint with [lo, hi].
func Clamp(a Interval, lo, hi float32) Interval {
	clampOne := func(v float32) float32 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	return Interval{Lo: clampOne(a.Lo), Hi: clampOne(a.Hi)}
}

// Remap applies the precomputed affine coefficients ((x+c0)*m0)*m1+c1 to
// both endpoints, swapping as needed to keep Lo <= Hi through each
// sign-dependent scale step.
func Remap(a Interval, c0, m0, c1, m1 float32) Interval {
	step1 := Interval{Lo: a.Lo + c0, Hi: a.Hi + c0}.Scale(m0)
	step2 := step1.Scale(m1)
	return Interval{Lo: step2.Lo + c1, Hi: step2.Hi + c1}
}

// Distance2D bounds the Euclidean distance between (x0,y0) and (x1,y1).
func Distance2D(x0, y0, x1, y1 Interval) Interval {
	dx := Sub(x0, x1)
	dy := Sub(y0, y1)
	return Sqrt(Add(Mul(dx, dx), Mul(dy, dy)))
}

// Distance3D bounds the Euclidean distance between (x0,y0,z0) and
// (x1,y1,z1).
func Distance3D(x0, y0, z0, x1, y1, z1 Interval) Interval {
	dx := Sub(x0, x1)
	dy := Sub(y0, y1)
	dz := Sub(z0, z1)
	return Sqrt(Add(Add(Mul(dx, dx), Mul(dy, dy)), Mul(dz, dz)))
}
