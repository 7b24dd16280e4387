package providers

import "github.com/sdfgraph/voxelgraph/interval"

// BakedCurveProvider is a fixed-resolution lookup table sampled once from a
// user-supplied function over a domain, matching the baked-curve contract:
// sample() interpolates the table, bakeRange() is computed once at
// construction rather than per-compile.
type BakedCurveProvider struct {
	table               []float32
	domainLo, domainHi  float32
	rangeLo, rangeHi    float32
	monotonicIncreasing bool
}

// NewBakedCurveProvider samples fn at resolution evenly spaced points over
// [domainLo, domainHi] and bakes the resulting range and monotonicity.
func NewBakedCurveProvider(fn func(float32) float32, domainLo, domainHi float32, resolution int) *BakedCurveProvider {
	if resolution < 2 {
		resolution = 2
	}
	table := make([]float32, resolution)
	rangeLo, rangeHi := float32(0), float32(0)
	monotonic := true
	for i := 0; i < resolution; i++ {
		t := float32(i) / float32(resolution-1)
		x := domainLo + t*(domainHi-domainLo)
		v := fn(x)
		table[i] = v
		if i == 0 {
			rangeLo, rangeHi = v, v
		} else {
			if v < table[i-1] {
				monotonic = false
			}
			if v < rangeLo {
				rangeLo = v
			}
			if v > rangeHi {
				rangeHi = v
			}
		}
	}
	return &BakedCurveProvider{
		table:               table,
		domainLo:            domainLo,
		domainHi:            domainHi,
		rangeLo:             rangeLo,
		rangeHi:             rangeHi,
		monotonicIncreasing: monotonic,
	}
}

// Sample interpolates the baked table, clamping x to the domain.
func (c *BakedCurveProvider) Sample(x float32) float32 {
	n := len(c.table)
	if x <= c.domainLo {
		return c.table[0]
	}
	if x >= c.domainHi {
		return c.table[n-1]
	}
	t := (x - c.domainLo) / (c.domainHi - c.domainLo) * float32(n-1)
	i := int(t)
	if i >= n-1 {
		return c.table[n-1]
	}
	frac := t - float32(i)
	return lerpf(c.table[i], c.table[i+1], frac)
}

func (c *BakedCurveProvider) BakeRange() (interval.Interval, bool) {
	return interval.Interval{Lo: c.rangeLo, Hi: c.rangeHi}, c.monotonicIncreasing
}
