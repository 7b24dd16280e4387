package providers_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/sdfgraph/voxelgraph/interval"
	"github.com/sdfgraph/voxelgraph/providers"
)

func TestValueNoiseDegenerateBoxIsExact(t *testing.T) {
	p := providers.NewValueNoiseProvider(1, 3, 0.5, 0.1, 2)
	x := interval.Single(3.5)
	y := interval.Single(-1.25)
	z := interval.Single(7)

	got2 := p.Interval2D(x, y)
	want2 := p.Sample2D(3.5, -1.25)
	if got2.Lo != want2 || got2.Hi != want2 {
		t.Errorf("Interval2D(single) = %v, want exact %v", got2, want2)
	}

	got3 := p.Interval3D(x, y, z)
	want3 := p.Sample3D(3.5, -1.25, 7)
	if got3.Lo != want3 || got3.Hi != want3 {
		t.Errorf("Interval3D(single) = %v, want exact %v", got3, want3)
	}
}

func TestValueNoiseIntervalSoundness(t *testing.T) {
	p := providers.NewValueNoiseProvider(42, 4, 0.5, 0.2, 3)
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 200; i++ {
		xlo := rng.Float32() * 20
		xhi := xlo + rng.Float32()*5
		ylo := rng.Float32() * 20
		yhi := ylo + rng.Float32()*5

		bound := p.Interval2D(interval.Interval{Lo: xlo, Hi: xhi}, interval.Interval{Lo: ylo, Hi: yhi})
		for j := 0; j < 5; j++ {
			x := xlo + rng.Float32()*(xhi-xlo)
			y := ylo + rng.Float32()*(yhi-ylo)
			v := p.Sample2D(x, y)
			if v < bound.Lo || v > bound.Hi {
				t.Fatalf("Sample2D(%v,%v)=%v outside bound %v", x, y, v, bound)
			}
		}
	}
}

func TestBakedCurveMonotonicity(t *testing.T) {
	inc := providers.NewBakedCurveProvider(func(x float32) float32 { return x * 2 }, 0, 10, 64)
	if rng, mono := inc.BakeRange(); !mono || rng.Lo != 0 || rng.Hi != 20 {
		t.Errorf("increasing curve BakeRange = %v,%v want [0,20],true", rng, mono)
	}

	hump := providers.NewBakedCurveProvider(func(x float32) float32 {
		// A simple hump: rises then falls, so it is not monotonic.
		if x < 5 {
			return x
		}
		return 10 - x
	}, 0, 10, 64)
	if _, mono := hump.BakeRange(); mono {
		t.Error("hump curve reported monotonic")
	}
}

func TestBakedCurveSampleInterpolates(t *testing.T) {
	c := providers.NewBakedCurveProvider(func(x float32) float32 { return x }, 0, 10, 11)
	if v := c.Sample(5); v < 4.9 || v > 5.1 {
		t.Errorf("Sample(5) = %v, want ~5", v)
	}
	if v := c.Sample(-5); v != 0 {
		t.Errorf("Sample below domain = %v, want clamp to 0", v)
	}
	if v := c.Sample(50); v != 10 {
		t.Errorf("Sample above domain = %v, want clamp to 10", v)
	}
}

func solidRedPNG(t *testing.T, w, h int, r uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: r, G: 0, B: 0, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRedChannelImageWrapAndRange(t *testing.T) {
	data := solidRedPNG(t, 4, 4, 128)
	img, err := providers.DecodeRedChannelImage(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Width() != 4 || img.Height() != 4 {
		t.Fatalf("dims = %d,%d want 4,4", img.Width(), img.Height())
	}
	want := float32(128) / 255
	rng := img.BakeRange()
	if rng.Lo < want-0.01 || rng.Hi > want+0.01 {
		t.Errorf("BakeRange = %v, want ~[%v,%v]", rng, want, want)
	}
	// Out-of-bounds coordinates must wrap rather than panic.
	a := img.PixelRed(0, 0)
	b := img.PixelRed(4, 4)   // wraps to (0,0)
	c := img.PixelRed(-4, -4) // also wraps to (0,0)
	if a != b || a != c {
		t.Errorf("wrap mismatch: (0,0)=%v (4,4)=%v (-4,-4)=%v", a, b, c)
	}
}
