package vm

import (
	"github.com/soypat/geometry/ms3"

	"github.com/sdfgraph/voxelgraph/catalog"
	"github.com/sdfgraph/voxelgraph/interval"
	"github.com/sdfgraph/voxelgraph/program"
)

// Range interprets prog's bytecode over box, propagating sound
// (outer-bounding) intervals, and returns the terminal SDF's range times
// the program's iso scale. mem must have length len(prog.MemoryTemplate);
// the first half holds lo values and the second half holds hi values at
// the same addresses Eval uses for its single scalar value — the dual-half
// trick that lets one bytecode stream drive both evaluators.
func Range(prog *program.Program, mem []float32, box ms3.Box) interval.Interval {
	half := prog.ScalarLen()
	lo := mem[:half]
	hi := mem[half : 2*half]

	lo[0], lo[1], lo[2] = box.Min.X, box.Min.Y, box.Min.Z
	hi[0], hi[1], hi[2] = box.Max.X, box.Max.Y, box.Max.Z

	read := func(addr uint16) interval.Interval {
		return interval.Interval{Lo: lo[addr], Hi: hi[addr]}
	}
	write := func(addr uint16, v interval.Interval) {
		lo[addr] = v.Lo
		hi[addr] = v.Hi
	}

	c := cursor{code: prog.Bytecode}
	for c.pc < len(c.code) {
		op, in, _, outAddr := decodeHeader(&c)

		var v interval.Interval
		switch op {
		case catalog.Add:
			v = interval.Add(read(in[0]), read(in[1]))
		case catalog.Subtract:
			v = interval.Sub(read(in[0]), read(in[1]))
		case catalog.Multiply:
			v = interval.Mul(read(in[0]), read(in[1]))
		case catalog.Sine:
			v = interval.Sin(read(in[0]))
		case catalog.Floor:
			v = interval.Floor(read(in[0]))
		case catalog.Abs:
			v = interval.Abs(read(in[0]))
		case catalog.Sqrt:
			v = interval.Sqrt(read(in[0]))
		case catalog.Distance2D:
			v = interval.Distance2D(read(in[0]), read(in[1]), read(in[2]), read(in[3]))
		case catalog.Distance3D:
			v = interval.Distance3D(read(in[0]), read(in[1]), read(in[2]), read(in[3]), read(in[4]), read(in[5]))
		case catalog.Clamp:
			cmin, cmax := c.f32(), c.f32()
			v = interval.Clamp(read(in[0]), cmin, cmax)
		case catalog.Mix:
			v = interval.Mix(read(in[0]), read(in[1]), read(in[2]))
		case catalog.Remap:
			c0, m0, c1, m1 := c.f32(), c.f32(), c.f32(), c.f32()
			v = interval.Remap(read(in[0]), c0, m0, c1, m1)
		case catalog.Curve:
			monotonic := c.u8() != 0
			bakedLo, bakedHi := c.f32(), c.f32()
			idx := c.u32()
			x := read(in[0])
			cp := prog.Curves[idx]
			switch {
			case x.IsSingle():
				v = interval.Single(cp.Sample(x.Lo))
			case monotonic:
				a, b := cp.Sample(x.Lo), cp.Sample(x.Hi)
				if a <= b {
					v = interval.Interval{Lo: a, Hi: b}
				} else {
					v = interval.Interval{Lo: b, Hi: a}
				}
			default:
				v = interval.Interval{Lo: bakedLo, Hi: bakedHi}
			}
		case catalog.Noise2D:
			idx := c.u32()
			v = prog.Noises[idx].Interval2D(read(in[0]), read(in[1]))
		case catalog.Noise3D:
			idx := c.u32()
			v = prog.Noises[idx].Interval3D(read(in[0]), read(in[1]), read(in[2]))
		case catalog.Image2D:
			bakedLo, bakedHi := c.f32(), c.f32()
			_ = c.u32() // image resource index, unused: no spatial refinement
			v = interval.Interval{Lo: bakedLo, Hi: bakedHi}
		default:
			panic(ErrInvariantViolated)
		}
		write(outAddr, v)
	}

	return read(uint16(prog.TerminalSlot())).Scale(prog.IsoScale)
}
