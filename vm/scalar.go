package vm

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"

	"github.com/sdfgraph/voxelgraph/catalog"
	"github.com/sdfgraph/voxelgraph/program"
)

// Eval interprets prog's bytecode once at pos, a front-to-back walk with no
// branching and no backward jumps, writing intermediates into mem and
// returning the terminal SDF value times the program's iso scale. mem must
// have length len(prog.MemoryTemplate) (the dual-half layout), of which
// Eval only ever touches the first half — the same address space Range
// uses for its lo/hi scratch, per the memory-layout invariant shared by
// both evaluators.
func Eval(prog *program.Program, mem []float32, pos ms3.Vec) float32 {
	mem[0], mem[1], mem[2] = pos.X, pos.Y, pos.Z

	c := cursor{code: prog.Bytecode}
	for c.pc < len(c.code) {
		op, in, _, outAddr := decodeHeader(&c)

		var v float32
		switch op {
		case catalog.Add:
			v = mem[in[0]] + mem[in[1]]
		case catalog.Subtract:
			v = mem[in[0]] - mem[in[1]]
		case catalog.Multiply:
			v = mem[in[0]] * mem[in[1]]
		case catalog.Sine:
			v = math32.Sin(math32.Pi * mem[in[0]])
		case catalog.Floor:
			v = math32.Floor(mem[in[0]])
		case catalog.Abs:
			v = math32.Abs(mem[in[0]])
		case catalog.Sqrt:
			v = math32.Sqrt(mem[in[0]])
		case catalog.Distance2D:
			dx := mem[in[0]] - mem[in[2]]
			dy := mem[in[1]] - mem[in[3]]
			v = math32.Sqrt(dx*dx + dy*dy)
		case catalog.Distance3D:
			dx := mem[in[0]] - mem[in[3]]
			dy := mem[in[1]] - mem[in[4]]
			dz := mem[in[2]] - mem[in[5]]
			v = math32.Sqrt(dx*dx + dy*dy + dz*dz)
		case catalog.Clamp:
			lo, hi := c.f32(), c.f32()
			v = clampf(mem[in[0]], lo, hi)
		case catalog.Mix:
			a, b, t := mem[in[0]], mem[in[1]], mem[in[2]]
			v = a + t*(b-a)
		case catalog.Remap:
			c0, m0, c1, m1 := c.f32(), c.f32(), c.f32(), c.f32()
			v = ((mem[in[0]]+c0)*m0)*m1 + c1
		case catalog.Curve:
			_ = c.u8() // monotonic flag, unused by the scalar evaluator
			_ = c.f32()
			_ = c.f32()
			idx := c.u32()
			v = prog.Curves[idx].Sample(mem[in[0]])
		case catalog.Noise2D:
			idx := c.u32()
			v = prog.Noises[idx].Sample2D(mem[in[0]], mem[in[1]])
		case catalog.Noise3D:
			idx := c.u32()
			v = prog.Noises[idx].Sample3D(mem[in[0]], mem[in[1]], mem[in[2]])
		case catalog.Image2D:
			_ = c.f32() // baked range, unused by the scalar evaluator
			_ = c.f32()
			idx := c.u32()
			img := prog.Images[idx]
			ix := int(math32.Floor(mem[in[0]]))
			iy := int(math32.Floor(mem[in[1]]))
			v = img.PixelRed(ix, iy)
		default:
			panic(ErrInvariantViolated)
		}
		mem[outAddr] = v
	}

	return mem[prog.TerminalSlot()] * prog.IsoScale
}

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
