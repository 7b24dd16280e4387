// Package vm interprets a compiled program.Program's bytecode: Eval walks
// it once per voxel against a scalar scratch vector, Range walks the same
// bytecode over interval-valued memory for range analysis. Both evaluators
// share the instruction header decoder below so the two walks can never
// drift out of sync on instruction size.
package vm

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/sdfgraph/voxelgraph/catalog"
)

// ErrInvariantViolated is raised by panic, never returned, when the
// bytecode contains a structural opcode or an opcode the catalog does not
// recognize — both indicate a miscompiled program, not a user error.
var ErrInvariantViolated = errors.New("vm: invariant violated: structural or unknown opcode in bytecode")

// maxArity bounds the fixed input-address array below at the widest node
// kind's input count (Distance3D: 6).
const maxArity = 6

type cursor struct {
	code []byte
	pc   int
}

func (c *cursor) u8() byte {
	v := c.code[c.pc]
	c.pc++
	return v
}

func (c *cursor) u16() uint16 {
	v := binary.LittleEndian.Uint16(c.code[c.pc:])
	c.pc += 2
	return v
}

func (c *cursor) u32() uint32 {
	v := binary.LittleEndian.Uint32(c.code[c.pc:])
	c.pc += 4
	return v
}

func (c *cursor) f32() float32 {
	return math.Float32frombits(c.u32())
}

// decodeHeader reads the opcode byte, its input addresses, and its single
// output address, leaving the cursor positioned at the start of any
// opcode-specific payload. Every runtime node kind has exactly one output
// port, so a lone address suffices.
func decodeHeader(c *cursor) (op catalog.NodeKind, in [maxArity]uint16, nIn int, outAddr uint16) {
	op = catalog.NodeKind(c.u8())
	if op.IsStructural() || !op.Valid() {
		panic(ErrInvariantViolated)
	}
	info, ok := catalog.Lookup(op)
	if !ok {
		panic(ErrInvariantViolated)
	}
	nIn = len(info.Inputs)
	for i := 0; i < nIn; i++ {
		in[i] = c.u16()
	}
	outAddr = c.u16()
	return op, in, nIn, outAddr
}
