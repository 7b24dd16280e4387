// Package program defines the compiled artifact produced by the compiler
// and consumed by the vm and block packages: bytecode, the memory
// template, and the external resource table bytecode instructions
// reference by index.
package program

import "github.com/sdfgraph/voxelgraph/providers"

// Program is immutable after compile. A compiled program is only valid
// against the Authoring Model snapshot it was lowered from; mutating the
// graph does not retroactively change an already-compiled Program, but the
// caller must recompile before trusting a stale one.
type Program struct {
	// Bytecode is the linear instruction stream: opcode byte, input
	// addresses, output addresses, then any opcode-specific payload.
	Bytecode []byte

	// MemoryTemplate is the initial scratch memory: x/y/z input slots,
	// constants, and intermediates, doubled and mirrored per the dual-half
	// layout (first half scalar, second half interval-hi).
	MemoryTemplate []float32

	// IsoScale is the final multiplier applied to the terminal SDF value.
	IsoScale float32

	// Curves, Noises, and Images are the external resource table: opcodes
	// referencing a curve/noise/image provider index into these slices.
	// Providers are borrowed from the Authoring Model and must outlive the
	// Program.
	Curves []providers.CurveProvider
	Noises []providers.NoiseProvider
	Images []providers.ImageProvider
}

// ScalarLen returns the length of one half of the dual-half memory — the
// number of slots a scalar-only scratch vector needs.
func (p *Program) ScalarLen() int {
	return len(p.MemoryTemplate) / 2
}

// TerminalSlot returns the address of the SDF terminal within one half of
// memory.
func (p *Program) TerminalSlot() int {
	return p.ScalarLen() - 1
}

// NewScratch returns a fresh scratch memory vector seeded from the
// template, ready to be handed to vm.Eval or vm.Range. Callers running
// concurrently must each own a distinct scratch vector.
func (p *Program) NewScratch() []float32 {
	mem := make([]float32, len(p.MemoryTemplate))
	copy(mem, p.MemoryTemplate)
	return mem
}
