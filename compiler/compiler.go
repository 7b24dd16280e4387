// Package compiler lowers a validated graph.Graph to a program.Program:
// linear bytecode plus a static-addressed scalar memory layout. The
// emission loop walks the graph's dependency order once, appending
// instruction bytes and allocating memory slots as it goes.
package compiler

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/sdfgraph/voxelgraph/catalog"
	"github.com/sdfgraph/voxelgraph/graph"
	"github.com/sdfgraph/voxelgraph/program"
	"github.com/sdfgraph/voxelgraph/providers"
)

// Sentinel errors for the BadGraph taxonomy.
var (
	ErrNoTerminal        = errors.New("compiler: graph has no terminal node")
	ErrMultipleTerminals = errors.New("compiler: graph has more than one terminal node")
	ErrNoOutput          = errors.New("compiler: graph has no OutputSDF node")
	ErrCycle             = errors.New("compiler: graph contains a cycle")
)

const remapDivideByZeroSentinel = 99999

// resourceTable deduplicates provider instances encountered during
// compilation into dense indices for the Program's external resource
// table.
type resourceTable struct {
	curves   []providers.CurveProvider
	curveIdx map[providers.CurveProvider]uint32
	noises   []providers.NoiseProvider
	noiseIdx map[providers.NoiseProvider]uint32
	images   []providers.ImageProvider
	imageIdx map[providers.ImageProvider]uint32
}

func newResourceTable() *resourceTable {
	return &resourceTable{
		curveIdx: make(map[providers.CurveProvider]uint32),
		noiseIdx: make(map[providers.NoiseProvider]uint32),
		imageIdx: make(map[providers.ImageProvider]uint32),
	}
}

func (rt *resourceTable) curve(c providers.CurveProvider) uint32 {
	if idx, ok := rt.curveIdx[c]; ok {
		return idx
	}
	idx := uint32(len(rt.curves))
	rt.curves = append(rt.curves, c)
	rt.curveIdx[c] = idx
	return idx
}

func (rt *resourceTable) noise(n providers.NoiseProvider) uint32 {
	if idx, ok := rt.noiseIdx[n]; ok {
		return idx
	}
	idx := uint32(len(rt.noises))
	rt.noises = append(rt.noises, n)
	rt.noiseIdx[n] = idx
	return idx
}

func (rt *resourceTable) image(img providers.ImageProvider) uint32 {
	if idx, ok := rt.imageIdx[img]; ok {
		return idx
	}
	idx := uint32(len(rt.images))
	rt.images = append(rt.images, img)
	rt.imageIdx[img] = idx
	return idx
}

// Compile lowers g to a program.Program. Deterministic: the same graph
// compiled twice produces byte-identical bytecode and an identical memory
// template (slot addresses depend only on dependency order and node
// identity, never on map iteration).
func Compile(g *graph.Graph) (*program.Program, error) {
	terminals := g.FindTerminalNodes()
	if len(terminals) == 0 {
		return nil, ErrNoTerminal
	}
	if len(terminals) > 1 {
		return nil, ErrMultipleTerminals
	}

	order, err := g.FindDependencies(terminals[0])
	if err != nil {
		if errors.Is(err, graph.ErrCycle) {
			return nil, ErrCycle
		}
		return nil, fmt.Errorf("compiler: %w", err)
	}

	mem := []float32{0, 0, 0} // slots 0,1,2 reserved for x,y,z
	outputAddr := make(map[graph.Port]uint16)
	var bytecode []byte
	var buf [4]byte
	rt := newResourceTable()
	sawOutput := false

	appendSlot := func(v float32) uint16 {
		addr := uint16(len(mem))
		mem = append(mem, v)
		return addr
	}
	writeU16 := func(v uint16) {
		binary.LittleEndian.PutUint16(buf[:2], v)
		bytecode = append(bytecode, buf[0], buf[1])
	}
	writeU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[:4], v)
		bytecode = append(bytecode, buf[0], buf[1], buf[2], buf[3])
	}
	writeF32 := func(v float32) {
		writeU32(math.Float32bits(v))
	}

	for _, id := range order {
		n, ok := g.Node(id)
		if !ok {
			return nil, fmt.Errorf("compiler: dependency order referenced missing node %d", id)
		}

		switch n.Kind {
		case catalog.Constant:
			outputAddr[graph.Port{Node: id, Index: 0}] = appendSlot(n.Params[0].Float)
			continue
		case catalog.InputX:
			outputAddr[graph.Port{Node: id, Index: 0}] = 0
			continue
		case catalog.InputY:
			outputAddr[graph.Port{Node: id, Index: 0}] = 1
			continue
		case catalog.InputZ:
			outputAddr[graph.Port{Node: id, Index: 0}] = 2
			continue
		case catalog.OutputSDF:
			sawOutput = true
			// The terminal value must end up in the last slot of the scalar
			// half. When the feeding slot is an x/y/z input slot or not the
			// most recently allocated one, copy it there with Add(src, 0).
			if src, ok := g.Incoming(graph.Port{Node: id, Index: 0}); ok {
				if a := outputAddr[src]; a < 3 || int(a) != len(mem)-1 {
					bytecode = append(bytecode, byte(catalog.Add))
					writeU16(a)
					writeU16(appendSlot(0))
					writeU16(appendSlot(0))
				}
			}
			continue
		}

		info, ok := catalog.Lookup(n.Kind)
		if !ok {
			return nil, fmt.Errorf("compiler: unknown node kind %v", n.Kind)
		}

		bytecode = append(bytecode, byte(n.Kind))

		for i := range info.Inputs {
			dst := graph.Port{Node: id, Index: uint16(i)}
			var addr uint16
			if src, ok := g.Incoming(dst); ok {
				a, ok := outputAddr[src]
				if !ok {
					return nil, fmt.Errorf("compiler: input port %v resolved before its source was emitted", dst)
				}
				addr = a
			} else {
				addr = appendSlot(0)
			}
			writeU16(addr)
		}
		for i := range info.Outputs {
			addr := appendSlot(0)
			outputAddr[graph.Port{Node: id, Index: uint16(i)}] = addr
			writeU16(addr)
		}

		if err := emitPayload(g, n, rt, writeF32, writeU32, func(b byte) { bytecode = append(bytecode, b) }); err != nil {
			return nil, err
		}
	}

	if !sawOutput {
		return nil, ErrNoOutput
	}

	for len(mem) < 4 {
		mem = append(mem, 0)
	}

	full := make([]float32, len(mem)*2)
	copy(full[:len(mem)], mem)
	copy(full[len(mem):], mem)

	return &program.Program{
		Bytecode:       bytecode,
		MemoryTemplate: full,
		IsoScale:       g.IsoScale,
		Curves:         rt.curves,
		Noises:         rt.noises,
		Images:         rt.images,
	}, nil
}

// emitPayload appends the opcode-specific parameter payload per the
// compiler's per-opcode table (Clamp/Remap literal coefficients,
// Curve/Image2D baked range plus resource index, Noise2D/3D resource
// index).
func emitPayload(
	g *graph.Graph,
	n *graph.AuthorNode,
	rt *resourceTable,
	writeF32 func(float32),
	writeU32 func(uint32),
	writeByte func(byte),
) error {
	switch n.Kind {
	case catalog.Clamp:
		writeF32(n.Params[0].Float)
		writeF32(n.Params[1].Float)
	case catalog.Remap:
		srcMin, srcMax := n.Params[0].Float, n.Params[1].Float
		dstMin, dstMax := n.Params[2].Float, n.Params[3].Float
		c0 := -srcMin
		var m0 float32
		if srcMax == srcMin {
			m0 = remapDivideByZeroSentinel
		} else {
			m0 = 1 / (srcMax - srcMin)
		}
		c1 := dstMin
		m1 := dstMax - dstMin
		writeF32(c0)
		writeF32(m0)
		writeF32(c1)
		writeF32(m1)
	case catalog.Curve:
		cp, ok := g.Curve(n.Params[0].Ref)
		if !ok {
			return fmt.Errorf("compiler: node %d references unknown curve resource %d", n.ID, n.Params[0].Ref)
		}
		rng, monotonic := cp.BakeRange()
		if monotonic {
			writeByte(1)
		} else {
			writeByte(0)
		}
		writeF32(rng.Lo)
		writeF32(rng.Hi)
		writeU32(rt.curve(cp))
	case catalog.Image2D:
		ip, ok := g.Image(n.Params[0].Ref)
		if !ok {
			return fmt.Errorf("compiler: node %d references unknown image resource %d", n.ID, n.Params[0].Ref)
		}
		rng := ip.BakeRange()
		writeF32(rng.Lo)
		writeF32(rng.Hi)
		writeU32(rt.image(ip))
	case catalog.Noise2D, catalog.Noise3D:
		np, ok := g.Noise(n.Params[0].Ref)
		if !ok {
			return fmt.Errorf("compiler: node %d references unknown noise resource %d", n.ID, n.Params[0].Ref)
		}
		writeU32(rt.noise(np))
	}
	return nil
}
