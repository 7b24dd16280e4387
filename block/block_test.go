package block_test

import (
	"testing"

	"github.com/sdfgraph/voxelgraph/block"
	"github.com/sdfgraph/voxelgraph/catalog"
	"github.com/sdfgraph/voxelgraph/compiler"
	"github.com/sdfgraph/voxelgraph/graph"
	"github.com/sdfgraph/voxelgraph/interval"
)

func compileConstant(t *testing.T, value float32) *graph.Graph {
	t.Helper()
	g := graph.New()
	c, _ := g.CreateNode(catalog.Constant)
	n, _ := g.Node(c)
	n.Params[0] = catalog.FloatParam(value)
	out, _ := g.CreateNode(catalog.OutputSDF)
	if err := g.Connect(graph.Port{Node: c, Index: 0}, graph.Port{Node: out, Index: 0}); err != nil {
		t.Fatal(err)
	}
	return g
}

// TestBoxBoundsShortCircuit checks that a block entirely outside a
// Box bounds region is cleared to the configured outside value without
// evaluating the program (verified indirectly: the constant graph used here
// would evaluate to a different value, so observing the outside value
// proves the short-circuit path ran).
func TestBoxBoundsShortCircuit(t *testing.T) {
	g := compileConstant(t, 42) // if evaluated, every voxel would read 42.
	prog, err := compiler.Compile(g)
	if err != nil {
		t.Fatal(err)
	}
	g.Bounds = graph.Bounds{
		Kind:        graph.BoundsBox,
		Min:         graph.IVec3{X: 100, Y: 100, Z: 100},
		Max:         graph.IVec3{X: 200, Y: 200, Z: 200},
		SDFOutside:  -1,
		TypeOutside: 7,
	}

	buf := block.NewDenseBuffer(4, 4, 4)
	block.GenerateBlock(prog, g.Bounds, block.Request{Buffer: buf, Origin: [3]int{0, 0, 0}, LOD: 0})

	if v := buf.SDFAt(0, 0, 0); v != -1 {
		t.Errorf("SDF = %v, want -1 (outside value, not evaluated constant 42)", v)
	}
	if v := buf.TypeAt(0, 0, 0); v != 7 {
		t.Errorf("TYPE = %v, want 7 (outside type value)", v)
	}
}

// TestBoxBoundsIntersectingPassesBoundsCheck checks that a block
// intersecting the Box bounds is not cleared to the outside value. The
// constant 5 graph then has range [5,5], above the clip threshold, so the
// interval short-circuit clears the block to +1.
func TestBoxBoundsIntersectingPassesBoundsCheck(t *testing.T) {
	g := compileConstant(t, 5)
	prog, err := compiler.Compile(g)
	if err != nil {
		t.Fatal(err)
	}
	g.Bounds = graph.Bounds{
		Kind:        graph.BoundsBox,
		Min:         graph.IVec3{X: -10, Y: -10, Z: -10},
		Max:         graph.IVec3{X: 10, Y: 10, Z: 10},
		SDFOutside:  -1,
		TypeOutside: 7,
	}
	buf := block.NewDenseBuffer(2, 2, 2)
	block.GenerateBlock(prog, g.Bounds, block.Request{Buffer: buf, Origin: [3]int{0, 0, 0}, LOD: 0})
	if v := buf.SDFAt(0, 0, 0); v != 1 {
		t.Errorf("SDF = %v, want 1 (constant 5 clipped by range analysis, not the outside value -1)", v)
	}
}

func TestVerticalBoundsAboveAndBelow(t *testing.T) {
	g := compileConstant(t, 5)
	prog, err := compiler.Compile(g)
	if err != nil {
		t.Fatal(err)
	}
	bounds := graph.Bounds{
		Kind:      graph.BoundsVertical,
		MinY:      0,
		MaxY:      10,
		SDFBelow:  -1,
		SDFAbove:  1,
		TypeBelow: 1,
		TypeAbove: 2,
	}

	above := block.NewDenseBuffer(2, 2, 2)
	block.GenerateBlock(prog, bounds, block.Request{Buffer: above, Origin: [3]int{0, 20, 0}, LOD: 0})
	if v := above.SDFAt(0, 0, 0); v != 1 {
		t.Errorf("above-bounds SDF = %v, want 1", v)
	}

	below := block.NewDenseBuffer(2, 2, 2)
	block.GenerateBlock(prog, bounds, block.Request{Buffer: below, Origin: [3]int{0, -20, 0}, LOD: 0})
	if v := below.SDFAt(0, 0, 0); v != -1 {
		t.Errorf("below-bounds SDF = %v, want -1", v)
	}
}

// TestIterationOrderDeterministic checks that regenerating the same
// block twice produces bit-identical output.
func TestIterationOrderDeterministic(t *testing.T) {
	g := graph.New()
	x, _ := g.CreateNode(catalog.InputX)
	y, _ := g.CreateNode(catalog.InputY)
	z, _ := g.CreateNode(catalog.InputZ)
	addXY, _ := g.CreateNode(catalog.Add)
	addAll, _ := g.CreateNode(catalog.Add)
	out, _ := g.CreateNode(catalog.OutputSDF)
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(g.Connect(graph.Port{Node: x, Index: 0}, graph.Port{Node: addXY, Index: 0}))
	must(g.Connect(graph.Port{Node: y, Index: 0}, graph.Port{Node: addXY, Index: 1}))
	must(g.Connect(graph.Port{Node: addXY, Index: 0}, graph.Port{Node: addAll, Index: 0}))
	must(g.Connect(graph.Port{Node: z, Index: 0}, graph.Port{Node: addAll, Index: 1}))
	must(g.Connect(graph.Port{Node: addAll, Index: 0}, graph.Port{Node: out, Index: 0}))

	prog, err := compiler.Compile(g)
	if err != nil {
		t.Fatal(err)
	}

	run := func() *block.DenseBuffer {
		buf := block.NewDenseBuffer(5, 6, 7)
		block.GenerateBlock(prog, g.Bounds, block.Request{Buffer: buf, Origin: [3]int{1, 2, 3}, LOD: 0})
		return buf
	}
	a := run()
	b := run()
	for z := 0; z < 7; z++ {
		for x := 0; x < 5; x++ {
			for y := 0; y < 6; y++ {
				if a.SDFAt(x, y, z) != b.SDFAt(x, y, z) {
					t.Fatalf("non-deterministic output at (%d,%d,%d): %v vs %v", x, y, z, a.SDFAt(x, y, z), b.SDFAt(x, y, z))
				}
			}
		}
	}
}

// countingBuffer wraps a DenseBuffer and counts per-voxel writes, so tests
// can assert the driver short-circuited without evaluating any voxel.
type countingBuffer struct {
	*block.DenseBuffer
	voxelWrites int
}

func (c *countingBuffer) SetVoxelF(value float32, x, y, z int, ch block.Channel) {
	c.voxelWrites++
	c.DenseBuffer.SetVoxelF(value, x, y, z, ch)
}

func buildWaves(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	must := func(id uint32, err error) uint32 {
		if err != nil {
			t.Fatal(err)
		}
		return id
	}
	conn := func(srcNode uint32, srcPort uint16, dstNode uint32, dstPort uint16) {
		if err := g.Connect(graph.Port{Node: srcNode, Index: srcPort}, graph.Port{Node: dstNode, Index: dstPort}); err != nil {
			t.Fatal(err)
		}
	}

	x := must(g.CreateNode(catalog.InputX))
	y := must(g.CreateNode(catalog.InputY))
	z := must(g.CreateNode(catalog.InputZ))
	freq := must(g.CreateNode(catalog.Constant))
	nf, _ := g.Node(freq)
	nf.Params[0] = catalog.FloatParam(1.0 / 20)
	mulX := must(g.CreateNode(catalog.Multiply))
	mulZ := must(g.CreateNode(catalog.Multiply))
	conn(x, 0, mulX, 0)
	conn(freq, 0, mulX, 1)
	conn(z, 0, mulZ, 0)
	conn(freq, 0, mulZ, 1)
	sinX := must(g.CreateNode(catalog.Sine))
	sinZ := must(g.CreateNode(catalog.Sine))
	conn(mulX, 0, sinX, 0)
	conn(mulZ, 0, sinZ, 0)
	addS := must(g.CreateNode(catalog.Add))
	conn(sinX, 0, addS, 0)
	conn(sinZ, 0, addS, 1)
	ten := must(g.CreateNode(catalog.Constant))
	nt, _ := g.Node(ten)
	nt.Params[0] = catalog.FloatParam(10)
	mul10 := must(g.CreateNode(catalog.Multiply))
	conn(addS, 0, mul10, 0)
	conn(ten, 0, mul10, 1)
	sub := must(g.CreateNode(catalog.Subtract))
	conn(y, 0, sub, 0)
	conn(mul10, 0, sub, 1)
	out := must(g.CreateNode(catalog.OutputSDF))
	conn(sub, 0, out, 0)
	return g
}

// TestIntervalShortCircuitAboveSurface generates a waves block far above
// the surface: range analysis must prove the whole block positive and the
// driver must clear the SDF channel to +1 without a single voxel write.
func TestIntervalShortCircuitAboveSurface(t *testing.T) {
	g := buildWaves(t)
	prog, err := compiler.Compile(g)
	if err != nil {
		t.Fatal(err)
	}

	buf := &countingBuffer{DenseBuffer: block.NewDenseBuffer(10, 10, 10)}
	block.GenerateBlock(prog, g.Bounds, block.Request{Buffer: buf, Origin: [3]int{0, 100, 0}, LOD: 0})

	if buf.voxelWrites != 0 {
		t.Fatalf("driver wrote %d voxels, want 0 (interval short-circuit)", buf.voxelWrites)
	}
	if v := buf.SDFAt(3, 3, 3); v != 1 {
		t.Errorf("short-circuited SDF = %v, want +1", v)
	}
}

// TestLODStride checks that lod shifts the world-space sampling stride: at
// lod 1 the plane y=0 graph samples world y = local*2.
func TestLODStride(t *testing.T) {
	g := graph.New()
	y, _ := g.CreateNode(catalog.InputY)
	out, _ := g.CreateNode(catalog.OutputSDF)
	if err := g.Connect(graph.Port{Node: y, Index: 0}, graph.Port{Node: out, Index: 0}); err != nil {
		t.Fatal(err)
	}
	prog, err := compiler.Compile(g)
	if err != nil {
		t.Fatal(err)
	}

	buf := block.NewDenseBuffer(2, 2, 2)
	block.GenerateBlock(prog, g.Bounds, block.Request{Buffer: buf, Origin: [3]int{0, 0, 0}, LOD: 1})
	if v := buf.SDFAt(0, 1, 0); v != 2 {
		t.Errorf("SDFAt(0,1,0) at lod 1 = %v, want 2", v)
	}
}

// lockedImage is an ImageProvider whose pixel reads require a read lock,
// mimicking host runtimes that guard image data. It records lock
// acquisitions so the test can assert once-per-block locking.
type lockedImage struct {
	locks   int
	unlocks int
	reads   int
	locked  bool
}

func (l *lockedImage) RLock()   { l.locks++; l.locked = true }
func (l *lockedImage) RUnlock() { l.unlocks++; l.locked = false }

func (l *lockedImage) Width() int  { return 4 }
func (l *lockedImage) Height() int { return 4 }

func (l *lockedImage) PixelRed(x, y int) float32 {
	if !l.locked {
		panic("pixel read without holding the read lock")
	}
	l.reads++
	return 0.5
}

func (l *lockedImage) BakeRange() interval.Interval {
	return interval.Interval{Lo: 0, Hi: 0.5}
}

// TestImageLockOncePerBlock drives an Image2D graph through the block
// driver and checks the image's read lock is taken exactly once for the
// whole block, not once per pixel.
func TestImageLockOncePerBlock(t *testing.T) {
	img := &lockedImage{}

	g := graph.New()
	imgID := g.AddImage(img)
	x, _ := g.CreateNode(catalog.InputX)
	y, _ := g.CreateNode(catalog.InputY)
	node, _ := g.CreateNode(catalog.Image2D)
	n, _ := g.Node(node)
	n.Params[0] = catalog.ImageRefParam(imgID)
	out, _ := g.CreateNode(catalog.OutputSDF)
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(g.Connect(graph.Port{Node: x, Index: 0}, graph.Port{Node: node, Index: 0}))
	must(g.Connect(graph.Port{Node: y, Index: 0}, graph.Port{Node: node, Index: 1}))
	must(g.Connect(graph.Port{Node: node, Index: 0}, graph.Port{Node: out, Index: 0}))

	prog, err := compiler.Compile(g)
	if err != nil {
		t.Fatal(err)
	}

	buf := block.NewDenseBuffer(3, 3, 3)
	block.GenerateBlock(prog, g.Bounds, block.Request{Buffer: buf, Origin: [3]int{0, 0, 0}, LOD: 0})

	if img.locks != 1 || img.unlocks != 1 {
		t.Fatalf("lock/unlock = %d/%d, want 1/1 (once per block)", img.locks, img.unlocks)
	}
	if img.reads != 27 {
		t.Errorf("pixel reads = %d, want 27 (one per voxel)", img.reads)
	}
	if v := buf.SDFAt(1, 1, 1); v != 0.5 {
		t.Errorf("SDF = %v, want 0.5", v)
	}
}
