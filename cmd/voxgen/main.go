// Command voxgen loads a persisted graph (or falls back to a builtin
// "waves" preset), compiles it, renders one block through the block
// driver, and writes a PNG preview of the block's mid-height slice.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/sdfgraph/voxelgraph/block"
	"github.com/sdfgraph/voxelgraph/catalog"
	"github.com/sdfgraph/voxelgraph/compiler"
	"github.com/sdfgraph/voxelgraph/graph"
)

func main() {
	graphPath := flag.String("graph", "", "path to a persisted graph JSON file (default: builtin waves preset)")
	outPath := flag.String("out", "preview.png", "path to write the PNG slice preview")
	size := flag.Int("size", 32, "block edge length in voxels")
	originStr := flag.String("origin", "0,0,0", "block origin in voxels, as \"x,y,z\"")
	lod := flag.Uint("lod", 0, "level of detail (voxel stride = 1<<lod)")
	flag.Parse()

	logger := log.New(os.Stderr, "voxgen: ", log.LstdFlags)

	origin, err := parseOrigin(*originStr)
	if err != nil {
		logger.Fatalf("bad -origin: %v", err)
	}

	var g *graph.Graph
	if *graphPath == "" {
		logger.Printf("no -graph given, using builtin waves preset")
		g = buildWavesPreset()
	} else {
		f, err := os.Open(*graphPath)
		if err != nil {
			logger.Fatalf("open graph: %v", err)
		}
		defer f.Close()
		g, err = LoadGraph(f)
		if err != nil {
			logger.Fatalf("load graph: %v", err)
		}
	}

	prog, err := compiler.Compile(g)
	if err != nil {
		logger.Fatalf("compile: %v", err)
	}

	buf := block.NewDenseBuffer(*size, *size, *size)
	req := block.Request{Buffer: buf, Origin: origin, LOD: uint8(*lod)}
	block.GenerateBlock(prog, g.Bounds, req)
	logger.Printf("generated block at %v, lod=%d, uniform=%v", origin, *lod, buf.Uniform)

	if err := writeSlicePreview(buf, *outPath); err != nil {
		logger.Fatalf("write preview: %v", err)
	}
	logger.Printf("wrote %s", *outPath)
}

func parseOrigin(s string) ([3]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return [3]int{}, fmt.Errorf("expected \"x,y,z\", got %q", s)
	}
	var out [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return [3]int{}, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// buildWavesPreset wires Sub(Y, Mul(Add(Sin(X/20), Sin(Z/20)), 10)) to
// OutputSDF: rolling sine hills, useful as a smoke-test terrain.
func buildWavesPreset() *graph.Graph {
	g := graph.New()
	must := func(id uint32, err error) uint32 {
		if err != nil {
			panic(err)
		}
		return id
	}

	inX := must(g.CreateNode(catalog.InputX))
	inY := must(g.CreateNode(catalog.InputY))
	inZ := must(g.CreateNode(catalog.InputZ))

	freq := must(g.CreateNode(catalog.Constant))
	setConstant(g, freq, 1.0/20)

	mulX := must(g.CreateNode(catalog.Multiply))
	mulZ := must(g.CreateNode(catalog.Multiply))
	connect(g, inX, 0, mulX, 0)
	connect(g, freq, 0, mulX, 1)
	connect(g, inZ, 0, mulZ, 0)
	connect(g, freq, 0, mulZ, 1)

	sinX := must(g.CreateNode(catalog.Sine))
	sinZ := must(g.CreateNode(catalog.Sine))
	connect(g, mulX, 0, sinX, 0)
	connect(g, mulZ, 0, sinZ, 0)

	addS := must(g.CreateNode(catalog.Add))
	connect(g, sinX, 0, addS, 0)
	connect(g, sinZ, 0, addS, 1)

	ten := must(g.CreateNode(catalog.Constant))
	setConstant(g, ten, 10)

	mul10 := must(g.CreateNode(catalog.Multiply))
	connect(g, addS, 0, mul10, 0)
	connect(g, ten, 0, mul10, 1)

	sub := must(g.CreateNode(catalog.Subtract))
	connect(g, inY, 0, sub, 0)
	connect(g, mul10, 0, sub, 1)

	out := must(g.CreateNode(catalog.OutputSDF))
	connect(g, sub, 0, out, 0)

	return g
}

func setConstant(g *graph.Graph, nodeID uint32, value float32) {
	n, ok := g.Node(nodeID)
	if !ok {
		panic(fmt.Sprintf("voxgen: node %d missing right after creation", nodeID))
	}
	n.Params[0] = catalog.FloatParam(value)
}

func connect(g *graph.Graph, srcNode uint32, srcPort uint16, dstNode uint32, dstPort uint16) {
	if err := g.Connect(graph.Port{Node: srcNode, Index: srcPort}, graph.Port{Node: dstNode, Index: dstPort}); err != nil {
		panic(err)
	}
}

// writeSlicePreview renders the buffer's mid-height (y) slice as a
// grayscale PNG: negative (inside) samples toward black, positive
// (outside) toward white.
func writeSlicePreview(buf *block.DenseBuffer, path string) error {
	sx, sy, sz := buf.Size()
	midY := sy / 2
	img := image.NewGray(image.Rect(0, 0, sx, sz))
	for z := 0; z < sz; z++ {
		for x := 0; x < sx; x++ {
			v := buf.SDFAt(x, midY, z)
			img.SetGray(x, z, color.Gray{Y: sdfToGray(v)})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func sdfToGray(v float32) uint8 {
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}
	return uint8((v + 1) / 2 * 255)
}
