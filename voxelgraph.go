// Package voxelgraph is the root facade tying the authoring graph, the
// compiler, and the evaluators together, with a panic-or-accumulate
// error-handling strategy for the convenience node-editing helpers.
package voxelgraph

import (
	"errors"
	"fmt"

	"github.com/sdfgraph/voxelgraph/block"
	"github.com/sdfgraph/voxelgraph/catalog"
	"github.com/sdfgraph/voxelgraph/compiler"
	"github.com/sdfgraph/voxelgraph/graph"
	"github.com/sdfgraph/voxelgraph/program"
	"github.com/sdfgraph/voxelgraph/providers"
)

// ErrNotCompiled is returned by GenerateBlock when called before a
// successful Compile.
var ErrNotCompiled = errors.New("voxelgraph: graph has not been compiled")

// Generator bundles an authoring Graph with its most recently compiled
// Program. PanicOnEditError selects the edit-helper error strategy: panic
// immediately (the default, suited to programmatic graph construction
// where a bad edit is a programmer error) or accumulate into Err() for
// batch construction followed by a single check.
type Generator struct {
	Graph   *graph.Graph
	Program *program.Program

	PanicOnEditError bool
	accumErrs        []error
}

// NewGenerator returns a Generator over a fresh, empty graph that panics on
// edit errors by default.
func NewGenerator() *Generator {
	return &Generator{Graph: graph.New(), PanicOnEditError: true}
}

// Err returns the accumulated edit errors, or nil if there are none.
func (gen *Generator) Err() error {
	if len(gen.accumErrs) == 0 {
		return nil
	}
	return errors.Join(gen.accumErrs...)
}

func (gen *Generator) editErrorf(msg string, args ...any) {
	err := fmt.Errorf(msg, args...)
	if gen.PanicOnEditError {
		panic(err)
	}
	gen.accumErrs = append(gen.accumErrs, err)
}

// Node creates a node of the given kind, applying the Generator's edit
// error strategy on failure (an unrecognized kind is always a programmer
// error, never a legitimate runtime condition).
func (gen *Generator) Node(kind catalog.NodeKind) uint32 {
	id, err := gen.Graph.CreateNode(kind)
	if err != nil {
		gen.editErrorf("voxelgraph: create node %v: %w", kind, err)
		return 0
	}
	return id
}

// Connect wires src to dst, applying the Generator's edit error strategy
// on failure.
func (gen *Generator) Connect(src, dst graph.Port) {
	if err := gen.Graph.Connect(src, dst); err != nil {
		gen.editErrorf("voxelgraph: connect %v -> %v: %w", src, dst, err)
	}
}

// Compile lowers the current graph to a Program, storing it on success.
// On failure the previously compiled Program (if any) is retained.
func (gen *Generator) Compile() error {
	prog, err := compiler.Compile(gen.Graph)
	if err != nil {
		return err
	}
	gen.Program = prog
	return nil
}

// GenerateBlock runs the Block Driver against the most recently compiled
// Program and the graph's current bounds policy.
func (gen *Generator) GenerateBlock(req block.Request) error {
	if gen.Program == nil {
		return ErrNotCompiled
	}
	block.GenerateBlock(gen.Program, gen.Graph.Bounds, req)
	return nil
}

// Duplicate deep-copies the graph. It deliberately does not carry over the
// compiled Program — the duplicate must be recompiled before use, so a
// stale Program can never be served for a graph it was not lowered from.
// When copySubresources is true, curve/noise/image
// provider instances known to this package (ValueNoiseProvider,
// BakedCurveProvider, RedChannelImage) are cloned rather than shared;
// providers of other concrete types are shared by reference, since no
// generic clone operation exists for an arbitrary ImageProvider/
// NoiseProvider/CurveProvider implementation.
func (gen *Generator) Duplicate(copySubresources bool) *Generator {
	dup := &Generator{Graph: graph.New(), PanicOnEditError: gen.PanicOnEditError}
	dup.Graph.CopyFrom(gen.Graph)
	if copySubresources {
		cloneGraphResources(dup.Graph)
	}
	return dup
}

func cloneGraphResources(g *graph.Graph) {
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		for i, p := range n.Params {
			switch p.Kind {
			case catalog.ParamCurveRef:
				if c, ok := g.Curve(p.Ref); ok {
					if cloned, ok := cloneCurve(c); ok {
						newID := g.AddCurve(cloned)
						n.Params[i].Ref = newID
					}
				}
			case catalog.ParamNoiseRef:
				if ns, ok := g.Noise(p.Ref); ok {
					if cloned, ok := cloneNoise(ns); ok {
						newID := g.AddNoise(cloned)
						n.Params[i].Ref = newID
					}
				}
			case catalog.ParamImageRef:
				if im, ok := g.Image(p.Ref); ok {
					if cloned, ok := cloneImage(im); ok {
						newID := g.AddImage(cloned)
						n.Params[i].Ref = newID
					}
				}
			}
		}
	}
}

func cloneCurve(c providers.CurveProvider) (providers.CurveProvider, bool) {
	if b, ok := c.(*providers.BakedCurveProvider); ok {
		cp := *b
		return &cp, true
	}
	return nil, false
}

func cloneNoise(n providers.NoiseProvider) (providers.NoiseProvider, bool) {
	if v, ok := n.(*providers.ValueNoiseProvider); ok {
		cp := *v
		return &cp, true
	}
	return nil, false
}

func cloneImage(i providers.ImageProvider) (providers.ImageProvider, bool) {
	if r, ok := i.(*providers.RedChannelImage); ok {
		cp := *r
		return &cp, true
	}
	return nil, false
}
