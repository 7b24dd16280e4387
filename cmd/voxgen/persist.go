package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sdfgraph/voxelgraph/catalog"
	"github.com/sdfgraph/voxelgraph/graph"
)

// Persisted graph format: node/connection/bounds records that round-trip
// through JSON. Bytecode is never persisted; it is always recompiled from
// the loaded graph.
type persistedGraph struct {
	Nodes       []persistedNode       `json:"nodes"`
	Connections []persistedConnection `json:"connections"`
	Bounds      persistedBounds       `json:"bounds"`
	IsoScale    float32               `json:"iso_scale"`
}

type persistedNode struct {
	ID     uint32           `json:"id"`
	Kind   string           `json:"kind"`
	Params []persistedParam `json:"params"`
	GUIPos [2]float32       `json:"gui_pos"`
}

type persistedParam struct {
	Kind  string  `json:"kind"`
	Float float32 `json:"float,omitempty"`
	Ref   uint32  `json:"ref,omitempty"`
}

type persistedConnection struct {
	SrcNode uint32 `json:"src_node"`
	SrcPort uint16 `json:"src_port"`
	DstNode uint32 `json:"dst_node"`
	DstPort uint16 `json:"dst_port"`
}

type persistedBounds struct {
	Type string `json:"type"`

	MinY      float32 `json:"min_y,omitempty"`
	MaxY      float32 `json:"max_y,omitempty"`
	SDFBelow  float32 `json:"sdf_below,omitempty"`
	SDFAbove  float32 `json:"sdf_above,omitempty"`
	TypeBelow uint64  `json:"type_below,omitempty"`
	TypeAbove uint64  `json:"type_above,omitempty"`

	Min         [3]int32 `json:"min,omitempty"`
	Max         [3]int32 `json:"max,omitempty"`
	SDFOutside  float32  `json:"sdf_outside,omitempty"`
	TypeOutside uint64   `json:"type_outside,omitempty"`
}

// LoadGraph decodes a persisted graph from r and replays it into a fresh
// graph.Graph: nodes at their original ids, then connections, then bounds.
// No curve/noise/image resources are restored — the CLI is a bytecode/
// geometry preview tool, not a full host-property round-trip, so Curve/
// Noise2D/Noise3D/Image2D nodes in a loaded file must reference resources
// registered separately by the caller before Compile.
func LoadGraph(r io.Reader) (*graph.Graph, error) {
	var pg persistedGraph
	if err := json.NewDecoder(r).Decode(&pg); err != nil {
		return nil, fmt.Errorf("voxgen: decode graph: %w", err)
	}

	g := graph.New()
	g.IsoScale = pg.IsoScale
	if g.IsoScale == 0 {
		g.IsoScale = 1
	}

	for _, pn := range pg.Nodes {
		kind, ok := catalog.KindByName(pn.Kind)
		if !ok {
			return nil, fmt.Errorf("voxgen: node %d: unknown kind %q", pn.ID, pn.Kind)
		}
		params := make([]catalog.ParamValue, len(pn.Params))
		for i, pp := range pn.Params {
			switch pp.Kind {
			case "float":
				params[i] = catalog.FloatParam(pp.Float)
			case "curve_ref":
				params[i] = catalog.CurveRefParam(catalog.ResourceID(pp.Ref))
			case "noise_ref":
				params[i] = catalog.NoiseRefParam(catalog.ResourceID(pp.Ref))
			case "image_ref":
				params[i] = catalog.ImageRefParam(catalog.ResourceID(pp.Ref))
			default:
				return nil, fmt.Errorf("voxgen: node %d: unknown param kind %q", pn.ID, pp.Kind)
			}
		}
		g.PutNode(pn.ID, kind, params, pn.GUIPos)
	}

	for _, pc := range pg.Connections {
		src := graph.Port{Node: pc.SrcNode, Index: pc.SrcPort}
		dst := graph.Port{Node: pc.DstNode, Index: pc.DstPort}
		if err := g.Connect(src, dst); err != nil {
			return nil, fmt.Errorf("voxgen: connect %v -> %v: %w", src, dst, err)
		}
	}

	switch pg.Bounds.Type {
	case "", "none":
		g.Bounds = graph.Bounds{Kind: graph.BoundsNone}
	case "vertical":
		b := pg.Bounds
		g.Bounds = graph.Bounds{
			Kind: graph.BoundsVertical, MinY: b.MinY, MaxY: b.MaxY,
			SDFBelow: b.SDFBelow, SDFAbove: b.SDFAbove,
			TypeBelow: b.TypeBelow, TypeAbove: b.TypeAbove,
		}
	case "box":
		b := pg.Bounds
		g.Bounds = graph.Bounds{
			Kind:       graph.BoundsBox,
			Min:        graph.IVec3{X: b.Min[0], Y: b.Min[1], Z: b.Min[2]},
			Max:        graph.IVec3{X: b.Max[0], Y: b.Max[1], Z: b.Max[2]},
			SDFOutside: b.SDFOutside, TypeOutside: b.TypeOutside,
		}
	default:
		return nil, fmt.Errorf("voxgen: unknown bounds type %q", pg.Bounds.Type)
	}

	return g, nil
}
