// Package graph implements the Program Graph and Authoring Model: a typed
// DAG of nodes and port-to-port connections, edited under acyclicity and
// single-source-per-input invariants, plus the external resource
// registries (curve/noise/image providers) referenced by Curve/Noise/Image
// node parameters.
package graph

import (
	"errors"

	"github.com/sdfgraph/voxelgraph/catalog"
	"github.com/sdfgraph/voxelgraph/providers"
)

// Sentinel errors for graph edit operations (the BadEdit taxonomy). The
// graph is left unchanged whenever one of these is returned.
var (
	ErrUnknownNode         = errors.New("graph: unknown node")
	ErrPortOutOfRange      = errors.New("graph: port index out of range")
	ErrWouldCycle          = errors.New("graph: connection would introduce a cycle")
	ErrDestinationOccupied = errors.New("graph: destination port already has a connection")
)

// Port addresses one input or output port of a node.
type Port struct {
	Node  uint32
	Index uint16
}

// Connection is a directed edge from an output port to an input port.
type Connection struct {
	Src, Dst Port
}

// AuthorNode is a user-facing node: its kind, ordered parameter values, and
// editor position. AuthorNode ids are stable for the lifetime of the graph
// they belong to.
type AuthorNode struct {
	ID     uint32
	Kind   catalog.NodeKind
	Params []catalog.ParamValue
	GUIPos [2]float32
}

// Graph is the Program Graph: nodes keyed by stable id plus the
// port-to-port adjacency, backing the Authoring Model. Only the compiler
// reads the graph at evaluation time; runtime uses exclusively the
// resulting program.Program.
type Graph struct {
	nodes  map[uint32]*AuthorNode
	nextID uint32

	// incoming[dst] = src, since an input port holds at most one connection.
	incoming map[Port]Port
	// outgoing[src] = set of dst ports fed by that output port.
	outgoing map[Port][]Port

	Bounds   Bounds
	IsoScale float32

	curves         map[catalog.ResourceID]providers.CurveProvider
	noises         map[catalog.ResourceID]providers.NoiseProvider
	images         map[catalog.ResourceID]providers.ImageProvider
	nextResourceID catalog.ResourceID
}

// New returns an empty graph with no bounds policy.
func New() *Graph {
	return &Graph{
		nodes:    make(map[uint32]*AuthorNode),
		incoming: make(map[Port]Port),
		outgoing: make(map[Port][]Port),
		curves:   make(map[catalog.ResourceID]providers.CurveProvider),
		noises:   make(map[catalog.ResourceID]providers.NoiseProvider),
		images:   make(map[catalog.ResourceID]providers.ImageProvider),
		Bounds:   Bounds{Kind: BoundsNone},
		IsoScale: 1,
	}
}

// CreateNode allocates a new node of the given kind with default
// parameters from the catalog, returning its id.
func (g *Graph) CreateNode(kind catalog.NodeKind) (uint32, error) {
	info, ok := catalog.Lookup(kind)
	if !ok {
		return 0, ErrUnknownNode
	}
	id := g.nextID
	g.nextID++
	params := make([]catalog.ParamValue, len(info.Params))
	for i, p := range info.Params {
		params[i] = p.Default
	}
	g.nodes[id] = &AuthorNode{ID: id, Kind: kind, Params: params}
	return id, nil
}

// PutNode inserts a node at an explicit id, for use by a graph loader
// restoring a persisted graph (where ids must be stable across save/load
// rather than freshly allocated). The graph's id counter is advanced past
// id if necessary so later CreateNode calls never collide.
func (g *Graph) PutNode(id uint32, kind catalog.NodeKind, params []catalog.ParamValue, guiPos [2]float32) {
	g.nodes[id] = &AuthorNode{ID: id, Kind: kind, Params: params, GUIPos: guiPos}
	if id >= g.nextID {
		g.nextID = id + 1
	}
}

// Node returns the node with the given id.
func (g *Graph) Node(id uint32) (*AuthorNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns every node id currently in the graph, in no particular
// order.
func (g *Graph) Nodes() []uint32 {
	ids := make([]uint32, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	return ids
}

// RemoveNode deletes a node and severs every connection incident to it.
func (g *Graph) RemoveNode(id uint32) error {
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	info, _ := catalog.Lookup(n.Kind)
	for i := range info.Inputs {
		dst := Port{Node: id, Index: uint16(i)}
		if src, ok := g.incoming[dst]; ok {
			g.removeEdge(src, dst)
		}
	}
	for i := range info.Outputs {
		src := Port{Node: id, Index: uint16(i)}
		for _, dst := range append([]Port(nil), g.outgoing[src]...) {
			g.removeEdge(src, dst)
		}
	}
	delete(g.nodes, id)
	return nil
}

func (g *Graph) removeEdge(src, dst Port) {
	delete(g.incoming, dst)
	list := g.outgoing[src]
	for i, p := range list {
		if p == dst {
			g.outgoing[src] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(g.outgoing[src]) == 0 {
		delete(g.outgoing, src)
	}
}

func (g *Graph) portCounts(n *AuthorNode) (inputs, outputs int) {
	info, ok := catalog.Lookup(n.Kind)
	if !ok {
		return 0, 0
	}
	return len(info.Inputs), len(info.Outputs)
}

func (g *Graph) validPort(p Port, wantOutput bool) bool {
	n, ok := g.nodes[p.Node]
	if !ok {
		return false
	}
	inputs, outputs := g.portCounts(n)
	if wantOutput {
		return int(p.Index) < outputs
	}
	return int(p.Index) < inputs
}

// CanConnect reports whether connecting src (an output port) to dst (an
// input port) is legal: both ports exist, directions match, dst is
// unoccupied, and the result stays acyclic.
func (g *Graph) CanConnect(src, dst Port) bool {
	if !g.validPort(src, true) || !g.validPort(dst, false) {
		return false
	}
	if _, occupied := g.incoming[dst]; occupied {
		return false
	}
	return !g.reaches(dst.Node, src.Node)
}

// reaches reports whether from can reach to by following existing outgoing
// edges at the node level.
func (g *Graph) reaches(from, to uint32) bool {
	if from == to {
		return true
	}
	visited := map[uint32]bool{from: true}
	stack := []uint32{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := g.nodes[cur]
		if n == nil {
			continue
		}
		_, outputs := g.portCounts(n)
		for i := 0; i < outputs; i++ {
			for _, dst := range g.outgoing[Port{Node: cur, Index: uint16(i)}] {
				if dst.Node == to {
					return true
				}
				if !visited[dst.Node] {
					visited[dst.Node] = true
					stack = append(stack, dst.Node)
				}
			}
		}
	}
	return false
}

// Connect wires src to dst, requiring CanConnect.
func (g *Graph) Connect(src, dst Port) error {
	if !g.validPort(src, true) || !g.validPort(dst, false) {
		return ErrPortOutOfRange
	}
	if _, occupied := g.incoming[dst]; occupied {
		return ErrDestinationOccupied
	}
	if g.reaches(dst.Node, src.Node) {
		return ErrWouldCycle
	}
	g.incoming[dst] = src
	g.outgoing[src] = append(g.outgoing[src], dst)
	return nil
}

// Disconnect removes the edge src->dst if present. A missing edge is not
// an error.
func (g *Graph) Disconnect(src, dst Port) error {
	if cur, ok := g.incoming[dst]; !ok || cur != src {
		return nil
	}
	g.removeEdge(src, dst)
	return nil
}

// FindTerminalNodes returns every node with no outgoing connections
// (including nodes with zero output ports, like OutputSDF).
func (g *Graph) FindTerminalNodes() []uint32 {
	var ids []uint32
	for id, n := range g.nodes {
		_, outputs := g.portCounts(n)
		hasOutgoing := false
		for i := 0; i < outputs && !hasOutgoing; i++ {
			if len(g.outgoing[Port{Node: id, Index: uint16(i)}]) > 0 {
				hasOutgoing = true
			}
		}
		if !hasOutgoing {
			ids = append(ids, id)
		}
	}
	return ids
}

// CopyFrom replaces the receiver's contents with a deep copy of other's
// topology, bounds, and resource registries. Node ids are preserved from
// other, but the two graphs share no storage afterward and each keeps an
// independent id/resource-id counter going forward.
func (g *Graph) CopyFrom(other *Graph) {
	g.nodes = make(map[uint32]*AuthorNode, len(other.nodes))
	for id, n := range other.nodes {
		cp := *n
		cp.Params = append([]catalog.ParamValue(nil), n.Params...)
		g.nodes[id] = &cp
	}
	g.nextID = other.nextID

	g.incoming = make(map[Port]Port, len(other.incoming))
	for k, v := range other.incoming {
		g.incoming[k] = v
	}
	g.outgoing = make(map[Port][]Port, len(other.outgoing))
	for k, v := range other.outgoing {
		g.outgoing[k] = append([]Port(nil), v...)
	}

	g.Bounds = other.Bounds
	g.IsoScale = other.IsoScale

	g.curves = make(map[catalog.ResourceID]providers.CurveProvider, len(other.curves))
	for k, v := range other.curves {
		g.curves[k] = v
	}
	g.noises = make(map[catalog.ResourceID]providers.NoiseProvider, len(other.noises))
	for k, v := range other.noises {
		g.noises[k] = v
	}
	g.images = make(map[catalog.ResourceID]providers.ImageProvider, len(other.images))
	for k, v := range other.images {
		g.images[k] = v
	}
	g.nextResourceID = other.nextResourceID
}

// AddCurve registers a curve provider and returns its resource id for use
// in a Curve node's parameter.
func (g *Graph) AddCurve(c providers.CurveProvider) catalog.ResourceID {
	id := g.nextResourceID
	g.nextResourceID++
	g.curves[id] = c
	return id
}

// AddNoise registers a noise provider and returns its resource id.
func (g *Graph) AddNoise(n providers.NoiseProvider) catalog.ResourceID {
	id := g.nextResourceID
	g.nextResourceID++
	g.noises[id] = n
	return id
}

// AddImage registers an image provider and returns its resource id.
func (g *Graph) AddImage(img providers.ImageProvider) catalog.ResourceID {
	id := g.nextResourceID
	g.nextResourceID++
	g.images[id] = img
	return id
}

func (g *Graph) Curve(id catalog.ResourceID) (providers.CurveProvider, bool) { c, ok := g.curves[id]; return c, ok }
func (g *Graph) Noise(id catalog.ResourceID) (providers.NoiseProvider, bool) { n, ok := g.noises[id]; return n, ok }
func (g *Graph) Image(id catalog.ResourceID) (providers.ImageProvider, bool) { i, ok := g.images[id]; return i, ok }

// Incoming returns the source port feeding dst, if any.
func (g *Graph) Incoming(dst Port) (Port, bool) {
	src, ok := g.incoming[dst]
	return src, ok
}
