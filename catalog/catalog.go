// Package catalog describes the closed set of node kinds a graph can be
// built from: their port arity and parameter schema. It is the read-only
// metadata the compiler and authoring model need, populated once at
// package init and never mutated afterward.
package catalog

// NodeKind is the closed enumeration of node types. The first five are
// structural and compiled away; the remainder are runtime opcodes and their
// numeric value is reused directly as the bytecode opcode byte.
type NodeKind uint8

const (
	Constant NodeKind = iota
	InputX
	InputY
	InputZ
	OutputSDF

	Add
	Subtract
	Multiply
	Sine
	Floor
	Abs
	Sqrt
	Distance2D
	Distance3D
	Clamp
	Mix
	Remap
	Curve
	Noise2D
	Noise3D
	Image2D

	numNodeKinds
)

// IsStructural reports whether k is compiled away rather than emitted as a
// bytecode instruction.
func (k NodeKind) IsStructural() bool { return k <= OutputSDF }

// Valid reports whether k is a recognized member of the enumeration.
func (k NodeKind) Valid() bool { return k < numNodeKinds }

func (k NodeKind) String() string {
	if info, ok := registry[k]; ok {
		return info.Name
	}
	return "NodeKind(invalid)"
}

// ParamKind tags the payload carried by a ParamValue.
type ParamKind uint8

const (
	ParamFloat ParamKind = iota
	ParamCurveRef
	ParamNoiseRef
	ParamImageRef
)

// ResourceID is an opaque handle into a graph's external resource
// registries (curve/noise/image providers), assigned when the resource is
// registered with the graph.
type ResourceID uint32

// ParamValue is one entry of an AuthorNode's ordered parameter vector. Only
// one of Float/Ref is meaningful, selected by Kind.
type ParamValue struct {
	Kind  ParamKind
	Float float32
	Ref   ResourceID
}

// FloatParam builds a literal float parameter.
func FloatParam(v float32) ParamValue { return ParamValue{Kind: ParamFloat, Float: v} }

// CurveRefParam builds a curve-resource parameter.
func CurveRefParam(id ResourceID) ParamValue { return ParamValue{Kind: ParamCurveRef, Ref: id} }

// NoiseRefParam builds a noise-resource parameter.
func NoiseRefParam(id ResourceID) ParamValue { return ParamValue{Kind: ParamNoiseRef, Ref: id} }

// ImageRefParam builds an image-resource parameter.
func ImageRefParam(id ResourceID) ParamValue { return ParamValue{Kind: ParamImageRef, Ref: id} }

// PortInfo names one input or output port of a node kind, in declared
// order. Names are documentation only; addressing is always positional.
type PortInfo struct {
	Name string
}

// ParamInfo describes one entry of a node kind's parameter vector.
type ParamInfo struct {
	Name    string
	Kind    ParamKind
	Default ParamValue
}

// TypeInfo is the per-NodeKind schema: port arity and parameter shape.
type TypeInfo struct {
	Name    string
	Inputs  []PortInfo
	Outputs []PortInfo
	Params  []ParamInfo
}

var registry map[NodeKind]TypeInfo

func init() {
	registry = make(map[NodeKind]TypeInfo, numNodeKinds)

	reg := func(k NodeKind, name string, inputs, outputs []PortInfo, params []ParamInfo) {
		registry[k] = TypeInfo{Name: name, Inputs: inputs, Outputs: outputs, Params: params}
	}

	out1 := []PortInfo{{"out"}}

	reg(Constant, "Constant", nil, out1, []ParamInfo{{Name: "value", Kind: ParamFloat, Default: FloatParam(0)}})
	reg(InputX, "InputX", nil, out1, nil)
	reg(InputY, "InputY", nil, out1, nil)
	reg(InputZ, "InputZ", nil, out1, nil)
	reg(OutputSDF, "OutputSDF", []PortInfo{{"sdf"}}, nil, nil)

	reg(Add, "Add", []PortInfo{{"a"}, {"b"}}, out1, nil)
	reg(Subtract, "Subtract", []PortInfo{{"a"}, {"b"}}, out1, nil)
	reg(Multiply, "Multiply", []PortInfo{{"a"}, {"b"}}, out1, nil)
	reg(Sine, "Sine", []PortInfo{{"x"}}, out1, nil)
	reg(Floor, "Floor", []PortInfo{{"x"}}, out1, nil)
	reg(Abs, "Abs", []PortInfo{{"x"}}, out1, nil)
	reg(Sqrt, "Sqrt", []PortInfo{{"x"}}, out1, nil)
	reg(Distance2D, "Distance2D", []PortInfo{{"x0"}, {"y0"}, {"x1"}, {"y1"}}, out1, nil)
	reg(Distance3D, "Distance3D", []PortInfo{{"x0"}, {"y0"}, {"z0"}, {"x1"}, {"y1"}, {"z1"}}, out1, nil)
	reg(Clamp, "Clamp", []PortInfo{{"x"}}, out1, []ParamInfo{
		{Name: "min", Kind: ParamFloat, Default: FloatParam(0)},
		{Name: "max", Kind: ParamFloat, Default: FloatParam(1)},
	})
	reg(Mix, "Mix", []PortInfo{{"a"}, {"b"}, {"t"}}, out1, nil)
	reg(Remap, "Remap", []PortInfo{{"x"}}, out1, []ParamInfo{
		{Name: "src_min", Kind: ParamFloat, Default: FloatParam(0)},
		{Name: "src_max", Kind: ParamFloat, Default: FloatParam(1)},
		{Name: "dst_min", Kind: ParamFloat, Default: FloatParam(0)},
		{Name: "dst_max", Kind: ParamFloat, Default: FloatParam(1)},
	})
	reg(Curve, "Curve", []PortInfo{{"x"}}, out1, []ParamInfo{
		{Name: "curve", Kind: ParamCurveRef, Default: CurveRefParam(0)},
	})
	reg(Noise2D, "Noise2D", []PortInfo{{"x"}, {"y"}}, out1, []ParamInfo{
		{Name: "noise", Kind: ParamNoiseRef, Default: NoiseRefParam(0)},
	})
	reg(Noise3D, "Noise3D", []PortInfo{{"x"}, {"y"}, {"z"}}, out1, []ParamInfo{
		{Name: "noise", Kind: ParamNoiseRef, Default: NoiseRefParam(0)},
	})
	reg(Image2D, "Image2D", []PortInfo{{"x"}, {"y"}}, out1, []ParamInfo{
		{Name: "image", Kind: ParamImageRef, Default: ImageRefParam(0)},
	})
}

// Lookup returns the schema for k. ok is false for an unrecognized kind.
func Lookup(k NodeKind) (TypeInfo, bool) {
	info, ok := registry[k]
	return info, ok
}

// All returns every recognized NodeKind in declaration order.
func All() []NodeKind {
	kinds := make([]NodeKind, 0, numNodeKinds)
	for k := NodeKind(0); k < numNodeKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// KindByName resolves a node kind by its catalog name (e.g. "Add",
// "Noise2D"), as used by the persisted graph format.
func KindByName(name string) (NodeKind, bool) {
	for k, info := range registry {
		if info.Name == name {
			return k, true
		}
	}
	return 0, false
}
