package graph

// BoundsKind selects which variant of the Bounds tagged union is active.
type BoundsKind uint8

const (
	BoundsNone BoundsKind = iota
	BoundsVertical
	BoundsBox
)

// IVec3 is an integer 3-vector, used for Box bounds corners.
type IVec3 struct {
	X, Y, Z int32
}

// Bounds is the graph-wide spatial bounds policy consulted by the block
// driver before running the compiled program. Only the fields relevant to
// Kind are meaningful.
//
// The Box variant stores exactly one (sdf, type) "outside" pair assigned
// to its own fields. It is deliberately a single-value box: there is no
// second pair to confuse an outside value with.
type Bounds struct {
	Kind BoundsKind

	// Vertical fields.
	MinY, MaxY           float32
	SDFBelow, SDFAbove   float32
	TypeBelow, TypeAbove uint64

	// Box fields.
	Min, Max    IVec3
	SDFOutside  float32
	TypeOutside uint64
}
