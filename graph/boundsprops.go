package graph

// Host property surfacing for the bounds record. The editor's property
// system addresses bounds fields by slash-separated name; which names are
// live depends on the active variant. Everything crosses this boundary as
// float32 — the host property system is float-typed, so TYPE channel
// values round-trip through a float here.
const (
	PropBoundsType = "bounds/type"

	PropBoundsMinX = "bounds/min_x"
	PropBoundsMinY = "bounds/min_y"
	PropBoundsMinZ = "bounds/min_z"
	PropBoundsMaxX = "bounds/max_x"
	PropBoundsMaxY = "bounds/max_y"
	PropBoundsMaxZ = "bounds/max_z"

	PropBoundsSDFValue  = "bounds/sdf_value"
	PropBoundsTypeValue = "bounds/type_value"

	PropBoundsTopSDFValue     = "bounds/top_sdf_value"
	PropBoundsBottomSDFValue  = "bounds/bottom_sdf_value"
	PropBoundsTopTypeValue    = "bounds/top_type_value"
	PropBoundsBottomTypeValue = "bounds/bottom_type_value"
)

// PropertyNames returns the property names live for the current variant,
// in the order the host property panel lists them. bounds/type is always
// present; the rest appear only when the variant uses them.
func (b *Bounds) PropertyNames() []string {
	switch b.Kind {
	case BoundsVertical:
		return []string{
			PropBoundsType,
			PropBoundsMinY, PropBoundsMaxY,
			PropBoundsBottomSDFValue, PropBoundsTopSDFValue,
			PropBoundsBottomTypeValue, PropBoundsTopTypeValue,
		}
	case BoundsBox:
		return []string{
			PropBoundsType,
			PropBoundsMinX, PropBoundsMinY, PropBoundsMinZ,
			PropBoundsMaxX, PropBoundsMaxY, PropBoundsMaxZ,
			PropBoundsSDFValue, PropBoundsTypeValue,
		}
	default:
		return []string{PropBoundsType}
	}
}

// GetProperty reads a bounds property by name. ok is false when the name
// is unknown or not live for the current variant.
func (b *Bounds) GetProperty(name string) (value float32, ok bool) {
	if name == PropBoundsType {
		return float32(b.Kind), true
	}
	switch b.Kind {
	case BoundsVertical:
		switch name {
		case PropBoundsMinY:
			return b.MinY, true
		case PropBoundsMaxY:
			return b.MaxY, true
		case PropBoundsBottomSDFValue:
			return b.SDFBelow, true
		case PropBoundsTopSDFValue:
			return b.SDFAbove, true
		case PropBoundsBottomTypeValue:
			return float32(b.TypeBelow), true
		case PropBoundsTopTypeValue:
			return float32(b.TypeAbove), true
		}
	case BoundsBox:
		switch name {
		case PropBoundsMinX:
			return float32(b.Min.X), true
		case PropBoundsMinY:
			return float32(b.Min.Y), true
		case PropBoundsMinZ:
			return float32(b.Min.Z), true
		case PropBoundsMaxX:
			return float32(b.Max.X), true
		case PropBoundsMaxY:
			return float32(b.Max.Y), true
		case PropBoundsMaxZ:
			return float32(b.Max.Z), true
		case PropBoundsSDFValue:
			return b.SDFOutside, true
		case PropBoundsTypeValue:
			return float32(b.TypeOutside), true
		}
	}
	return 0, false
}

// SetProperty writes a bounds property by name. Setting bounds/type
// switches the active variant, keeping whatever field values the struct
// already holds (the editor re-sends the variant's fields after a switch).
// Returns false when the name is unknown or not live for the current
// variant, leaving the bounds unchanged.
func (b *Bounds) SetProperty(name string, value float32) bool {
	if name == PropBoundsType {
		k := BoundsKind(value)
		if k != BoundsNone && k != BoundsVertical && k != BoundsBox {
			return false
		}
		b.Kind = k
		return true
	}
	switch b.Kind {
	case BoundsVertical:
		switch name {
		case PropBoundsMinY:
			b.MinY = value
		case PropBoundsMaxY:
			b.MaxY = value
		case PropBoundsBottomSDFValue:
			b.SDFBelow = value
		case PropBoundsTopSDFValue:
			b.SDFAbove = value
		case PropBoundsBottomTypeValue:
			b.TypeBelow = uint64(value)
		case PropBoundsTopTypeValue:
			b.TypeAbove = uint64(value)
		default:
			return false
		}
		return true
	case BoundsBox:
		switch name {
		case PropBoundsMinX:
			b.Min.X = int32(value)
		case PropBoundsMinY:
			b.Min.Y = int32(value)
		case PropBoundsMinZ:
			b.Min.Z = int32(value)
		case PropBoundsMaxX:
			b.Max.X = int32(value)
		case PropBoundsMaxY:
			b.Max.Y = int32(value)
		case PropBoundsMaxZ:
			b.Max.Z = int32(value)
		case PropBoundsSDFValue:
			b.SDFOutside = value
		case PropBoundsTypeValue:
			b.TypeOutside = uint64(value)
		default:
			return false
		}
		return true
	}
	return false
}
