package block

// DenseBuffer is a reference in-memory VoxelBuffer: a flat SDF channel and
// a flat TYPE channel, each sized sx*sy*sz. Wasteful for production voxel
// storage (no compression, no paging) but exercises every driver code path
// the interface requires.
type DenseBuffer struct {
	sx, sy, sz int
	sdf        []float32
	typ        []uint64

	// Uniform records whether CompressUniformChannels observed every voxel
	// of the SDF channel holding the same value — a no-op marker rather
	// than an actual compression strategy, left for a production buffer to
	// replace.
	Uniform bool
}

// NewDenseBuffer allocates a zeroed buffer of the given voxel extents.
func NewDenseBuffer(sx, sy, sz int) *DenseBuffer {
	n := sx * sy * sz
	return &DenseBuffer{
		sx: sx, sy: sy, sz: sz,
		sdf: make([]float32, n),
		typ: make([]uint64, n),
	}
}

func (b *DenseBuffer) Size() (x, y, z int) { return b.sx, b.sy, b.sz }

func (b *DenseBuffer) index(x, y, z int) int { return (z*b.sy+y)*b.sx + x }

func (b *DenseBuffer) ClearChannel(ch Channel, value uint64) {
	if ch != ChannelType {
		return
	}
	for i := range b.typ {
		b.typ[i] = value
	}
}

func (b *DenseBuffer) ClearChannelF(ch Channel, value float32) {
	if ch != ChannelSDF {
		return
	}
	for i := range b.sdf {
		b.sdf[i] = value
	}
}

func (b *DenseBuffer) SetVoxelF(value float32, x, y, z int, ch Channel) {
	if ch != ChannelSDF {
		return
	}
	b.sdf[b.index(x, y, z)] = value
}

// SDFAt returns the SDF channel value at local coordinate (x,y,z), for
// callers (tests, preview export) that need to read the buffer back.
func (b *DenseBuffer) SDFAt(x, y, z int) float32 { return b.sdf[b.index(x, y, z)] }

// TypeAt returns the TYPE channel value at local coordinate (x,y,z).
func (b *DenseBuffer) TypeAt(x, y, z int) uint64 { return b.typ[b.index(x, y, z)] }

func (b *DenseBuffer) CompressUniformChannels() {
	if len(b.sdf) == 0 {
		b.Uniform = true
		return
	}
	first := b.sdf[0]
	for _, v := range b.sdf[1:] {
		if v != first {
			b.Uniform = false
			return
		}
	}
	b.Uniform = true
}
