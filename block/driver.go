package block

import (
	"github.com/soypat/geometry/ms3"

	"github.com/sdfgraph/voxelgraph/graph"
	"github.com/sdfgraph/voxelgraph/program"
	"github.com/sdfgraph/voxelgraph/providers"
	"github.com/sdfgraph/voxelgraph/vm"
)

// clipThreshold is the interval short-circuit threshold: a block whose
// range lies entirely beyond [-clipThreshold, clipThreshold] is uniform
// enough to skip the per-voxel walk.
const clipThreshold = 1.0

// GenerateBlock fills req.Buffer's SDF channel for one block: bounds
// policy short-circuit, then interval-analysis short-circuit, then a
// z -> x -> y voxel walk calling vm.Eval. The iteration order is a
// deliberate cache-locality choice for the buffer layout and must not be
// reordered — two runs over the same inputs must produce bit-identical
// output.
func GenerateBlock(prog *program.Program, bounds graph.Bounds, req Request) {
	sx, sy, sz := req.Buffer.Size()
	stride := 1 << req.LOD
	ox, oy, oz := req.Origin[0], req.Origin[1], req.Origin[2]

	switch bounds.Kind {
	case graph.BoundsVertical:
		if float32(oy) > bounds.MaxY {
			clearUniform(req.Buffer, bounds.TypeAbove, bounds.SDFAbove)
			return
		}
		if float32(oy+sy*stride) < bounds.MinY {
			clearUniform(req.Buffer, bounds.TypeBelow, bounds.SDFBelow)
			return
		}
	case graph.BoundsBox:
		worldMin := [3]int{ox, oy, oz}
		worldMax := [3]int{ox + sx*stride, oy + sy*stride, oz + sz*stride}
		if !boxIntersects(worldMin, worldMax, bounds.Min, bounds.Max) {
			clearUniform(req.Buffer, bounds.TypeOutside, bounds.SDFOutside)
			return
		}
	}

	worldMin := ms3.Vec{X: float32(ox), Y: float32(oy), Z: float32(oz)}
	worldMax := ms3.Vec{X: float32(ox + sx*stride), Y: float32(oy + sy*stride), Z: float32(oz + sz*stride)}

	rangeScratch := prog.NewScratch()
	rng := vm.Range(prog, rangeScratch, ms3.Box{Min: worldMin, Max: worldMax})

	switch {
	case rng.Lo > clipThreshold:
		req.Buffer.ClearChannelF(ChannelSDF, 1)
		return
	case rng.Hi < -clipThreshold:
		req.Buffer.ClearChannelF(ChannelSDF, -1)
		return
	case rng.IsSingle():
		req.Buffer.ClearChannelF(ChannelSDF, rng.Lo)
		return
	}

	// Image providers that guard pixel reads with a read lock are locked
	// once for the whole voxel walk rather than per pixel read. Only the
	// walk below touches pixels; the short-circuit paths above read
	// nothing but the baked range.
	for _, img := range prog.Images {
		if l, ok := img.(providers.ReadLocker); ok {
			l.RLock()
			defer l.RUnlock()
		}
	}

	mem := prog.NewScratch()
	for z := 0; z < sz; z++ {
		wz := float32(oz + z*stride)
		for x := 0; x < sx; x++ {
			wx := float32(ox + x*stride)
			for y := 0; y < sy; y++ {
				wy := float32(oy + y*stride)
				v := vm.Eval(prog, mem, ms3.Vec{X: wx, Y: wy, Z: wz})
				req.Buffer.SetVoxelF(v, x, y, z, ChannelSDF)
			}
		}
	}
	req.Buffer.CompressUniformChannels()
}

func clearUniform(buf VoxelBuffer, typeValue uint64, sdfValue float32) {
	buf.ClearChannel(ChannelType, typeValue)
	buf.ClearChannelF(ChannelSDF, sdfValue)
}

func boxIntersects(aMin, aMax [3]int, bMin, bMax graph.IVec3) bool {
	bmin := [3]int{int(bMin.X), int(bMin.Y), int(bMin.Z)}
	bmax := [3]int{int(bMax.X), int(bMax.Y), int(bMax.Z)}
	for i := 0; i < 3; i++ {
		if aMax[i] < bmin[i] || aMin[i] > bmax[i] {
			return false
		}
	}
	return true
}
