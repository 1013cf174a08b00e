// Package distancefield implements dense narrow-band signed distance fields over a node-centered voxel
// grid, the index maps that place them in the world, and the fitting of probe spheres inside them.
package distancefield

import (
	"github.com/chewxy/math32"
	"github.com/golang/geo/r3"
)

// Field is an immutable narrow-band signed distance grid. Voxel ijk sits at ijk*VoxelSize in the field
// frame. Inside the bands the grid holds the true distance; farther away it holds exactly plus or minus
// the background, and outside the stored box it reads exactly +background.
type Field struct {
	voxelSize    float64
	background   float32
	exteriorBand float64
	interiorBand float64

	bbox    CoordBBox
	values  []float32
	surface *Surface
}

// NewEmptyField returns a field with no stored voxels, which reads +background everywhere.
func NewEmptyField(voxelSize, background, exteriorBand, interiorBand float64) *Field {
	return &Field{
		voxelSize:    voxelSize,
		background:   float32(background),
		exteriorBand: exteriorBand,
		interiorBand: interiorBand,
		bbox:         EmptyBBox(),
	}
}

// VoxelSize returns the edge length of a voxel.
func (f *Field) VoxelSize() float64 { return f.voxelSize }

// Background returns the value held far from the surface.
func (f *Field) Background() float32 { return f.background }

// Bands returns the exterior and interior half-bandwidths in voxels.
func (f *Field) Bands() (float64, float64) { return f.exteriorBand, f.interiorBand }

// BBox returns the box of stored voxels.
func (f *Field) BBox() CoordBBox { return f.bbox }

// Empty reports whether the field stores no voxels.
func (f *Field) Empty() bool { return len(f.values) == 0 }

// Surface returns the surface the field was sampled from, nil for an empty field.
func (f *Field) Surface() *Surface { return f.surface }

// Value returns the value at voxel c.
func (f *Field) Value(c Coord) float32 {
	if !f.bbox.Contains(c) {
		return f.background
	}
	return f.values[f.bbox.offset(c)]
}

// IsBackground reports whether v is within epsilon of the positive background.
func (f *Field) IsBackground(v, epsilon float32) bool {
	return math32.Abs(v-f.background) < epsilon
}

// LocalPosition returns the field frame position of voxel c.
func (f *Field) LocalPosition(c Coord) r3.Vector {
	return c.Vector().Mul(f.voxelSize)
}

// LocalCoord returns the voxel nearest to a field frame position.
func (f *Field) LocalCoord(p r3.Vector) Coord {
	return RoundCoord(p.Mul(1 / f.voxelSize))
}

// Gradient returns the index-space gradient at c by second order central differences.
func (f *Field) Gradient(c Coord) r3.Vector {
	dx := f.Value(c.Add(Coord{1, 0, 0})) - f.Value(c.Add(Coord{-1, 0, 0}))
	dy := f.Value(c.Add(Coord{0, 1, 0})) - f.Value(c.Add(Coord{0, -1, 0}))
	dz := f.Value(c.Add(Coord{0, 0, 1})) - f.Value(c.Add(Coord{0, 0, -1}))
	return r3.Vector{X: float64(dx) / 2, Y: float64(dy) / 2, Z: float64(dz) / 2}
}

// MemUsage returns the number of bytes held by the field.
func (f *Field) MemUsage() int64 {
	const headerSize, valueSize = 96, 4
	return headerSize + int64(len(f.values))*valueSize
}
