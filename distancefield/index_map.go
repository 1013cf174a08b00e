package distancefield

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// IndexMap is a linear transform from index space to world space: a uniform voxel scale followed by an
// affine matrix given in the row vector convention, world = [i*v j*v k*v 1] * M.
type IndexMap struct {
	voxelSize float64
	affine    mgl64.Mat4
	// forward and inverse are the column convention forms of the full index to world transform.
	forward mgl64.Mat4
	inverse mgl64.Mat4
	ijt     mgl64.Mat3
}

// NewIndexMap returns the map for the given voxel size and row convention affine matrix.
func NewIndexMap(voxelSize float64, affine mgl64.Mat4) *IndexMap {
	forward := affine.Transpose().Mul4(mgl64.Scale3D(voxelSize, voxelSize, voxelSize))
	jacobian := forward.Mat3()
	return &IndexMap{
		voxelSize: voxelSize,
		affine:    affine,
		forward:   forward,
		inverse:   forward.Inv(),
		ijt:       jacobian.Inv().Transpose(),
	}
}

// NewScaleMap returns the map of a field that sits at the world origin.
func NewScaleMap(voxelSize float64) *IndexMap {
	return NewIndexMap(voxelSize, mgl64.Ident4())
}

// VoxelSize returns the scale of the map.
func (m *IndexMap) VoxelSize() float64 { return m.voxelSize }

// Affine returns the row convention matrix the map was built from.
func (m *IndexMap) Affine() mgl64.Mat4 { return m.affine }

// WorldToIndex returns the continuous index-space position of a world point.
func (m *IndexMap) WorldToIndex(w r3.Vector) r3.Vector {
	v := m.inverse.Mul4x1(mgl64.Vec4{w.X, w.Y, w.Z, 1})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// WorldToIndexNodeCentered returns the voxel nearest to a world point.
func (m *IndexMap) WorldToIndexNodeCentered(w r3.Vector) Coord {
	return RoundCoord(m.WorldToIndex(w))
}

// IndexToWorld returns the world position of a voxel.
func (m *IndexMap) IndexToWorld(c Coord) r3.Vector {
	v := m.forward.Mul4x1(mgl64.Vec4{float64(c.X), float64(c.Y), float64(c.Z), 1})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// ApplyIJT maps an index-space gradient to world space through the inverse transpose of the Jacobian.
func (m *IndexMap) ApplyIJT(g r3.Vector) r3.Vector {
	v := m.ijt.Mul3x1(mgl64.Vec3{g.X, g.Y, g.Z})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}
