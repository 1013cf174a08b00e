package distancefield

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Coord is an integer voxel index.
type Coord struct {
	X, Y, Z int32
}

// String returns the voxel index as "[x y z]".
func (c Coord) String() string {
	return fmt.Sprintf("[%d %d %d]", c.X, c.Y, c.Z)
}

// Add returns the component-wise sum.
func (c Coord) Add(o Coord) Coord {
	return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// Vector returns the index as a continuous index-space vector.
func (c Coord) Vector() r3.Vector {
	return r3.Vector{X: float64(c.X), Y: float64(c.Y), Z: float64(c.Z)}
}

// RoundCoord rounds a continuous index-space position to the nearest voxel node, with ties going up.
func RoundCoord(v r3.Vector) Coord {
	return Coord{round(v.X), round(v.Y), round(v.Z)}
}

func round(f float64) int32 {
	r := math.Floor(f + 0.5)
	switch {
	case r > math.MaxInt32:
		return math.MaxInt32
	case r < math.MinInt32:
		return math.MinInt32
	}
	return int32(r)
}

// CoordBBox is an inclusive box of voxel indices. A box with Min greater than Max on any axis is empty.
type CoordBBox struct {
	Min, Max Coord
}

// EmptyBBox returns a box containing no voxels.
func EmptyBBox() CoordBBox {
	return CoordBBox{Min: Coord{0, 0, 0}, Max: Coord{-1, -1, -1}}
}

// Empty reports whether the box contains no voxels.
func (b CoordBBox) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Contains reports whether c lies in the box.
func (b CoordBBox) Contains(c Coord) bool {
	return c.X >= b.Min.X && c.X <= b.Max.X &&
		c.Y >= b.Min.Y && c.Y <= b.Max.Y &&
		c.Z >= b.Min.Z && c.Z <= b.Max.Z
}

// Dim returns the number of voxels along each axis.
func (b CoordBBox) Dim() (int64, int64, int64) {
	if b.Empty() {
		return 0, 0, 0
	}
	return int64(b.Max.X-b.Min.X) + 1, int64(b.Max.Y-b.Min.Y) + 1, int64(b.Max.Z-b.Min.Z) + 1
}

// Volume returns the number of voxels in the box.
func (b CoordBBox) Volume() int64 {
	x, y, z := b.Dim()
	return x * y * z
}

// offset returns the dense storage offset of c, which must be inside the box.
func (b CoordBBox) offset(c Coord) int64 {
	x, y, _ := b.Dim()
	return int64(c.X-b.Min.X) + x*(int64(c.Y-b.Min.Y)+y*int64(c.Z-b.Min.Z))
}
