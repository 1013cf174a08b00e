package distancefield

import (
	"context"
	"math"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// DefaultMaxVoxels bounds the dense storage of a single field.
const DefaultMaxVoxels = 1 << 24

// ErrFieldTooLarge is returned when a field would need more voxels than allowed.
var ErrFieldTooLarge = errors.New("distance field exceeds the voxel limit")

// BuildOptions controls the sampling of a surface into a field.
type BuildOptions struct {
	VoxelSize  float64
	Background float64
	// ExteriorBandwidth and InteriorBandwidth are half-widths in voxels.
	ExteriorBandwidth float64
	InteriorBandwidth float64
	// MaxVoxels is the largest allowed number of stored voxels, DefaultMaxVoxels when zero.
	MaxVoxels int64
}

func (opts BuildOptions) validate() error {
	switch {
	case !(opts.VoxelSize > 0):
		return errors.Errorf("voxel size must be positive, got %v", opts.VoxelSize)
	case !(opts.Background > 0):
		return errors.Errorf("background must be positive, got %v", opts.Background)
	case opts.ExteriorBandwidth < 0 || opts.InteriorBandwidth < 0:
		return errors.Errorf("bandwidths must not be negative, got %v and %v", opts.ExteriorBandwidth, opts.InteriorBandwidth)
	}
	return nil
}

// Build samples the surface at every voxel node of a box covering the surface and its exterior band.
// A nil surface gives an empty field.
func Build(ctx context.Context, surface *Surface, opts BuildOptions) (*Field, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	field := NewEmptyField(opts.VoxelSize, opts.Background, opts.ExteriorBandwidth, opts.InteriorBandwidth)
	if surface == nil {
		return field, nil
	}
	maxVoxels := opts.MaxVoxels
	if maxVoxels <= 0 {
		maxVoxels = DefaultMaxVoxels
	}

	v := opts.VoxelSize
	exterior := opts.ExteriorBandwidth * v
	interior := opts.InteriorBandwidth * v
	margin := exterior + v
	lo, hi := surface.Bounds()
	minF := [3]float64{math.Floor((lo.X - margin) / v), math.Floor((lo.Y - margin) / v), math.Floor((lo.Z - margin) / v)}
	maxF := [3]float64{math.Ceil((hi.X + margin) / v), math.Ceil((hi.Y + margin) / v), math.Ceil((hi.Z + margin) / v)}
	count := 1.0
	for i := range minF {
		if math.IsNaN(minF[i]) || math.IsInf(minF[i], 0) || math.IsNaN(maxF[i]) || math.IsInf(maxF[i], 0) {
			return nil, errors.Errorf("surface bounds %v %v are not finite", lo, hi)
		}
		if minF[i] < math.MinInt32+1 || maxF[i] > math.MaxInt32-1 {
			return nil, errors.Wrapf(ErrFieldTooLarge, "surface bounds %v %v leave the index range", lo, hi)
		}
		count *= maxF[i] - minF[i] + 1
	}
	if count > float64(maxVoxels) {
		return nil, errors.Wrapf(ErrFieldTooLarge, "need %.0f voxels of size %v, limit is %d", count, v, maxVoxels)
	}

	bbox := CoordBBox{
		Min: Coord{int32(minF[0]), int32(minF[1]), int32(minF[2])},
		Max: Coord{int32(maxF[0]), int32(maxF[1]), int32(maxF[2])},
	}
	values := make([]float32, bbox.Volume())
	bg := float32(opts.Background)
	var c Coord
	for c.Z = bbox.Min.Z; c.Z <= bbox.Max.Z; c.Z++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for c.Y = bbox.Min.Y; c.Y <= bbox.Max.Y; c.Y++ {
			for c.X = bbox.Min.X; c.X <= bbox.Max.X; c.X++ {
				d := surface.Distance(c.Vector().Mul(v))
				values[bbox.offset(c)] = narrowBand(d, exterior, interior, bg)
			}
		}
	}

	field.bbox = bbox
	field.values = values
	field.surface = surface
	return field, nil
}

// narrowBand keeps true distances inside the bands and snaps everything else to the background.
func narrowBand(d, exterior, interior float64, bg float32) float32 {
	if d > 0 {
		if d > exterior {
			return bg
		}
		return math32.Min(float32(d), bg)
	}
	if d < -interior {
		return -bg
	}
	return math32.Max(float32(d), -bg)
}
