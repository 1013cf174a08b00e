package distancefield

import (
	"context"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Sphere is a probe sphere in the frame of the field it was fitted to.
type Sphere struct {
	Center r3.Vector
	Radius float64
}

func (s Sphere) String() string {
	return fmt.Sprintf("{center: %v, radius: %.4g}", s.Center, s.Radius)
}

// SphereFitOptions controls FillWithSpheres. Radii are in voxels.
type SphereFitOptions struct {
	MaxSpheres   int
	Overlapping  bool
	MinRadius    float64
	MaxRadius    float64
	IsoValue     float64
	MaxInstances int
}

type instance struct {
	pos    r3.Vector
	radius float64
	alive  bool
}

// FillWithSpheres greedily fits up to MaxSpheres spheres inside the iso-surface of the field. Candidate
// centers are interior voxel nodes, evenly sub-sampled down to MaxInstances. Each step emits the largest
// remaining candidate; overlapping fits then discard the candidates it covers, otherwise every remaining
// radius shrinks to stay clear of it.
func FillWithSpheres(ctx context.Context, f *Field, opts SphereFitOptions) ([]Sphere, error) {
	if opts.MaxSpheres <= 0 || f.Empty() {
		return nil, nil
	}
	if opts.MaxInstances <= 0 {
		return nil, errors.Errorf("max instances must be positive, got %d", opts.MaxInstances)
	}
	v := f.VoxelSize()
	minRadius := opts.MinRadius * v
	maxRadius := math.Inf(1)
	if opts.MaxRadius > 0 {
		maxRadius = opts.MaxRadius * v
	}

	samples := sampleInterior(f, float32(opts.IsoValue), opts.MaxInstances)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	instances := make([]instance, 0, len(samples))
	for _, c := range samples {
		pos := f.LocalPosition(c)
		d := float64(f.Value(c))
		if f.surface != nil {
			d = f.surface.Distance(pos)
		}
		r := math.Min(opts.IsoValue-d, maxRadius)
		if r < minRadius {
			continue
		}
		instances = append(instances, instance{pos: pos, radius: r, alive: true})
	}

	var spheres []Sphere
	for len(spheres) < opts.MaxSpheres {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		best := -1
		for i := range instances {
			if instances[i].alive && (best < 0 || instances[i].radius > instances[best].radius) {
				best = i
			}
		}
		if best < 0 {
			break
		}
		chosen := Sphere{Center: instances[best].pos, Radius: instances[best].radius}
		spheres = append(spheres, chosen)
		instances[best].alive = false

		for i := range instances {
			inst := &instances[i]
			if !inst.alive {
				continue
			}
			dist := inst.pos.Sub(chosen.Center).Norm()
			if opts.Overlapping {
				if dist < chosen.Radius {
					inst.alive = false
				}
				continue
			}
			inst.radius = math.Min(inst.radius, dist-chosen.Radius)
			if inst.radius < minRadius {
				inst.alive = false
			}
		}
	}
	return spheres, nil
}

// sampleInterior returns every stride-th voxel below the iso value in scan order, the stride chosen so at
// most limit voxels come back. The first pass only counts.
func sampleInterior(f *Field, iso float32, limit int) []Coord {
	total := 0
	f.scanBelow(iso, func(Coord) { total++ })
	stride := (total + limit - 1) / limit
	if stride < 1 {
		stride = 1
	}
	samples := make([]Coord, 0, (total+stride-1)/stride)
	i := 0
	f.scanBelow(iso, func(c Coord) {
		if i%stride == 0 {
			samples = append(samples, c)
		}
		i++
	})
	return samples
}

func (f *Field) scanBelow(iso float32, fn func(Coord)) {
	bbox := f.bbox
	var c Coord
	for c.Z = bbox.Min.Z; c.Z <= bbox.Max.Z; c.Z++ {
		for c.Y = bbox.Min.Y; c.Y <= bbox.Max.Y; c.Y++ {
			for c.X = bbox.Min.X; c.X <= bbox.Max.X; c.X++ {
				if f.values[bbox.offset(c)] < iso {
					fn(c)
				}
			}
		}
	}
}
