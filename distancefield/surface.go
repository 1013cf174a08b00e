package distancefield

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/sdfcollision/spatialmath"
)

// ErrEmptySurface is returned when a surface is requested for no geometry.
var ErrEmptySurface = errors.New("surface has no geometry")

// Surface is the union of the collision geometries of one link, evaluated as a signed distance in the
// frame the geometries are expressed in.
type Surface struct {
	sdf sdf.SDF3
}

// NewSurface returns the union of the given geometries.
func NewSurface(geometries []spatialmath.Geometry) (*Surface, error) {
	if len(geometries) == 0 {
		return nil, ErrEmptySurface
	}
	parts := make([]sdf.SDF3, 0, len(geometries))
	for _, g := range geometries {
		s, err := geometrySDF(g)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	if len(parts) == 1 {
		return &Surface{sdf: parts[0]}, nil
	}
	return &Surface{sdf: sdf.Union3D(parts...)}, nil
}

// Distance returns the signed distance from p to the surface, negative inside.
func (s *Surface) Distance(p r3.Vector) float64 {
	return s.sdf.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

// Bounds returns an axis aligned box containing the surface.
func (s *Surface) Bounds() (r3.Vector, r3.Vector) {
	bb := s.sdf.BoundingBox()
	return r3.Vector{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z}, r3.Vector{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z}
}

// geometrySDF builds the sdfx primitive for g, centered at its origin, and places it at the geometry pose.
func geometrySDF(g spatialmath.Geometry) (sdf.SDF3, error) {
	cfg, err := spatialmath.NewGeometryConfig(g)
	if err != nil {
		return nil, err
	}
	var primitive sdf.SDF3
	//nolint:exhaustive
	switch cfg.Type {
	case spatialmath.BoxType:
		primitive, err = sdf.Box3D(v3.Vec{X: cfg.X, Y: cfg.Y, Z: cfg.Z}, 0)
	case spatialmath.SphereType:
		primitive, err = sdf.Sphere3D(cfg.R)
	case spatialmath.CapsuleType:
		primitive, err = sdf.Capsule3D(cfg.L, cfg.R)
	case spatialmath.CylinderType:
		primitive, err = sdf.Cylinder3D(cfg.L, cfg.R, 0)
	default:
		return nil, errors.Wrapf(spatialmath.ErrGeometryTypeUnsupported, "%q", cfg.Type)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "geometry %q", g.Label())
	}
	if spatialmath.PoseAlmostEqual(g.Pose(), spatialmath.NewZeroPose()) {
		return primitive, nil
	}
	return newPosedSDF(primitive, g.Pose()), nil
}

// posedSDF evaluates a primitive under a rigid transform. Rigid transforms preserve distances.
type posedSDF struct {
	inner sdf.SDF3
	pose  spatialmath.Pose
	inv   spatialmath.Pose
	bb    sdf.Box3
}

func newPosedSDF(inner sdf.SDF3, pose spatialmath.Pose) *posedSDF {
	ibb := inner.BoundingBox()
	lo := r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := 0; i < 8; i++ {
		corner := r3.Vector{X: ibb.Min.X, Y: ibb.Min.Y, Z: ibb.Min.Z}
		if i&1 != 0 {
			corner.X = ibb.Max.X
		}
		if i&2 != 0 {
			corner.Y = ibb.Max.Y
		}
		if i&4 != 0 {
			corner.Z = ibb.Max.Z
		}
		w := spatialmath.TransformPoint(pose, corner)
		lo = r3.Vector{X: math.Min(lo.X, w.X), Y: math.Min(lo.Y, w.Y), Z: math.Min(lo.Z, w.Z)}
		hi = r3.Vector{X: math.Max(hi.X, w.X), Y: math.Max(hi.Y, w.Y), Z: math.Max(hi.Z, w.Z)}
	}
	return &posedSDF{
		inner: inner,
		pose:  pose,
		inv:   spatialmath.PoseInverse(pose),
		bb:    sdf.Box3{Min: v3.Vec{X: lo.X, Y: lo.Y, Z: lo.Z}, Max: v3.Vec{X: hi.X, Y: hi.Y, Z: hi.Z}},
	}
}

func (s *posedSDF) Evaluate(p v3.Vec) float64 {
	local := spatialmath.TransformPoint(s.inv, r3.Vector{X: p.X, Y: p.Y, Z: p.Z})
	return s.inner.Evaluate(v3.Vec{X: local.X, Y: local.Y, Z: local.Z})
}

func (s *posedSDF) BoundingBox() sdf.Box3 {
	return s.bb
}
