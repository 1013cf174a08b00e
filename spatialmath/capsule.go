package spatialmath

import (
	"encoding/json"
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/sdfcollision/utils"
)

// capsule is a collision geometry that represents a capsule, it has a pose and a radius that fully define it.
//
// ....___________________
// .../                   \
// .x|  |-------O-------|  |x
// ...\___________________/
//
// Length is the distance between the x's, or internal segment length + 2*radius.
type capsule struct {
	// pose of the capsule center, the segment runs along the local Z axis
	pose   Pose
	radius float64
	length float64 // total length of the capsule, tip to tip
	label  string

	// generated at geometry creation time
	segA r3.Vector // endpoint of capsule line segment in the negative local Z direction
	segB r3.Vector // endpoint of capsule line segment in the positive local Z direction
}

// NewCapsule instantiates a new capsule Geometry.
func NewCapsule(offset Pose, radius, length float64, label string) (Geometry, error) {
	if radius <= 0 || length <= 0 {
		return nil, newBadGeometryDimensionsError(&capsule{})
	}
	if length < radius*2 {
		return nil, errors.Errorf("capsule length %v is less than twice its radius %v", length, radius)
	}
	if length == radius*2 {
		return NewSphere(offset, radius, label)
	}
	return newCapsuleWithSegPoints(offset, radius, length, label), nil
}

// Will precalculate the linear endpoints for a capsule.
func newCapsuleWithSegPoints(offset Pose, radius, length float64, label string) Geometry {
	segA := TransformPoint(offset, r3.Vector{X: 0, Y: 0, Z: -length/2 + radius})
	segB := TransformPoint(offset, r3.Vector{X: 0, Y: 0, Z: length/2 - radius})
	return &capsule{
		pose:   offset,
		radius: radius,
		length: length,
		label:  label,
		segA:   segA,
		segB:   segB,
	}
}

func (c *capsule) MarshalJSON() ([]byte, error) {
	config, err := NewGeometryConfig(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(config)
}

// String returns a human readable string that represents the capsule.
func (c *capsule) String() string {
	pt := c.pose.Point()
	return fmt.Sprintf("Type: Capsule | Position: X:%.3f, Y:%.3f, Z:%.3f | Radius: %.3f | Length: %.3f",
		pt.X, pt.Y, pt.Z, c.radius, c.length)
}

// Label returns the label of this capsule.
func (c *capsule) Label() string {
	return c.label
}

// SetLabel sets the label of this capsule.
func (c *capsule) SetLabel(label string) {
	c.label = label
}

// Pose returns the pose of this capsule.
func (c *capsule) Pose() Pose {
	return c.pose
}

// AlmostEqual compares the capsule with another geometry and checks if they are equivalent.
func (c *capsule) AlmostEqual(g Geometry) bool {
	other, ok := g.(*capsule)
	if !ok {
		return false
	}
	return PoseAlmostEqual(c.pose, other.pose) &&
		utils.Float64AlmostEqual(c.radius, other.radius, 1e-6) &&
		utils.Float64AlmostEqual(c.length, other.length, 1e-6)
}

// Transform premultiplies the capsule pose with a transform, allowing the capsule to be moved in space.
func (c *capsule) Transform(toPremultiply Pose) Geometry {
	return newCapsuleWithSegPoints(Compose(toPremultiply, c.pose), c.radius, c.length, c.label)
}

func (c *capsule) BoundingSphereRadius() float64 {
	return c.length / 2
}

func (c *capsule) SignedDistance(pt r3.Vector) float64 {
	return ClosestPointSegmentPoint(c.segA, c.segB, pt).Sub(pt).Norm() - c.radius
}

// ClosestPointSegmentPoint takes a line segment and a point, and returns the point on the segment closest to the point.
func ClosestPointSegmentPoint(segA, segB, pt r3.Vector) r3.Vector {
	ab := segB.Sub(segA)
	denom := ab.Norm2()
	if denom == 0 {
		return segA
	}
	t := utils.Clamp(pt.Sub(segA).Dot(ab)/denom, 0, 1)
	return segA.Add(ab.Mul(t))
}
