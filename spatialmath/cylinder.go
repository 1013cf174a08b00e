package spatialmath

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/sdfcollision/utils"
)

// cylinder is a solid cylinder aligned with the local Z axis of its pose, centered on the pose.
// URDF describes link geometry with cylinders more often than with capsules.
type cylinder struct {
	pose   Pose
	radius float64
	length float64
	label  string
}

// NewCylinder instantiates a new cylinder Geometry.
func NewCylinder(offset Pose, radius, length float64, label string) (Geometry, error) {
	if radius <= 0 || length <= 0 {
		return nil, newBadGeometryDimensionsError(&cylinder{})
	}
	return &cylinder{offset, radius, length, label}, nil
}

func (c *cylinder) MarshalJSON() ([]byte, error) {
	config, err := NewGeometryConfig(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(config)
}

func (c *cylinder) String() string {
	pt := c.pose.Point()
	return fmt.Sprintf("Type: Cylinder | Position: X:%.3f, Y:%.3f, Z:%.3f | Radius: %.3f | Length: %.3f",
		pt.X, pt.Y, pt.Z, c.radius, c.length)
}

func (c *cylinder) Label() string {
	return c.label
}

func (c *cylinder) SetLabel(label string) {
	c.label = label
}

func (c *cylinder) Pose() Pose {
	return c.pose
}

func (c *cylinder) AlmostEqual(g Geometry) bool {
	other, ok := g.(*cylinder)
	if !ok {
		return false
	}
	return PoseAlmostEqual(c.pose, other.pose) &&
		utils.Float64AlmostEqual(c.radius, other.radius, 1e-6) &&
		utils.Float64AlmostEqual(c.length, other.length, 1e-6)
}

func (c *cylinder) Transform(toPremultiply Pose) Geometry {
	return &cylinder{Compose(toPremultiply, c.pose), c.radius, c.length, c.label}
}

func (c *cylinder) BoundingSphereRadius() float64 {
	return math.Hypot(c.radius, c.length/2)
}

func (c *cylinder) SignedDistance(pt r3.Vector) float64 {
	local := localPoint(c.pose, pt)
	dRadial := math.Hypot(local.X, local.Y) - c.radius
	dAxial := math.Abs(local.Z) - c.length/2
	outside := math.Hypot(math.Max(dRadial, 0), math.Max(dAxial, 0))
	inside := math.Min(math.Max(dRadial, dAxial), 0)
	return outside + inside
}
