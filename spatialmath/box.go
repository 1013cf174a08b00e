package spatialmath

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// box is a collision geometry that represents a 3D rectangular prism, it has a pose and half size that fully define it.
type box struct {
	center          Pose
	halfSize        r3.Vector
	boundingSphereR float64
	label           string
}

// NewBox instantiates a new box Geometry. dims are the full edge lengths.
func NewBox(pose Pose, dims r3.Vector, label string) (Geometry, error) {
	if dims.X <= 0 || dims.Y <= 0 || dims.Z <= 0 {
		return nil, newBadGeometryDimensionsError(&box{})
	}
	halfSize := dims.Mul(0.5)
	return &box{
		center:          pose,
		halfSize:        halfSize,
		boundingSphereR: halfSize.Norm(),
		label:           label,
	}, nil
}

// String returns a human readable string that represents the box.
func (b *box) String() string {
	pt := b.center.Point()
	return fmt.Sprintf("Type: Box | Position: X:%.3f, Y:%.3f, Z:%.3f | Dims: X:%.3f, Y:%.3f, Z:%.3f",
		pt.X, pt.Y, pt.Z, 2*b.halfSize.X, 2*b.halfSize.Y, 2*b.halfSize.Z)
}

func (b *box) MarshalJSON() ([]byte, error) {
	config, err := NewGeometryConfig(b)
	if err != nil {
		return nil, err
	}
	return json.Marshal(config)
}

// SetLabel sets the label of this box.
func (b *box) SetLabel(label string) {
	b.label = label
}

// Label returns the label of this box.
func (b *box) Label() string {
	return b.label
}

// Pose returns the pose of the box.
func (b *box) Pose() Pose {
	return b.center
}

// AlmostEqual compares the box with another geometry and checks if they are equivalent.
func (b *box) AlmostEqual(g Geometry) bool {
	other, ok := g.(*box)
	if !ok {
		return false
	}
	return R3VectorAlmostEqual(b.halfSize, other.halfSize, 1e-8) && PoseAlmostEqualEps(b.center, other.center, 1e-6)
}

// Transform premultiplies the box pose with a transform, allowing the box to be moved in space.
func (b *box) Transform(toPremultiply Pose) Geometry {
	return &box{
		center:          Compose(toPremultiply, b.center),
		halfSize:        b.halfSize,
		boundingSphereR: b.boundingSphereR,
		label:           b.label,
	}
}

func (b *box) BoundingSphereRadius() float64 {
	return b.boundingSphereR
}

// SignedDistance is the box distance function evaluated in the box frame.
func (b *box) SignedDistance(pt r3.Vector) float64 {
	local := localPoint(b.center, pt)
	q := r3.Vector{
		X: math.Abs(local.X) - b.halfSize.X,
		Y: math.Abs(local.Y) - b.halfSize.Y,
		Z: math.Abs(local.Z) - b.halfSize.Z,
	}
	outside := r3.Vector{X: math.Max(q.X, 0), Y: math.Max(q.Y, 0), Z: math.Max(q.Z, 0)}.Norm()
	inside := math.Min(math.Max(q.X, math.Max(q.Y, q.Z)), 0)
	return outside + inside
}
