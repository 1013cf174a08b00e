package spatialmath

import (
	"encoding/json"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/sdfcollision/utils"
)

// Geometry is an entry point with which to access all types of collision geometries.
type Geometry interface {
	Pose() Pose
	Label() string
	SetLabel(string)
	// Transform premultiplies the geometry pose with a transform, allowing the geometry to be moved in space.
	Transform(Pose) Geometry
	// SignedDistance returns the exact euclidean distance from pt to the surface, negative inside.
	SignedDistance(pt r3.Vector) float64
	// BoundingSphereRadius is the radius of a sphere centered on Pose().Point() that contains the geometry.
	BoundingSphereRadius() float64
	AlmostEqual(Geometry) bool
	String() string
	json.Marshaler
}

// GeometryType defines what geometry creator representations are known.
type GeometryType string

// The set of allowed representations for collision geometry.
const (
	UnknownType  = GeometryType("")
	BoxType      = GeometryType("box")
	SphereType   = GeometryType("sphere")
	CapsuleType  = GeometryType("capsule")
	CylinderType = GeometryType("cylinder")
	MeshType     = GeometryType("mesh")
)

// GeometryConfig specifies the format of geometries specified through json configuration files.
// Box dimensions X, Y, Z are full edge lengths. Capsules and cylinders are aligned with their local Z axis
// and L is the tip to tip length.
type GeometryConfig struct {
	Type GeometryType `json:"type"`

	// parameters used for defining a box's rectangular cross-section
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
	Z float64 `json:"z,omitempty"`

	// parameters used for defining a sphere, capsule or cylinder
	R float64 `json:"r,omitempty"`
	L float64 `json:"l,omitempty"`

	// parameters used for meshes, which cannot become distance fields
	MeshPath string `json:"mesh_path,omitempty"`

	// define an offset to position the geometry
	TranslationOffset r3.Vector         `json:"translation,omitempty"`
	OrientationOffset OrientationConfig `json:"orientation,omitempty"`

	Label string `json:"label,omitempty"`
}

// NewGeometryConfig returns the config corresponding to a geometry.
func NewGeometryConfig(g Geometry) (*GeometryConfig, error) {
	config := GeometryConfig{}
	switch gType := g.(type) {
	case *box:
		config.Type = BoxType
		config.X = 2 * gType.halfSize.X
		config.Y = 2 * gType.halfSize.Y
		config.Z = 2 * gType.halfSize.Z
	case *sphere:
		config.Type = SphereType
		config.R = gType.radius
	case *capsule:
		config.Type = CapsuleType
		config.R = gType.radius
		config.L = gType.length
	case *cylinder:
		config.Type = CylinderType
		config.R = gType.radius
		config.L = gType.length
	default:
		return nil, errors.Errorf("cannot create geometry config for %T", g)
	}
	config.Label = g.Label()
	offset := g.Pose()
	o, err := NewOrientationConfig(offset.Orientation())
	if err != nil {
		return nil, err
	}
	config.TranslationOffset = offset.Point()
	config.OrientationOffset = *o
	return &config, nil
}

// InferType returns the declared type, or the type implied by the populated dimensions.
func (config *GeometryConfig) InferType() GeometryType {
	if config.Type != UnknownType {
		return config.Type
	}
	switch {
	case config.MeshPath != "":
		return MeshType
	case config.X != 0 || config.Y != 0 || config.Z != 0:
		return BoxType
	case config.L != 0 && config.R != 0:
		return CapsuleType
	case config.R != 0:
		return SphereType
	}
	return UnknownType
}

// Validate checks the config dimensions. Meshes validate, ParseConfig reports them as unsupported.
func (config *GeometryConfig) Validate(path string) error {
	switch config.InferType() {
	case BoxType:
		if config.X <= 0 || config.Y <= 0 || config.Z <= 0 {
			return utils.NewConfigValidationError(path, errors.New("box dimensions x, y and z must be greater than zero"))
		}
	case SphereType:
		if config.R <= 0 {
			return utils.NewConfigValidationFieldPositiveError(path, "r", config.R)
		}
	case CapsuleType:
		if config.R <= 0 {
			return utils.NewConfigValidationFieldPositiveError(path, "r", config.R)
		}
		if config.L < 2*config.R {
			return utils.NewConfigValidationError(path, errors.Errorf("capsule length %v must be at least twice the radius %v", config.L, config.R))
		}
	case CylinderType:
		if config.R <= 0 {
			return utils.NewConfigValidationFieldPositiveError(path, "r", config.R)
		}
		if config.L <= 0 {
			return utils.NewConfigValidationFieldPositiveError(path, "l", config.L)
		}
	case MeshType:
		if config.MeshPath == "" {
			return utils.NewConfigValidationFieldRequiredError(path, "mesh_path")
		}
	case UnknownType:
		return utils.NewConfigValidationError(path, errors.New("cannot infer geometry type from empty dimensions"))
	default:
		return utils.NewConfigValidationError(path, newGeometryTypeUnsupportedError(config.Type))
	}
	return nil
}

// ParseConfig converts a GeometryConfig into the correct Geometry, offset by its translation and orientation.
func (config *GeometryConfig) ParseConfig() (Geometry, error) {
	gType := config.InferType()
	if gType == MeshType {
		return nil, newGeometryTypeUnsupportedError(gType)
	}
	if err := config.Validate(config.Label); err != nil {
		return nil, err
	}
	orientation, err := config.OrientationOffset.ParseConfig()
	if err != nil {
		return nil, err
	}
	offset := NewPose(config.TranslationOffset, orientation)

	switch gType {
	case BoxType:
		return NewBox(offset, r3.Vector{X: config.X, Y: config.Y, Z: config.Z}, config.Label)
	case SphereType:
		return NewSphere(offset, config.R, config.Label)
	case CapsuleType:
		return NewCapsule(offset, config.R, config.L, config.Label)
	case CylinderType:
		return NewCylinder(offset, config.R, config.L, config.Label)
	default:
		return nil, newGeometryTypeUnsupportedError(gType)
	}
}

// localPoint expresses a world point in the frame of pose.
func localPoint(pose Pose, pt r3.Vector) r3.Vector {
	q := Normalize(pose.Orientation().Quaternion())
	return rotateVector(quat.Conj(q), pt.Sub(pose.Point()))
}
