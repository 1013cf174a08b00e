package spatialmath

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// OrientationType defines what orientation representations are known.
type OrientationType string

// The set of allowed representations for orientation.
const (
	NoOrientationType    = OrientationType("")
	AxisAnglesType       = OrientationType("axis_angles")
	EulerAnglesType      = OrientationType("euler_angles")
	QuaternionType       = OrientationType("quaternion")
	RotationMatrixType   = OrientationType("rotation_matrix")
	defaultOrientationTy = AxisAnglesType
)

// OrientationConfig holds the underlying type of orientation, and the value.
type OrientationConfig struct {
	Type  OrientationType `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type quaternionJSON struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type rotationMatrixJSON struct {
	Mat []float64 `json:"mat"`
}

// NewOrientationConfig encodes an orientation interface into a config.
func NewOrientationConfig(o Orientation) (*OrientationConfig, error) {
	if o == nil {
		return &OrientationConfig{}, nil
	}
	var oType OrientationType
	var value interface{}
	switch oIn := o.(type) {
	case *EulerAngles:
		oType, value = EulerAnglesType, oIn
	case *Quaternion:
		oType, value = QuaternionType, quaternionJSON{oIn.Real, oIn.Imag, oIn.Jmag, oIn.Kmag}
	case *RotationMatrix:
		oType, value = RotationMatrixType, rotationMatrixJSON{oIn.mat[:]}
	default:
		oType, value = defaultOrientationTy, oIn.AxisAngles()
	}
	bytes, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return &OrientationConfig{Type: oType, Value: json.RawMessage(bytes)}, nil
}

// ParseConfig will use the Type in OrientationConfig and convert into the correct struct that implements Orientation.
func (config *OrientationConfig) ParseConfig() (Orientation, error) {
	var err error
	// use default type if type is not specified
	if config.Type == NoOrientationType {
		if len(config.Value) == 0 {
			return NewZeroOrientation(), nil
		}
		config.Type = defaultOrientationTy
	}

	switch config.Type {
	case EulerAnglesType:
		var o EulerAngles
		if err = json.Unmarshal(config.Value, &o); err != nil {
			return nil, errors.Wrap(err, "cannot parse euler angles")
		}
		return &o, nil
	case AxisAnglesType:
		var o R4AA
		if err = json.Unmarshal(config.Value, &o); err != nil {
			return nil, errors.Wrap(err, "cannot parse axis angles")
		}
		return &o, nil
	case QuaternionType:
		var o quaternionJSON
		if err = json.Unmarshal(config.Value, &o); err != nil {
			return nil, errors.Wrap(err, "cannot parse quaternion")
		}
		q := Quaternion(Normalize(quat.Number{Real: o.W, Imag: o.X, Jmag: o.Y, Kmag: o.Z}))
		return &q, nil
	case RotationMatrixType:
		var o rotationMatrixJSON
		if err = json.Unmarshal(config.Value, &o); err != nil {
			return nil, errors.Wrap(err, "cannot parse rotation matrix")
		}
		return NewRotationMatrix(o.Mat)
	default:
		return nil, newOrientationTypeUnsupportedError(string(config.Type))
	}
}
