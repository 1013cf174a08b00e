package spatialmath

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrGeometryTypeUnsupported is returned for geometry types that cannot be turned into a distance field.
var ErrGeometryTypeUnsupported = errors.New("geometry type is unsupported")

func newBadGeometryDimensionsError(g Geometry) error {
	return fmt.Errorf("invalid dimension(s) for geometry type %T", g)
}

func newGeometryTypeUnsupportedError(gt GeometryType) error {
	return errors.Wrapf(ErrGeometryTypeUnsupported, "%q", string(gt))
}

func newOrientationTypeUnsupportedError(orientationType string) error {
	return errors.Errorf("orientation type %q is not supported", orientationType)
}

func newRotationMatrixInputError(m []float64) error {
	return errors.Errorf("input slice has %d elements, need exactly 9", len(m))
}
