package referenceframe

import (
	"github.com/pkg/errors"
)

// World is the reserved name of the frame every model is ultimately attached to.
const World = "world"

var (
	// ErrNoModelInformation is used when there is no model information.
	ErrNoModelInformation = errors.New("no model information")

	// ErrCircularReference is returned when the kinematic tree contains a cycle.
	ErrCircularReference = errors.New("infinite loop finding path from link to root")

	// ErrNeedOneRoot is returned when the kinematic tree has zero or several parentless links.
	ErrNeedOneRoot = errors.New("kinematic model must have exactly one root link")
)

// NewReservedWordError is used when a link or joint is named after a reserved word.
func NewReservedWordError(configType, reservedWord string) error {
	return errors.Errorf("reserved word: cannot create a %s with the name %q", configType, reservedWord)
}

// NewDuplicateNameError is used when two elements of the same kind share a name.
func NewDuplicateNameError(configType, name string) error {
	return errors.Errorf("duplicate %s name %q", configType, name)
}

// NewLinkMissingError is returned when a link is referenced but not defined.
func NewLinkMissingError(name string) error {
	return errors.Errorf("link %q not found in model", name)
}

// NewJointMissingError is returned when a joint is referenced but not defined.
func NewJointMissingError(name string) error {
	return errors.Errorf("joint %q not found in model", name)
}

// NewGroupMissingError is returned when a group is referenced but not defined.
func NewGroupMissingError(name string) error {
	return errors.Errorf("group %q not found in model", name)
}

// NewUnsupportedJointTypeError is used when a joint of an unsupported type is configured.
func NewUnsupportedJointTypeError(jointType string) error {
	return errors.Errorf("unsupported joint type detected: %q", jointType)
}

// NewMultipleParentJointsError is used when a link is the child of more than one joint.
func NewMultipleParentJointsError(link string) error {
	return errors.Errorf("link %q is the child of more than one joint", link)
}

// NewInputOutOfBoundsError is returned when a joint input is outside of the joint limits.
func NewInputOutOfBoundsError(joint string, value, lower, upper float64) error {
	return errors.Errorf("input %v for joint %q is outside of limits [%v, %v]", value, joint, lower, upper)
}
