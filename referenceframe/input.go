package referenceframe

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Input wraps the input to a movable joint.
//   - revolute and continuous inputs should be in radians.
//   - prismatic inputs should be in meters.
type Input struct {
	Value float64
}

// FloatsToInputs wraps a slice of floats in Inputs.
func FloatsToInputs(floats []float64) []Input {
	inputs := make([]Input, len(floats))
	for i, f := range floats {
		inputs[i] = Input{f}
	}
	return inputs
}

// InputsToFloats unwraps Inputs to raw floats.
func InputsToFloats(inputs []Input) []float64 {
	floats := make([]float64, len(inputs))
	for i, f := range inputs {
		floats[i] = f.Value
	}
	return floats
}

// JointInputs maps joint names to their input. Joints that are not present are at zero.
type JointInputs map[string]Input

// NewIncorrectDoFError is returned when inputs of the wrong length are given for a group.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match number of DoF, expected %d but got %d", expected, actual)
}

// GroupInputs assigns one input per movable joint of the named group, in group joint order.
func GroupInputs(m *Model, group string, inputs []Input) (JointInputs, error) {
	g, err := m.Group(group)
	if err != nil {
		return nil, err
	}
	var movable []string
	for _, name := range g.Joints {
		if j, err := m.Joint(name); err == nil && j.Movable() {
			movable = append(movable, name)
		}
	}
	if len(movable) != len(inputs) {
		return nil, NewIncorrectDoFError(len(inputs), len(movable))
	}
	ji := JointInputs{}
	for i, name := range movable {
		ji[name] = inputs[i]
	}
	return ji, nil
}

// ParseJointInputs parses "name=value" assignments, as given on a command line.
func ParseJointInputs(assignments []string) (JointInputs, error) {
	ji := JointInputs{}
	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Errorf("joint input %q must have the form name=value", a)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "joint input %q", a)
		}
		ji[name] = Input{f}
	}
	return ji, nil
}

// Names returns the joint names in sorted order.
func (ji JointInputs) Names() []string {
	names := make([]string, 0, len(ji))
	for name := range ji {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
