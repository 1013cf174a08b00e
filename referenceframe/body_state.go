package referenceframe

import (
	"github.com/pkg/errors"

	"go.viam.com/sdfcollision/spatialmath"
)

// BodyState provides the world pose of every link of a model in one configuration.
type BodyState interface {
	LinkTransform(link string) (spatialmath.Pose, error)
}

type poseMap map[string]spatialmath.Pose

// NewBodyStateFromPoses returns a BodyState backed by explicit world poses.
func NewBodyStateFromPoses(poses map[string]spatialmath.Pose) BodyState {
	pm := make(poseMap, len(poses))
	for name, p := range poses {
		pm[name] = p
	}
	return pm
}

func (pm poseMap) LinkTransform(link string) (spatialmath.Pose, error) {
	p, ok := pm[link]
	if !ok {
		return nil, errors.Errorf("no transform for link %q in body state", link)
	}
	return p, nil
}

// NewBodyStateFromInputs computes forward kinematics for the model. The root link is at the world origin
// and movable joints without an input are at zero.
func NewBodyStateFromInputs(m *Model, inputs JointInputs) (BodyState, error) {
	for name := range inputs {
		if _, err := m.Joint(name); err != nil {
			return nil, err
		}
	}
	poses := make(poseMap, len(m.ordered))
	for _, name := range m.ordered {
		j, ok := m.parentJoint[name]
		if !ok {
			poses[name] = spatialmath.NewZeroPose()
			continue
		}
		value := inputs[j.Name].Value
		if j.Bounded() && (value < j.Min || value > j.Max) {
			return nil, NewInputOutOfBoundsError(j.Name, value, j.Min, j.Max)
		}
		poses[name] = spatialmath.Compose(poses[j.Parent], j.Transform(value))
	}
	return poses, nil
}
