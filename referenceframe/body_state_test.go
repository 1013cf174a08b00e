package referenceframe

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/sdfcollision/spatialmath"
)

func TestForwardKinematics(t *testing.T) {
	m := parseTestArm(t)

	state, err := NewBodyStateFromInputs(m, nil)
	test.That(t, err, test.ShouldBeNil)
	tool, err := state.LinkTransform("tool")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rounded(tool.Point()), test.ShouldResemble, rounded(r3.Vector{X: 0.25, Z: 0.4}))
	root, err := state.LinkTransform("base_link")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(root, spatialmath.NewZeroPose()), test.ShouldBeTrue)

	inputs, err := GroupInputs(m, "arm", FloatsToInputs([]float64{math.Pi / 2, 0}))
	test.That(t, err, test.ShouldBeNil)
	state, err = NewBodyStateFromInputs(m, inputs)
	test.That(t, err, test.ShouldBeNil)
	tool, err = state.LinkTransform("tool")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rounded(tool.Point()), test.ShouldResemble, rounded(r3.Vector{Y: 0.25, Z: 0.4}))
	tip, err := state.LinkTransform("tool_tip")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rounded(tip.Point()), test.ShouldResemble, rounded(r3.Vector{Y: 0.3, Z: 0.4}))

	// Pitching joint2 down by a quarter turn about +Y points the tool along -Z.
	state, err = NewBodyStateFromInputs(m, JointInputs{"joint2": {1.5}})
	test.That(t, err, test.ShouldBeNil)
	tool, err = state.LinkTransform("tool")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tool.Point().Z, test.ShouldBeLessThan, 0.4)
	test.That(t, tool.Point().X, test.ShouldBeGreaterThan, 0)

	_, err = state.LinkTransform("gripper")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestForwardKinematicsErrors(t *testing.T) {
	m := parseTestArm(t)

	_, err := NewBodyStateFromInputs(m, JointInputs{"joint2": {1.6}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "outside of limits")

	_, err = NewBodyStateFromInputs(m, JointInputs{"elbow": {0}})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = GroupInputs(m, "arm", FloatsToInputs([]float64{0}))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestParseJointInputs(t *testing.T) {
	ji, err := ParseJointInputs([]string{"joint1=0.5", " joint2 = -1"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ji.Names(), test.ShouldResemble, []string{"joint1", "joint2"})
	test.That(t, ji["joint2"].Value, test.ShouldEqual, -1.0)
	test.That(t, InputsToFloats([]Input{ji["joint1"]}), test.ShouldResemble, []float64{0.5})

	_, err = ParseJointInputs([]string{"joint1"})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = ParseJointInputs([]string{"joint1=abc"})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBodyStateFromPoses(t *testing.T) {
	state := NewBodyStateFromPoses(map[string]spatialmath.Pose{"a": spatialmath.NewPoseFromPoint(r3.Vector{X: 1})})
	p, err := state.LinkTransform("a")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Point().X, test.ShouldEqual, 1.0)
	_, err = state.LinkTransform("b")
	test.That(t, err, test.ShouldNotBeNil)
}
