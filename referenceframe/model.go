// Package referenceframe describes articulated bodies: links, the fixed and movable joints connecting
// them, named movable groups, the link pairs that never need collision checks, and the per-link
// world transforms of a body in a given state.
package referenceframe

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"

	"go.viam.com/sdfcollision/spatialmath"
)

// JointType is the kind of motion a joint allows between its parent and child link.
type JointType string

// Supported joint types. Fixed is the only non-movable type.
const (
	FixedJoint      = JointType("fixed")
	RevoluteJoint   = JointType("revolute")
	ContinuousJoint = JointType("continuous")
	PrismaticJoint  = JointType("prismatic")
)

// Link is a rigid body of the model.
type Link struct {
	Name string
	// Geometry holds the collision shapes in the link frame. Unsupported or degenerate entries are kept;
	// it is up to consumers how to treat them.
	Geometry []spatialmath.GeometryConfig
}

// HasGeometry reports whether the link carries any collision geometry.
func (l *Link) HasGeometry() bool {
	return len(l.Geometry) > 0
}

// Joint connects a parent link to a child link.
type Joint struct {
	Name   string
	Type   JointType
	Parent string
	Child  string
	// Origin is the pose of the child link frame in the parent link frame at a zero joint value.
	Origin spatialmath.Pose
	// Axis is the unit motion axis in the joint frame, unused for fixed joints.
	Axis r3.Vector
	// Min and Max are the joint limits in radians or meters. Limits are enforced when Max > Min.
	Min float64
	Max float64
}

// Movable reports whether the joint allows any motion.
func (j *Joint) Movable() bool {
	return j.Type != FixedJoint
}

// Bounded reports whether the joint limits are enforced.
func (j *Joint) Bounded() bool {
	return j.Movable() && j.Type != ContinuousJoint && j.Max > j.Min
}

// Transform returns the pose of the child link frame in the parent link frame at the given joint value.
func (j *Joint) Transform(value float64) spatialmath.Pose {
	switch j.Type {
	case RevoluteJoint, ContinuousJoint:
		return spatialmath.Compose(j.Origin, spatialmath.NewPoseFromOrientation(
			&spatialmath.R4AA{Theta: value, RX: j.Axis.X, RY: j.Axis.Y, RZ: j.Axis.Z}))
	case PrismaticJoint:
		return spatialmath.Compose(j.Origin, spatialmath.NewPoseFromPoint(j.Axis.Mul(value)))
	case FixedJoint:
		return j.Origin
	}
	return j.Origin
}

// Group is a named movable group: an ordered list of links whose configuration varies together.
type Group struct {
	Name  string
	Links []string
	// Joints are the joints of the model whose values move the group.
	Joints []string
}

// DisabledCollision is a pair of links that never need to be checked against each other.
type DisabledCollision struct {
	Link1  string
	Link2  string
	Reason string
}

// FixedNeighbor is a link rigidly attached to another through a fixed joint.
type FixedNeighbor struct {
	Link string
	// Offset is the pose of Link in the frame of the link it was reached from.
	Offset spatialmath.Pose
}

// Model is an immutable kinematic tree. Build one from a ModelConfig, URDF or SRDF.
type Model struct {
	name string
	root string

	links     []*Link
	linkIndex map[string]*Link
	// ordered is every link name, parents before children.
	ordered []string

	joints      []*Joint
	jointIndex  map[string]*Joint
	parentJoint map[string]*Joint
	childJoints map[string][]*Joint

	groups     []Group
	groupIndex map[string]int

	disabled []DisabledCollision
}

// Name returns the name of the model.
func (m *Model) Name() string {
	return m.name
}

// RootLink returns the name of the only link without a parent joint.
func (m *Model) RootLink() string {
	return m.root
}

// Links returns all links in definition order.
func (m *Model) Links() []*Link {
	return m.links
}

// Link returns the link with the given name.
func (m *Model) Link(name string) (*Link, error) {
	l, ok := m.linkIndex[name]
	if !ok {
		return nil, NewLinkMissingError(name)
	}
	return l, nil
}

// LinksWithCollisionGeometry returns the names of every link with geometry, in definition order.
func (m *Model) LinksWithCollisionGeometry() []string {
	return lo.FilterMap(m.links, func(l *Link, _ int) (string, bool) {
		return l.Name, l.HasGeometry()
	})
}

// OrderedLinks returns every link name with parents listed before their children.
func (m *Model) OrderedLinks() []string {
	return m.ordered
}

// Joints returns all joints in definition order.
func (m *Model) Joints() []*Joint {
	return m.joints
}

// Joint returns the joint with the given name.
func (m *Model) Joint(name string) (*Joint, error) {
	j, ok := m.jointIndex[name]
	if !ok {
		return nil, NewJointMissingError(name)
	}
	return j, nil
}

// MovableJoints returns the non-fixed joints in definition order.
func (m *Model) MovableJoints() []*Joint {
	return lo.Filter(m.joints, func(j *Joint, _ int) bool { return j.Movable() })
}

// ParentJoint returns the joint whose child is the given link. The root link has none.
func (m *Model) ParentJoint(link string) (*Joint, bool) {
	j, ok := m.parentJoint[link]
	return j, ok
}

// ChildJoints returns the joints whose parent is the given link, in definition order.
func (m *Model) ChildJoints(link string) []*Joint {
	return m.childJoints[link]
}

// FixedNeighbors returns the links attached to link through a fixed joint: first its parent, if the
// parent joint is fixed, then its fixed children in joint definition order.
func (m *Model) FixedNeighbors(link string) []FixedNeighbor {
	var neighbors []FixedNeighbor
	if j, ok := m.parentJoint[link]; ok && !j.Movable() {
		neighbors = append(neighbors, FixedNeighbor{Link: j.Parent, Offset: spatialmath.PoseInverse(j.Origin)})
	}
	for _, j := range m.childJoints[link] {
		if !j.Movable() {
			neighbors = append(neighbors, FixedNeighbor{Link: j.Child, Offset: j.Origin})
		}
	}
	return neighbors
}

// Groups returns every movable group in definition order.
func (m *Model) Groups() []Group {
	return m.groups
}

// Group returns the movable group with the given name.
func (m *Model) Group(name string) (Group, error) {
	idx, ok := m.groupIndex[name]
	if !ok {
		return Group{}, NewGroupMissingError(name)
	}
	return m.groups[idx], nil
}

// UpdatedLinks returns the links whose world transform can change when the group moves: the group
// links and all of their descendants, parents first.
func (m *Model) UpdatedLinks(group string) ([]string, error) {
	g, err := m.Group(group)
	if err != nil {
		return nil, err
	}
	updated := map[string]bool{}
	stack := append([]string{}, g.Links...)
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if updated[curr] {
			continue
		}
		updated[curr] = true
		for _, j := range m.childJoints[curr] {
			stack = append(stack, j.Child)
		}
	}
	return lo.Filter(m.ordered, func(name string, _ int) bool { return updated[name] }), nil
}

// DisabledCollisionPairs returns the default list of pairs that never need to be checked.
func (m *Model) DisabledCollisionPairs() []DisabledCollision {
	return m.disabled
}

// ancestry returns the joints from the root down to the given link.
func (m *Model) ancestry(link string) []*Joint {
	var chain []*Joint
	for curr := link; ; {
		j, ok := m.parentJoint[curr]
		if !ok {
			break
		}
		chain = append(chain, j)
		curr = j.Parent
	}
	return lo.Reverse(chain)
}

// normalizedAxis returns a unit axis, defaulting to +X like URDF does for a missing axis.
func normalizedAxis(axis r3.Vector) r3.Vector {
	norm := axis.Norm()
	if norm == 0 || math.IsNaN(norm) {
		return r3.Vector{X: 1}
	}
	return axis.Mul(1 / norm)
}
