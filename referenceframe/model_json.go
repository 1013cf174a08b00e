package referenceframe

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/sdfcollision/spatialmath"
)

// ModelConfig represents all supported fields in a kinematics JSON file. Lengths are in meters.
type ModelConfig struct {
	Name               string                    `json:"name"`
	Links              []LinkConfig              `json:"links,omitempty"`
	Joints             []JointConfig             `json:"joints,omitempty"`
	Groups             []GroupConfig             `json:"groups,omitempty"`
	DisabledCollisions []DisabledCollisionConfig `json:"disabled_collisions,omitempty"`
}

// LinkConfig is a StaticFrame that also has a specified parent.
type LinkConfig struct {
	ID       string                       `json:"id"`
	Geometry []spatialmath.GeometryConfig `json:"geometry,omitempty"`
}

// JointConfig is a frame with nonzero DOF. Supports revolute, continuous, prismatic and fixed joints.
type JointConfig struct {
	ID          string                         `json:"id"`
	Type        JointType                      `json:"type"`
	Parent      string                         `json:"parent"`
	Child       string                         `json:"child"`
	Translation r3.Vector                      `json:"translation,omitempty"`
	Orientation *spatialmath.OrientationConfig `json:"orientation,omitempty"`
	Axis        r3.Vector                      `json:"axis,omitempty"`
	Min         float64                        `json:"min,omitempty"`
	Max         float64                        `json:"max,omitempty"`
}

// ChainConfig selects the joints between a base link and a tip link.
type ChainConfig struct {
	Base string `json:"base"`
	Tip  string `json:"tip"`
}

// GroupConfig describes a movable group. Its links are the listed links, the child links of the listed
// joints, the links of each chain (base excluded) and the links of the listed subgroups.
type GroupConfig struct {
	Name      string        `json:"name"`
	Links     []string      `json:"links,omitempty"`
	Joints    []string      `json:"joints,omitempty"`
	Chains    []ChainConfig `json:"chains,omitempty"`
	Subgroups []string      `json:"subgroups,omitempty"`
}

// DisabledCollisionConfig is a pair of links that should never be checked for collisions.
type DisabledCollisionConfig struct {
	Link1  string `json:"link1"`
	Link2  string `json:"link2"`
	Reason string `json:"reason,omitempty"`
}

// UnmarshalModelJSON will parse the given JSON data into a kinematics model. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*Model, error) {
	// empty data probably means that the robot component has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	cfg := &ModelConfig{}
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}

	return cfg.ParseConfig(modelName)
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename, modelName string) (*Model, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}

// ParseModelFile reads a model from a .json or .urdf file.
func ParseModelFile(filename, modelName string) (*Model, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return ParseModelJSONFile(filename, modelName)
	case ".urdf", ".xml":
		return ParseURDFFile(filename, modelName)
	default:
		return nil, errors.Errorf("unsupported model file extension %q, expected .json or .urdf", filepath.Ext(filename))
	}
}

// ParseConfig converts the ModelConfig struct into a full Model with the name modelName. Every structural
// problem found is reported in the returned error.
func (cfg *ModelConfig) ParseConfig(modelName string) (*Model, error) {
	if len(cfg.Links) == 0 {
		return nil, ErrNoModelInformation
	}
	if modelName == "" {
		modelName = cfg.Name
	}

	model := &Model{
		name:        modelName,
		linkIndex:   map[string]*Link{},
		jointIndex:  map[string]*Joint{},
		parentJoint: map[string]*Joint{},
		childJoints: map[string][]*Joint{},
		groupIndex:  map[string]int{},
	}

	var errs error
	for _, lc := range cfg.Links {
		if lc.ID == World {
			errs = multierr.Append(errs, NewReservedWordError("link", World))
			continue
		}
		if _, ok := model.linkIndex[lc.ID]; ok {
			errs = multierr.Append(errs, NewDuplicateNameError("link", lc.ID))
			continue
		}
		link := &Link{Name: lc.ID, Geometry: append([]spatialmath.GeometryConfig{}, lc.Geometry...)}
		model.links = append(model.links, link)
		model.linkIndex[lc.ID] = link
	}

	for _, jc := range cfg.Joints {
		joint, err := jc.parse()
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if _, ok := model.jointIndex[jc.ID]; ok {
			errs = multierr.Append(errs, NewDuplicateNameError("joint", jc.ID))
			continue
		}
		if _, ok := model.linkIndex[jc.Parent]; !ok {
			errs = multierr.Append(errs, errors.Wrapf(NewLinkMissingError(jc.Parent), "parent of joint %q", jc.ID))
			continue
		}
		if _, ok := model.linkIndex[jc.Child]; !ok {
			errs = multierr.Append(errs, errors.Wrapf(NewLinkMissingError(jc.Child), "child of joint %q", jc.ID))
			continue
		}
		if _, ok := model.parentJoint[jc.Child]; ok {
			errs = multierr.Append(errs, NewMultipleParentJointsError(jc.Child))
			continue
		}
		model.joints = append(model.joints, joint)
		model.jointIndex[joint.Name] = joint
		model.parentJoint[joint.Child] = joint
		model.childJoints[joint.Parent] = append(model.childJoints[joint.Parent], joint)
	}
	if errs != nil {
		return nil, errs
	}

	if err := model.sortLinks(); err != nil {
		return nil, err
	}

	for _, gc := range cfg.Groups {
		if _, ok := model.groupIndex[gc.Name]; ok {
			errs = multierr.Append(errs, NewDuplicateNameError("group", gc.Name))
			continue
		}
		model.groupIndex[gc.Name] = len(model.groups)
		model.groups = append(model.groups, Group{Name: gc.Name})
	}
	if errs != nil {
		return nil, errs
	}
	for i, gc := range cfg.Groups {
		group, err := model.resolveGroup(gc, cfg.Groups)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "group %q", gc.Name))
			continue
		}
		model.groups[i] = group
	}

	for _, dc := range cfg.DisabledCollisions {
		_, err1 := model.Link(dc.Link1)
		_, err2 := model.Link(dc.Link2)
		if err := multierr.Combine(err1, err2); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, "disabled collision pair"))
			continue
		}
		model.disabled = append(model.disabled, DisabledCollision{Link1: dc.Link1, Link2: dc.Link2, Reason: dc.Reason})
	}
	if errs != nil {
		return nil, errs
	}

	return model, nil
}

func (jc *JointConfig) parse() (*Joint, error) {
	if jc.ID == World {
		return nil, NewReservedWordError("joint", World)
	}
	if jc.ID == "" {
		return nil, errors.New("joint with an empty name")
	}
	switch jc.Type {
	case FixedJoint, RevoluteJoint, ContinuousJoint, PrismaticJoint:
	default:
		return nil, NewUnsupportedJointTypeError(string(jc.Type))
	}
	if jc.Parent == jc.Child {
		return nil, errors.Errorf("joint %q connects link %q to itself", jc.ID, jc.Parent)
	}
	var orientation spatialmath.Orientation
	if jc.Orientation != nil {
		var err error
		orientation, err = jc.Orientation.ParseConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "joint %q", jc.ID)
		}
	}
	return &Joint{
		Name:   jc.ID,
		Type:   jc.Type,
		Parent: jc.Parent,
		Child:  jc.Child,
		Origin: spatialmath.NewPose(jc.Translation, orientation),
		Axis:   normalizedAxis(jc.Axis),
		Min:    jc.Min,
		Max:    jc.Max,
	}, nil
}

// sortLinks finds the root and orders links parents first. Every link has at most one parent joint at
// this point, so a link the walk cannot reach sits on a cycle.
func (m *Model) sortLinks() error {
	var roots []string
	for _, l := range m.links {
		if _, ok := m.parentJoint[l.Name]; !ok {
			roots = append(roots, l.Name)
		}
	}
	if len(roots) != 1 {
		return errors.Wrapf(ErrNeedOneRoot, "have %v", roots)
	}
	m.root = roots[0]

	visited := map[string]bool{}
	queue := []string{m.root}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if visited[curr] {
			return ErrCircularReference
		}
		visited[curr] = true
		m.ordered = append(m.ordered, curr)
		for _, j := range m.childJoints[curr] {
			queue = append(queue, j.Child)
		}
	}
	if len(m.ordered) != len(m.links) {
		return ErrCircularReference
	}
	return nil
}

// resolveGroup expands a group config into its link and joint lists, both in parents-first order.
func (m *Model) resolveGroup(gc GroupConfig, all []GroupConfig) (Group, error) {
	byName := map[string]GroupConfig{}
	for _, g := range all {
		byName[g.Name] = g
	}

	links := map[string]bool{}
	joints := map[string]bool{}
	seenGroups := map[string]bool{}
	pending := []GroupConfig{gc}
	var errs error
	for len(pending) > 0 {
		curr := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if seenGroups[curr.Name] {
			continue
		}
		seenGroups[curr.Name] = true

		for _, name := range curr.Links {
			if _, err := m.Link(name); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			links[name] = true
			if j, ok := m.parentJoint[name]; ok && j.Movable() {
				joints[j.Name] = true
			}
		}
		for _, name := range curr.Joints {
			j, err := m.Joint(name)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			joints[j.Name] = true
			links[j.Child] = true
		}
		for _, chain := range curr.Chains {
			chainJoints, err := m.chain(chain.Base, chain.Tip)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			for _, j := range chainJoints {
				joints[j.Name] = true
				links[j.Child] = true
			}
		}
		for _, name := range curr.Subgroups {
			sub, ok := byName[name]
			if !ok {
				errs = multierr.Append(errs, NewGroupMissingError(name))
				continue
			}
			pending = append(pending, sub)
		}
	}
	if errs != nil {
		return Group{}, errs
	}

	group := Group{Name: gc.Name}
	for _, name := range m.ordered {
		if links[name] {
			group.Links = append(group.Links, name)
		}
	}
	for _, j := range m.joints {
		if joints[j.Name] {
			group.Joints = append(group.Joints, j.Name)
		}
	}
	sort.SliceStable(group.Joints, func(a, b int) bool {
		return m.depth(m.jointIndex[group.Joints[a]].Child) < m.depth(m.jointIndex[group.Joints[b]].Child)
	})
	return group, nil
}

// chain returns the joints from base down to tip.
func (m *Model) chain(base, tip string) ([]*Joint, error) {
	if _, err := m.Link(base); err != nil {
		return nil, err
	}
	if _, err := m.Link(tip); err != nil {
		return nil, err
	}
	ancestry := m.ancestry(tip)
	for i, j := range ancestry {
		if j.Parent == base {
			return ancestry[i:], nil
		}
	}
	return nil, errors.Errorf("link %q is not an ancestor of link %q", base, tip)
}

func (m *Model) depth(link string) int {
	return len(m.ancestry(link))
}
